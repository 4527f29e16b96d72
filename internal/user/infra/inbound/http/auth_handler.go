package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/user/application"
	"github.com/davicafu/devcamper/internal/user/domain"
	"github.com/davicafu/devcamper/pkg/utils"
)

// CookieConfig controla la cookie "token" que acompaña a la respuesta de login.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

type AuthHandler struct {
	users  *application.UserService
	tokens *application.TokenService
	cookie CookieConfig
}

func NewAuthHandler(users *application.UserService, tokens *application.TokenService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, cookie: cookie}
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Register endpoint POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	u, err := h.users.Register(c.Request.Context(), application.NewUserInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: roleOf(req.Role),
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, u)
}

// Login endpoint POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, u)
}

// Logout endpoint GET /auth/logout: sobrescribe la cookie con una que caduca enseguida.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "none", 10, "/", "", h.cookie.Secure, true)
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

// Me endpoint GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	if p == nil {
		fail(c, domain.ErrInvalidCredentials)
		return
	}
	u, err := h.users.GetUser(c.Request.Context(), p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, u)
}

// UpdateDetails endpoint PUT /auth/updatedetails
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	p, _ := middleware.CurrentPrincipal(c)
	u, err := h.users.UpdateDetails(c.Request.Context(), p, req.Name, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, u)
}

// UpdatePassword endpoint PUT /auth/updatepassword; devuelve un token nuevo.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	p, _ := middleware.CurrentPrincipal(c)
	u, err := h.users.UpdatePassword(c.Request.Context(), p, req.CurrentPassword, req.NewPassword)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, u)
}

// sendToken firma el token, lo deja en la cookie httpOnly y lo devuelve en el cuerpo.
func (h *AuthHandler) sendToken(c *gin.Context, status int, u *domain.User) {
	token, err := h.tokens.Issue(u)
	if err != nil {
		fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(status, tokenResponse{Success: true, Token: token})
}
