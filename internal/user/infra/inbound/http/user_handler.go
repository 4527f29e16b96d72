package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/user/application"
	"github.com/davicafu/devcamper/pkg/utils"
)

// UserHandler es la gestión de usuarios reservada al admin.
type UserHandler struct {
	service *application.UserService
}

func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUser endpoint POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
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

	u, err := h.service.CreateUser(c.Request.Context(), application.NewUserInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: roleOf(req.Role),
	})
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, u)
}

// GetUser endpoint GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, u)
}

// UpdateUser endpoint PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	// Usamos punteros para que los campos sean opcionales en el JSON
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Role  *string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	upd := application.UserUpdate{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role := roleOf(*req.Role)
		upd.Role = &role
	}
	u, err := h.service.UpdateUser(c.Request.Context(), id, upd)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, u)
}

// DeleteUser endpoint DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, fmt.Errorf("resource with id of %s %w", raw, sharedDomain.ErrNotFound))
		return uuid.Nil, false
	}
	return id, true
}

func fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func roleOf(s string) sharedDomain.Role {
	return sharedDomain.Role(s)
}
