package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/user/application"
	"github.com/davicafu/devcamper/internal/user/domain"
	userHTTP "github.com/davicafu/devcamper/internal/user/infra/inbound/http"
	"github.com/davicafu/devcamper/tests/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	repo   *mocks.InMemoryUserRepo
	users  *application.UserService
	tokens *application.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zap.NewNop()

	repo := mocks.NewInMemoryUserRepo()
	users := application.NewUserService(repo, mocks.PlainHasher{}, mocks.NewDummyCache(), time.Minute, log)
	tokens := application.NewTokenService("test-secret", time.Hour, users)

	r := gin.New()
	r.Use(middleware.ErrorHandler(log))
	userHTTP.RegisterUserRoutes(r.Group("/api/v1"),
		userHTTP.NewAuthHandler(users, tokens, userHTTP.CookieConfig{MaxAge: 24 * time.Hour}),
		userHTTP.NewUserHandler(users),
		mocks.NewInMemoryStore(),
		tokens, 25,
	)
	return &testAPI{router: r, repo: repo, users: users, tokens: tokens}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// seed crea un usuario directamente en el servicio y devuelve su token.
func (a *testAPI) seed(t *testing.T, email string, role sharedDomain.Role) (*domain.User, string) {
	t.Helper()
	u, err := a.users.CreateUser(context.Background(), application.NewUserInput{
		Name: "Test " + string(role), Email: email, Password: "123456", Role: role,
	})
	require.NoError(t, err)
	tok, err := a.tokens.Issue(u)
	require.NoError(t, err)
	return u, tok
}

type tokenBody struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type userBody struct {
	Success bool        `json:"success"`
	Data    domain.User `json:"data"`
}

func TestRegister_ReturnsTokenAndCookie(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "John", "email": "John@Gmail.com", "password": "123456", "role": "publisher",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body tokenBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Token)

	res := w.Result()
	var cookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == middleware.TokenCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, body.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// El password nunca sale en la respuesta
	me := api.do(http.MethodGet, "/api/v1/auth/me", body.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.NotContains(t, me.Body.String(), "hashed:")

	var meBody userBody
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &meBody))
	assert.Equal(t, "john@gmail.com", meBody.Data.Email)
	assert.Equal(t, sharedDomain.RolePublisher, meBody.Data.Role)
}

func TestRegister_RejectsAdminRoleAndDuplicates(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Evil", "email": "evil@gmail.com", "password": "123456", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.seed(t, "taken@gmail.com", sharedDomain.RoleUser)
	w = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Other", "email": "taken@gmail.com", "password": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "mary@gmail.com", sharedDomain.RoleUser)

	ok := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "mary@gmail.com", "password": "123456"})
	require.Equal(t, http.StatusOK, ok.Code)
	var body tokenBody
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)

	bad := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "mary@gmail.com", "password": "nope12"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	missing := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "mary@gmail.com"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestLogout_ExpiresCookie(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "none", cookies[0].Value)
}

func TestMe_RequiresToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateDetailsAndPassword(t *testing.T) {
	api := newTestAPI(t)
	u, tok := api.seed(t, "kate@gmail.com", sharedDomain.RoleUser)

	w := api.do(http.MethodPut, "/api/v1/auth/updatedetails", tok, map[string]string{"name": "Kate Renamed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Kate Renamed", api.repo.Users[u.ID].Name)
	assert.Equal(t, "kate@gmail.com", api.repo.Users[u.ID].Email)

	wrong := api.do(http.MethodPut, "/api/v1/auth/updatepassword", tok, map[string]string{
		"currentPassword": "badpass", "newPassword": "abcdef",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	w = api.do(http.MethodPut, "/api/v1/auth/updatepassword", tok, map[string]string{
		"currentPassword": "123456", "newPassword": "abcdef",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body tokenBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)

	login := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "kate@gmail.com", "password": "abcdef"})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestUsersRoutes_AdminOnly(t *testing.T) {
	api := newTestAPI(t)
	_, userTok := api.seed(t, "plain@gmail.com", sharedDomain.RoleUser)
	_, adminTok := api.seed(t, "admin@gmail.com", sharedDomain.RoleAdmin)

	w := api.do(http.MethodGet, "/api/v1/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, "/api/v1/users", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsersCRUD(t *testing.T) {
	api := newTestAPI(t)
	_, adminTok := api.seed(t, "admin@gmail.com", sharedDomain.RoleAdmin)

	w := api.do(http.MethodPost, "/api/v1/users", adminTok, map[string]string{
		"name": "New Admin", "email": "second@gmail.com", "password": "123456", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created userBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, sharedDomain.RoleAdmin, created.Data.Role)
	path := "/api/v1/users/" + created.Data.ID.String()

	w = api.do(http.MethodGet, path, adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPut, path, adminTok, map[string]string{"role": "publisher"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, sharedDomain.RolePublisher, api.repo.Users[created.Data.ID].Role)

	w = api.do(http.MethodDelete, path, adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, exists := api.repo.Users[created.Data.ID]
	assert.False(t, exists)

	w = api.do(http.MethodGet, "/api/v1/users/"+uuid.NewString(), adminTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/v1/users/not-a-uuid", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
