package http

import (
	"github.com/gin-gonic/gin"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// RegisterUserRoutes registra /auth y la gestión de usuarios /users (solo admin).
func RegisterUserRoutes(api *gin.RouterGroup, auth *AuthHandler, users *UserHandler, store query.Store, authenticator middleware.Authenticator, defaultLimit int) {
	protect := middleware.Protect(authenticator)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.GET("/logout", auth.Logout)
		authGroup.GET("/me", protect, auth.Me)
		authGroup.PUT("/updatedetails", protect, auth.UpdateDetails)
		authGroup.PUT("/updatepassword", protect, auth.UpdatePassword)
	}

	usersGroup := api.Group("/users", protect, middleware.Authorize(sharedDomain.RoleAdmin))
	{
		usersGroup.GET("", middleware.AdvancedResults(store, nil,
			query.WithDefaultLimit(defaultLimit),
			query.WithTextFields("name", "email", "role"),
		), middleware.RespondAdvancedResults)
		usersGroup.POST("", users.CreateUser)
		usersGroup.GET("/:id", users.GetUser)
		usersGroup.PUT("/:id", users.UpdateUser)
		usersGroup.DELETE("/:id", users.DeleteUser)
	}
}
