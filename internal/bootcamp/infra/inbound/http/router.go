package http

import (
	"github.com/gin-gonic/gin"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// Stores son las fuentes de lectura de los listados con resultados avanzados.
type Stores struct {
	Bootcamps query.Store
	Courses   query.Store
	Reviews   query.Store
}

type Handlers struct {
	Bootcamps *BootcampHandler
	Courses   *CourseHandler
	Reviews   *ReviewHandler
}

// bootcampSummary es el populate de cursos y reviews: solo nombre y descripción del bootcamp.
var bootcampSummary = &query.Populate{
	Path:   "bootcamp",
	From:   "bootcamps",
	Select: []string{"name", "description"},
}

// RegisterBootcampRoutes registra /bootcamps, /courses y /reviews bajo el grupo de la API.
func RegisterBootcampRoutes(api *gin.RouterGroup, h Handlers, stores Stores, auth middleware.Authenticator, defaultLimit int) {
	protect := middleware.Protect(auth)
	publisher := middleware.Authorize(sharedDomain.RolePublisher, sharedDomain.RoleAdmin)
	reviewer := middleware.Authorize(sharedDomain.RoleUser, sharedDomain.RoleAdmin)

	limit := query.WithDefaultLimit(defaultLimit)
	bootcampText := query.WithTextFields("name", "slug", "phone", "location.zipcode", "location.city", "location.state")
	courseText := query.WithTextFields("title", "weeks", "minimumSkill")
	reviewText := query.WithTextFields("title", "text")
	dates := query.WithDateFields("createdAt")

	bootcamps := api.Group("/bootcamps")
	{
		bootcamps.GET("", middleware.AdvancedResults(stores.Bootcamps, nil, limit, bootcampText, dates), middleware.RespondAdvancedResults)
		bootcamps.POST("", protect, publisher, h.Bootcamps.CreateBootcamp)
		bootcamps.GET("/radius/:zipcode/:distance", h.Bootcamps.BootcampsInRadius)

		bootcamps.GET("/:id", h.Bootcamps.GetBootcamp)
		bootcamps.PUT("/:id", protect, publisher, h.Bootcamps.UpdateBootcamp)
		bootcamps.DELETE("/:id", protect, publisher, h.Bootcamps.DeleteBootcamp)
		bootcamps.PUT("/:id/photo", protect, publisher, h.Bootcamps.UploadPhoto)
		bootcamps.GET("/:id/ratings/trend", h.Bootcamps.RatingTrend)

		// Rutas anidadas: el bootcamp de la ruta se combina con el filtro del cliente.
		bootcamps.GET("/:id/courses", middleware.ScopedResults(stores.Courses, bootcampScope, nil, limit, courseText, dates), middleware.RespondAdvancedResults)
		bootcamps.POST("/:id/courses", protect, publisher, h.Courses.AddCourse)
		bootcamps.GET("/:id/reviews", middleware.ScopedResults(stores.Reviews, bootcampScope, nil, limit, reviewText, dates), middleware.RespondAdvancedResults)
		bootcamps.POST("/:id/reviews", protect, reviewer, h.Reviews.AddReview)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", middleware.AdvancedResults(stores.Courses, bootcampSummary, limit, courseText, dates), middleware.RespondAdvancedResults)
		courses.GET("/:id", h.Courses.GetCourse)
		courses.PUT("/:id", protect, publisher, h.Courses.UpdateCourse)
		courses.DELETE("/:id", protect, publisher, h.Courses.DeleteCourse)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", middleware.AdvancedResults(stores.Reviews, bootcampSummary, limit, reviewText, dates), middleware.RespondAdvancedResults)
		reviews.GET("/:id", h.Reviews.GetReview)
		reviews.PUT("/:id", protect, reviewer, h.Reviews.UpdateReview)
		reviews.DELETE("/:id", protect, reviewer, h.Reviews.DeleteReview)
	}
}
