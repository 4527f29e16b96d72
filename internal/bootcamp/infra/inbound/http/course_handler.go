package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/pkg/utils"
)

type CourseHandler struct {
	service *application.CourseService
}

func NewCourseHandler(service *application.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

type courseRequest struct {
	Title                *string               `json:"title"`
	Description          *string               `json:"description"`
	Weeks                *string               `json:"weeks"`
	Tuition              *float64              `json:"tuition"`
	MinimumSkill         *bootcampDomain.Skill `json:"minimumSkill"`
	ScholarshipAvailable *bool                 `json:"scholarshipAvailable"`
}

func (r courseRequest) merge(current *bootcampDomain.Course) bootcampDomain.CourseInput {
	var in bootcampDomain.CourseInput
	if current != nil {
		in = bootcampDomain.CourseInput{
			Title: current.Title, Description: current.Description, Weeks: current.Weeks,
			Tuition: current.Tuition, MinimumSkill: current.MinimumSkill,
			ScholarshipAvailable: current.ScholarshipAvailable,
		}
	}
	setString(&in.Title, r.Title)
	setString(&in.Description, r.Description)
	setString(&in.Weeks, r.Weeks)
	if r.Tuition != nil {
		in.Tuition = *r.Tuition
	}
	if r.MinimumSkill != nil {
		in.MinimumSkill = *r.MinimumSkill
	}
	setBool(&in.ScholarshipAvailable, r.ScholarshipAvailable)
	return in
}

// AddCourse endpoint POST /bootcamps/:id/courses
func (h *CourseHandler) AddCourse(c *gin.Context) {
	bootcampID, ok := pathID(c)
	if !ok {
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	course, err := h.service.AddCourse(c.Request.Context(), principal(c), bootcampID, req.merge(nil))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, course)
}

// GetCourse endpoint GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, course)
}

// UpdateCourse endpoint PUT /courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	current, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), principal(c), id, req.merge(current))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, course)
}

// DeleteCourse endpoint DELETE /courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(c.Request.Context(), principal(c), id); err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}
