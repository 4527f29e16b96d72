package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/pkg/utils"
)

type ReviewHandler struct {
	service *application.ReviewService
}

func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type reviewRequest struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (r reviewRequest) merge(current *bootcampDomain.Review) bootcampDomain.ReviewInput {
	var in bootcampDomain.ReviewInput
	if current != nil {
		in = bootcampDomain.ReviewInput{Title: current.Title, Text: current.Text, Rating: current.Rating}
	}
	setString(&in.Title, r.Title)
	setString(&in.Text, r.Text)
	if r.Rating != nil {
		in.Rating = *r.Rating
	}
	return in
}

// AddReview endpoint POST /bootcamps/:id/reviews
func (h *ReviewHandler) AddReview(c *gin.Context) {
	bootcampID, ok := pathID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), principal(c), bootcampID, req.merge(nil))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, review)
}

// GetReview endpoint GET /reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, review)
}

// UpdateReview endpoint PUT /reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	current, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	review, err := h.service.UpdateReview(c.Request.Context(), principal(c), id, req.merge(current))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, review)
}

// DeleteReview endpoint DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteReview(c.Request.Context(), principal(c), id); err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}
