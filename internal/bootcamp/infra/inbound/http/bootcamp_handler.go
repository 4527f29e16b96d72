package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/pkg/utils"
)

// PhotoField es el campo multipart de PUT /bootcamps/:id/photo.
const PhotoField = "file"

type BootcampHandler struct {
	service    *application.BootcampService
	aggregates *application.AggregatesService
}

func NewBootcampHandler(service *application.BootcampService, aggregates *application.AggregatesService) *BootcampHandler {
	return &BootcampHandler{service: service, aggregates: aggregates}
}

type bootcampRequest struct {
	Name          *string                 `json:"name"`
	Description   *string                 `json:"description"`
	Website       *string                 `json:"website"`
	Phone         *string                 `json:"phone"`
	Email         *string                 `json:"email"`
	Address       *string                 `json:"address"`
	Careers       []bootcampDomain.Career `json:"careers"`
	Housing       *bool                   `json:"housing"`
	JobAssistance *bool                   `json:"jobAssistance"`
	JobGuarantee  *bool                   `json:"jobGuarantee"`
	AcceptGi      *bool                   `json:"acceptGi"`
}

// merge aplica los campos presentes sobre el bootcamp actual (nil = alta).
func (r bootcampRequest) merge(current *bootcampDomain.Bootcamp) bootcampDomain.BootcampInput {
	var in bootcampDomain.BootcampInput
	if current != nil {
		in = bootcampDomain.BootcampInput{
			Name: current.Name, Description: current.Description, Website: current.Website,
			Phone: current.Phone, Email: current.Email, Careers: current.Careers,
			Housing: current.Housing, JobAssistance: current.JobAssistance,
			JobGuarantee: current.JobGuarantee, AcceptGi: current.AcceptGi,
		}
	}
	setString(&in.Name, r.Name)
	setString(&in.Description, r.Description)
	setString(&in.Website, r.Website)
	setString(&in.Phone, r.Phone)
	setString(&in.Email, r.Email)
	setString(&in.Address, r.Address)
	if r.Careers != nil {
		in.Careers = r.Careers
	}
	setBool(&in.Housing, r.Housing)
	setBool(&in.JobAssistance, r.JobAssistance)
	setBool(&in.JobGuarantee, r.JobGuarantee)
	setBool(&in.AcceptGi, r.AcceptGi)
	return in
}

// CreateBootcamp endpoint POST /bootcamps
func (h *BootcampHandler) CreateBootcamp(c *gin.Context) {
	var req bootcampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	b, err := h.service.CreateBootcamp(c.Request.Context(), principal(c), req.merge(nil))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, b)
}

// GetBootcamp endpoint GET /bootcamps/:id
func (h *BootcampHandler) GetBootcamp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBootcamp(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, b)
}

// UpdateBootcamp endpoint PUT /bootcamps/:id
func (h *BootcampHandler) UpdateBootcamp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req bootcampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	current, err := h.service.GetBootcamp(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	b, err := h.service.UpdateBootcamp(c.Request.Context(), principal(c), id, req.merge(current))
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, b)
}

// DeleteBootcamp endpoint DELETE /bootcamps/:id
func (h *BootcampHandler) DeleteBootcamp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBootcamp(c.Request.Context(), principal(c), id); err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

// UploadPhoto endpoint PUT /bootcamps/:id/photo (multipart, campo "file")
func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var upload *application.PhotoUpload
	if fh, err := c.FormFile(PhotoField); err == nil {
		f, err := fh.Open()
		if err != nil {
			fail(c, err)
			return
		}
		defer f.Close()
		upload = &application.PhotoUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     f,
		}
	}

	name, err := h.service.UploadPhoto(c.Request.Context(), principal(c), id, upload)
	if err != nil {
		fail(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, name)
}

// BootcampsInRadius endpoint GET /bootcamps/radius/:zipcode/:distance
func (h *BootcampHandler) BootcampsInRadius(c *gin.Context) {
	miles, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		fail(c, middleware.BindError(err))
		return
	}

	bootcamps, err := h.service.BootcampsInRadius(c.Request.Context(), c.Param("zipcode"), miles)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Success: true, Count: len(bootcamps), Data: bootcamps})
}

// RatingTrend endpoint GET /bootcamps/:id/ratings/trend?start=YYYY-MM-DD&end=YYYY-MM-DD
// Por defecto devuelve los últimos 30 días.
func (h *BootcampHandler) RatingTrend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	var err error
	if raw := c.Query("start"); raw != "" {
		if start, err = parseDay(raw); err != nil {
			fail(c, middleware.BindError(err))
			return
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = parseDay(raw); err != nil {
			fail(c, middleware.BindError(err))
			return
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	trend, err := h.aggregates.RatingTrend(c.Request.Context(), id, start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Success: true, Count: len(trend), Data: trend})
}

func parseDay(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
