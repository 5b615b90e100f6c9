package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// CourseHandler handles cours endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List the course catalogue
// @Tags Cours
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cours [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// ListUpcoming godoc
// @Summary List upcoming courses
// @Tags Cours
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cours/upcoming [get]
func (h *CourseHandler) ListUpcoming(c *gin.Context) {
	courses, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// ListByInstructor godoc
// @Summary List courses taught by a moniteur
// @Tags Cours
// @Produce json
// @Param moniteurId path string true "Moniteur ID"
// @Success 200 {object} response.Envelope
// @Router /cours/moniteur/{moniteurId} [get]
func (h *CourseHandler) ListByInstructor(c *gin.Context) {
	courses, err := h.service.ListByInstructor(c.Request.Context(), c.Param("moniteurId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// ListByType godoc
// @Summary List courses by type
// @Tags Cours
// @Produce json
// @Param type path string true "PUBLIC or PRIVATE"
// @Param autoEcoleId query string false "Scope private courses to one school"
// @Success 200 {object} response.Envelope
// @Router /cours/type/{type} [get]
func (h *CourseHandler) ListByType(c *gin.Context) {
	courses, err := h.service.ListByType(c.Request.Context(), c.Param("type"), c.Query("autoEcoleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get a course
// @Tags Cours
// @Produce json
// @Param id path string true "Cours ID"
// @Success 200 {object} response.Envelope
// @Router /cours/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create a course
// @Tags Cours
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /cours [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update a course
// @Tags Cours
// @Accept json
// @Produce json
// @Param id path string true "Cours ID"
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cours/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

type enrollRequest struct {
	ClientID string `json:"clientId" binding:"required"`
}

// Enroll godoc
// @Summary Enroll a client in a course
// @Tags Cours
// @Accept json
// @Produce json
// @Param id path string true "Cours ID"
// @Param payload body enrollRequest true "Client to enroll"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cours/{id}/inscription [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), c.Param("id"), req.ClientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// RecordView godoc
// @Summary Mark a theory course as viewed by a client
// @Tags Cours
// @Accept json
// @Produce json
// @Param id path string true "Cours ID"
// @Param payload body enrollRequest true "Viewing client"
// @Success 204
// @Router /cours/{id}/vue [post]
func (h *CourseHandler) RecordView(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.RecordView(c.Request.Context(), req.ClientID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// TheoryProgress godoc
// @Summary Theory progress for a client
// @Tags Cours
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /cours/progression/{clientId} [get]
func (h *CourseHandler) TheoryProgress(c *gin.Context) {
	progress, err := h.service.TheoryProgress(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}
