package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// InstructorHandler handles moniteur endpoints.
type InstructorHandler struct {
	service *service.InstructorService
}

// NewInstructorHandler constructs an instructor handler.
func NewInstructorHandler(svc *service.InstructorService) *InstructorHandler {
	return &InstructorHandler{service: svc}
}

// List godoc
// @Summary List moniteurs
// @Tags Moniteurs
// @Produce json
// @Param autoEcoleId query string false "Filter by auto-école"
// @Success 200 {object} response.Envelope
// @Router /moniteurs [get]
func (h *InstructorHandler) List(c *gin.Context) {
	instructors, err := h.service.List(c.Request.Context(), c.Query("autoEcoleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// Get godoc
// @Summary Get a moniteur
// @Tags Moniteurs
// @Produce json
// @Param id path string true "Moniteur ID"
// @Success 200 {object} response.Envelope
// @Router /moniteurs/{id} [get]
func (h *InstructorHandler) Get(c *gin.Context) {
	instructor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Create godoc
// @Summary Register a moniteur
// @Tags Moniteurs
// @Accept json
// @Produce json
// @Param payload body service.InstructorRequest true "Moniteur payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /moniteurs [post]
func (h *InstructorHandler) Create(c *gin.Context) {
	var req service.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	instructor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// Update godoc
// @Summary Update a moniteur
// @Tags Moniteurs
// @Accept json
// @Produce json
// @Param id path string true "Moniteur ID"
// @Param payload body service.InstructorRequest true "Moniteur payload"
// @Success 200 {object} response.Envelope
// @Router /moniteurs/{id} [put]
func (h *InstructorHandler) Update(c *gin.Context) {
	var req service.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	instructor, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

type availabilityRequest struct {
	Disponible *bool `json:"disponible" binding:"required"`
}

// SetAvailability godoc
// @Summary Toggle a moniteur's availability
// @Tags Moniteurs
// @Accept json
// @Produce json
// @Param id path string true "Moniteur ID"
// @Param payload body availabilityRequest true "Availability flag"
// @Success 200 {object} response.Envelope
// @Router /moniteurs/{id}/availability [put]
func (h *InstructorHandler) SetAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	instructor, err := h.service.SetAvailability(c.Request.Context(), c.Param("id"), *req.Disponible)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Delete godoc
// @Summary Delete a moniteur
// @Tags Moniteurs
// @Param id path string true "Moniteur ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /moniteurs/{id} [delete]
func (h *InstructorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
