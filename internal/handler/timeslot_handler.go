package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// TimeSlotHandler handles time slot endpoints.
type TimeSlotHandler struct {
	service *service.TimeSlotService
	metrics *service.MetricsService
}

// NewTimeSlotHandler constructs a time slot handler.
func NewTimeSlotHandler(svc *service.TimeSlotService, metrics *service.MetricsService) *TimeSlotHandler {
	return &TimeSlotHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Create a time slot
// @Tags TimeSlots
// @Accept json
// @Produce json
// @Param payload body service.CreateTimeSlotRequest true "Time slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /time-slots [post]
func (h *TimeSlotHandler) Create(c *gin.Context) {
	var req service.CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// ListByInstructor godoc
// @Summary List an instructor's time slots
// @Tags TimeSlots
// @Produce json
// @Param moniteurId path string true "Moniteur ID"
// @Success 200 {object} response.Envelope
// @Router /time-slots/moniteur/{moniteurId} [get]
func (h *TimeSlotHandler) ListByInstructor(c *gin.Context) {
	slots, err := h.service.ListByInstructor(c.Request.Context(), c.Param("moniteurId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ListByRange godoc
// @Summary List an instructor's time slots inside a date range
// @Tags TimeSlots
// @Produce json
// @Param moniteurId path string true "Moniteur ID"
// @Param startDate query string true "Range start"
// @Param endDate query string true "Range end"
// @Success 200 {object} response.Envelope
// @Router /time-slots/moniteur/{moniteurId}/range [get]
func (h *TimeSlotHandler) ListByRange(c *gin.Context) {
	start, err := parseDateParam(c.Query("startDate"), "startDate")
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := parseDateParam(c.Query("endDate"), "endDate")
	if err != nil {
		response.Error(c, err)
		return
	}
	slots, err := h.service.ListByRange(c.Request.Context(), c.Param("moniteurId"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

type updateSlotStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update a time slot's status
// @Tags TimeSlots
// @Accept json
// @Produce json
// @Param id path string true "Time slot ID"
// @Param payload body updateSlotStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /time-slots/{id}/status [put]
func (h *TimeSlotHandler) UpdateStatus(c *gin.Context) {
	var req updateSlotStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete a time slot
// @Tags TimeSlots
// @Param id path string true "Time slot ID"
// @Success 204
// @Router /time-slots/{id} [delete]
func (h *TimeSlotHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Calendar godoc
// @Summary Daily calendar projection for an instructor
// @Tags TimeSlots
// @Produce json
// @Param moniteurId path string true "Moniteur ID"
// @Param date query string true "Calendar date"
// @Success 200 {object} response.Envelope
// @Router /time-slots/moniteur/{moniteurId}/calendar [get]
func (h *TimeSlotHandler) Calendar(c *gin.Context) {
	date, err := parseDateParam(c.Query("date"), "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, cached, err := h.service.Calendar(c.Request.Context(), c.Param("moniteurId"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCacheLookup(cached)
	source := "database"
	if cached {
		source = "cache"
	}
	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"source": source})
}
