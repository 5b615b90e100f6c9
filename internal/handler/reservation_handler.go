package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// ReservationHandler handles reservation endpoints.
type ReservationHandler struct {
	service *service.ReservationService
	metrics *service.MetricsService
}

// NewReservationHandler constructs a reservation handler.
func NewReservationHandler(svc *service.ReservationService, metrics *service.MetricsService) *ReservationHandler {
	return &ReservationHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Book a time slot
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reservation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrSlotTaken.Code {
			h.metrics.RecordBookingConflict()
		}
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// Get godoc
// @Summary Fetch a reservation
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	reservation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Accept godoc
// @Summary Accept a pending reservation
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations/{id}/accept [put]
func (h *ReservationHandler) Accept(c *gin.Context) {
	reservation, err := h.service.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Cancel godoc
// @Summary Cancel a reservation
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations/{id}/cancel [put]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	reservation, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

type updateReservationStatusRequest struct {
	Statut string `json:"statut" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update a reservation's status
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body updateReservationStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations/{id}/status [put]
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	var req updateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reservation, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Statut)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// ByClient godoc
// @Summary List a client's reservations
// @Tags Reservations
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /reservations/client/{clientId} [get]
func (h *ReservationHandler) ByClient(c *gin.Context) {
	reservations, err := h.service.ByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// ByInstructor godoc
// @Summary List an instructor's reservations
// @Tags Reservations
// @Produce json
// @Param moniteurId path string true "Moniteur ID"
// @Success 200 {object} response.Envelope
// @Router /reservations/moniteur/{moniteurId} [get]
func (h *ReservationHandler) ByInstructor(c *gin.Context) {
	reservations, err := h.service.ByInstructor(c.Request.Context(), c.Param("moniteurId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// Upcoming godoc
// @Summary List upcoming reservations
// @Tags Reservations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reservations/upcoming [get]
func (h *ReservationHandler) Upcoming(c *gin.Context) {
	reservations, err := h.service.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// Search godoc
// @Summary List reservations inside a date range
// @Tags Reservations
// @Produce json
// @Param startDate query string true "Range start"
// @Param endDate query string true "Range end"
// @Success 200 {object} response.Envelope
// @Router /reservations/search [get]
func (h *ReservationHandler) Search(c *gin.Context) {
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
	reservations, err := h.service.ByDateRange(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// AvailableSlots godoc
// @Summary List an instructor's bookable slots for a day
// @Tags Reservations
// @Produce json
// @Param moniteurId path string true "Moniteur ID"
// @Param date query string true "Day to inspect"
// @Success 200 {object} response.Envelope
// @Router /reservations/available-slots/{moniteurId} [get]
func (h *ReservationHandler) AvailableSlots(c *gin.Context) {
	date, err := parseDateParam(c.Query("date"), "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	slots, err := h.service.AvailableSlots(c.Request.Context(), c.Param("moniteurId"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
