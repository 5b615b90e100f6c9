package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// CommunicationHandler handles support thread endpoints.
type CommunicationHandler struct {
	service *service.CommunicationService
}

// NewCommunicationHandler constructs a communication handler.
func NewCommunicationHandler(svc *service.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{service: svc}
}

// OpenThread godoc
// @Summary Open a support thread
// @Tags Communications
// @Accept json
// @Produce json
// @Param payload body service.OpenThreadRequest true "Thread payload"
// @Success 201 {object} response.Envelope
// @Router /communications [post]
func (h *CommunicationHandler) OpenThread(c *gin.Context) {
	var req service.OpenThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	thread, err := h.service.OpenThread(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, thread)
}

// GetThread godoc
// @Summary Get a thread
// @Tags Communications
// @Produce json
// @Param id path string true "Communication ID"
// @Success 200 {object} response.Envelope
// @Router /communications/{id} [get]
func (h *CommunicationHandler) GetThread(c *gin.Context) {
	thread, err := h.service.GetThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, thread, nil)
}

// ThreadsByClient godoc
// @Summary List a client's threads
// @Tags Communications
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /communications/client/{clientId} [get]
func (h *CommunicationHandler) ThreadsByClient(c *gin.Context) {
	threads, err := h.service.ThreadsByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, threads, nil)
}

// OpenThreads godoc
// @Summary List threads still open
// @Tags Communications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /communications/ouvertes [get]
func (h *CommunicationHandler) OpenThreads(c *gin.Context) {
	threads, err := h.service.OpenThreads(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, threads, nil)
}

// CloseThread godoc
// @Summary Close a thread
// @Tags Communications
// @Produce json
// @Param id path string true "Communication ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /communications/{id}/fermer [put]
func (h *CommunicationHandler) CloseThread(c *gin.Context) {
	thread, err := h.service.CloseThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, thread, nil)
}

// PostMessage godoc
// @Summary Post a message in a thread
// @Tags Communications
// @Accept json
// @Produce json
// @Param id path string true "Communication ID"
// @Param payload body service.PostMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /communications/{id}/messages [post]
func (h *CommunicationHandler) PostMessage(c *gin.Context) {
	var req service.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	msg, err := h.service.PostMessage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Messages godoc
// @Summary List a thread's messages
// @Tags Communications
// @Produce json
// @Param id path string true "Communication ID"
// @Success 200 {object} response.Envelope
// @Router /communications/{id}/messages [get]
func (h *CommunicationHandler) Messages(c *gin.Context) {
	messages, err := h.service.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// UnreadFromClients godoc
// @Summary List unread client messages
// @Tags Communications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /messages/non-lus [get]
func (h *CommunicationHandler) UnreadFromClients(c *gin.Context) {
	messages, err := h.service.UnreadFromClients(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// MarkMessageRead godoc
// @Summary Mark a message as read
// @Tags Communications
// @Param id path string true "Message ID"
// @Success 204
// @Router /messages/{id}/lu [put]
func (h *CommunicationHandler) MarkMessageRead(c *gin.Context) {
	if err := h.service.MarkMessageRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkThreadRead godoc
// @Summary Mark every message of a thread as read
// @Tags Communications
// @Param id path string true "Communication ID"
// @Success 204
// @Router /communications/{id}/lu [put]
func (h *CommunicationHandler) MarkThreadRead(c *gin.Context) {
	if err := h.service.MarkThreadRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
