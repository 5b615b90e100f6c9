package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// ClientHandler handles client endpoints.
type ClientHandler struct {
	service *service.ClientService
}

// NewClientHandler constructs a client handler.
func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{service: svc}
}

// List godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param autoEcoleId query string false "Filter by auto-école"
// @Success 200 {object} response.Envelope
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.service.List(c.Request.Context(), c.Query("autoEcoleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clients, nil)
}

// Get godoc
// @Summary Get a client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Create godoc
// @Summary Register a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param payload body service.ClientRequest true "Client payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	client, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, client)
}

// Update godoc
// @Summary Update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param payload body service.ClientRequest true "Client payload"
// @Success 200 {object} response.Envelope
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	client, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Delete godoc
// @Summary Delete a client
// @Tags Clients
// @Param id path string true "Client ID"
// @Success 204
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
