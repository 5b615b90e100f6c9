package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// DiagnosticHandler handles diagnostic endpoints.
type DiagnosticHandler struct {
	service *service.DiagnosticService
}

// NewDiagnosticHandler constructs a diagnostic handler.
func NewDiagnosticHandler(svc *service.DiagnosticService) *DiagnosticHandler {
	return &DiagnosticHandler{service: svc}
}

// Generate godoc
// @Summary Generate a fresh diagnostic for a client
// @Tags Diagnostics
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 201 {object} response.Envelope
// @Router /diagnostics/client/{clientId} [post]
func (h *DiagnosticHandler) Generate(c *gin.Context) {
	diagnostic, err := h.service.Generate(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, diagnostic)
}

// History godoc
// @Summary List a client's diagnostics
// @Tags Diagnostics
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /diagnostics/client/{clientId} [get]
func (h *DiagnosticHandler) History(c *gin.Context) {
	diagnostics, err := h.service.History(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, diagnostics, nil)
}

// Latest godoc
// @Summary Get a client's latest diagnostic
// @Tags Diagnostics
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /diagnostics/client/{clientId}/dernier [get]
func (h *DiagnosticHandler) Latest(c *gin.Context) {
	diagnostic, err := h.service.Latest(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, diagnostic, nil)
}
