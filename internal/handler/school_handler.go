package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// SchoolHandler handles auto-école endpoints.
type SchoolHandler struct {
	service *service.SchoolService
}

// NewSchoolHandler constructs a school handler.
func NewSchoolHandler(svc *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: svc}
}

// List godoc
// @Summary List auto-écoles
// @Tags AutoEcoles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auto-ecoles [get]
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schools, nil)
}

// Get godoc
// @Summary Get an auto-école
// @Tags AutoEcoles
// @Produce json
// @Param id path string true "Auto-école ID"
// @Success 200 {object} response.Envelope
// @Router /auto-ecoles/{id} [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	school, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Statistics godoc
// @Summary Client and instructor headcounts of an auto-école
// @Tags AutoEcoles
// @Produce json
// @Param id path string true "Auto-école ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auto-ecoles/{id}/statistiques [get]
func (h *SchoolHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Create godoc
// @Summary Register an auto-école
// @Tags AutoEcoles
// @Accept json
// @Produce json
// @Param payload body service.SchoolRequest true "Auto-école payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auto-ecoles [post]
func (h *SchoolHandler) Create(c *gin.Context) {
	var req service.SchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	school, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, school)
}

// Update godoc
// @Summary Update an auto-école
// @Tags AutoEcoles
// @Accept json
// @Produce json
// @Param id path string true "Auto-école ID"
// @Param payload body service.SchoolRequest true "Auto-école payload"
// @Success 200 {object} response.Envelope
// @Router /auto-ecoles/{id} [put]
func (h *SchoolHandler) Update(c *gin.Context) {
	var req service.SchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	school, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Delete godoc
// @Summary Delete an auto-école
// @Tags AutoEcoles
// @Param id path string true "Auto-école ID"
// @Success 204
// @Router /auto-ecoles/{id} [delete]
func (h *SchoolHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
