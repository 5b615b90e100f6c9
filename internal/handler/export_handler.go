package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/service"
	"github.com/autoecole-app/autoecole-api/pkg/response"
)

// ExportHandler handles schedule export endpoints.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Schedule godoc
// @Summary Export an instructor's schedule
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param moniteurId path string true "Moniteur ID"
// @Param startDate query string true "Range start"
// @Param endDate query string true "Range end"
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /export/planning/{moniteurId} [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
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
	file, err := h.service.Schedule(c.Request.Context(), c.Param("moniteurId"), start, end, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Content)
}
