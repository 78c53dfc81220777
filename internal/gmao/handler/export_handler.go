package handler

import (
	"net/http"

	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler extractions Excel
type ExportHandler struct {
	exportSvc *service.ExportService
	logger    *zap.Logger
}

func NewExportHandler(exportSvc *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, logger: logger}
}

// Machines GET /machines/export
func (h *ExportHandler) Machines(c *gin.Context) {
	data, err := h.exportSvc.Machines(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+service.NomFichier("machines"))
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// Interventions GET /interventions/export
func (h *ExportHandler) Interventions(c *gin.Context) {
	data, err := h.exportSvc.Interventions(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+service.NomFichier("interventions"))
	c.Data(http.StatusOK, contentTypeXLSX, data)
}
