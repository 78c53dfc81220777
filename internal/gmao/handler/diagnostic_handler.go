package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DiagnosticHandler routes des diagnostics
type DiagnosticHandler struct {
	diagnosticSvc *service.DiagnosticService
	logger        *zap.Logger
}

func NewDiagnosticHandler(diagnosticSvc *service.DiagnosticService, logger *zap.Logger) *DiagnosticHandler {
	return &DiagnosticHandler{diagnosticSvc: diagnosticSvc, logger: logger}
}

// List GET /diagnostics
func (h *DiagnosticHandler) List(c *gin.Context) {
	items, err := h.diagnosticSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /diagnostics/:id
func (h *DiagnosticHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	d, err := h.diagnosticSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, d)
}

// ByIntervention GET /diagnostics/intervention/:interventionId
func (h *DiagnosticHandler) ByIntervention(c *gin.Context) {
	interventionID, ok := parseID(c, "interventionId")
	if !ok {
		return
	}
	d, err := h.diagnosticSvc.ByIntervention(c.Request.Context(), interventionID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, d)
}

// Create POST /diagnostics
func (h *DiagnosticHandler) Create(c *gin.Context) {
	var req service.CreateDiagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	d, err := h.diagnosticSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, d)
}

// Update PUT /diagnostics/:id
func (h *DiagnosticHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateDiagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	d, err := h.diagnosticSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, d)
}

// Delete DELETE /diagnostics/:id
func (h *DiagnosticHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.diagnosticSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "diagnostic supprimé")
}
