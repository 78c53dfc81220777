package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaintenanceHandler routes des maintenances (clé = intervention)
type MaintenanceHandler struct {
	maintenanceSvc *service.MaintenanceService
	logger         *zap.Logger
}

func NewMaintenanceHandler(maintenanceSvc *service.MaintenanceService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceSvc: maintenanceSvc, logger: logger}
}

// List GET /maintenances
func (h *MaintenanceHandler) List(c *gin.Context) {
	items, err := h.maintenanceSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /maintenances/:id
func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.maintenanceSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, m)
}

// Create POST /maintenances
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req service.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	m, err := h.maintenanceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, m)
}

// Update PUT /maintenances/:id
func (h *MaintenanceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	m, err := h.maintenanceSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, m)
}

// Delete DELETE /maintenances/:id
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.maintenanceSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "maintenance supprimée")
}
