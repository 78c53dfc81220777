package handler

import (
	"time"

	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MachineHandler routes du parc machines
type MachineHandler struct {
	machineSvc *service.MachineService
	logger     *zap.Logger
}

func NewMachineHandler(machineSvc *service.MachineService, logger *zap.Logger) *MachineHandler {
	return &MachineHandler{machineSvc: machineSvc, logger: logger}
}

// List GET /machines
func (h *MachineHandler) List(c *gin.Context) {
	filters := map[string]string{}
	if v := c.Query("etat"); v != "" {
		filters["etat"] = v
	}
	if v := c.Query("type"); v != "" {
		filters["type"] = v
	}
	if v := c.Query("search"); v != "" {
		filters["search"] = v
	}
	machines, err := h.machineSvc.List(c.Request.Context(), filters)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, machines)
}

// Get GET /machines/:id
func (h *MachineHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.machineSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, m)
}

// Create POST /machines
func (h *MachineHandler) Create(c *gin.Context) {
	var req service.CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	m, err := h.machineSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, m)
}

// Update PUT /machines/:id
func (h *MachineHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	m, err := h.machineSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, m)
}

// UpdateStatus PUT /machines/:id/update-status
func (h *MachineHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Etat string `json:"etat" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	m, err := h.machineSvc.UpdateStatus(c.Request.Context(), id, req.Etat)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, m)
}

// Delete DELETE /machines/:id
func (h *MachineHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.machineSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "machine supprimée")
}

// MaintenanceSoon GET /machines/maintenance/soon
func (h *MachineHandler) MaintenanceSoon(c *gin.Context) {
	machines, err := h.machineSvc.MaintenanceSoon(c.Request.Context(), 30*24*time.Hour)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, machines)
}
