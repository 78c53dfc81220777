package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InterventionHandler routes des interventions
type InterventionHandler struct {
	interventionSvc *service.InterventionService
	logger          *zap.Logger
}

func NewInterventionHandler(interventionSvc *service.InterventionService, logger *zap.Logger) *InterventionHandler {
	return &InterventionHandler{interventionSvc: interventionSvc, logger: logger}
}

// List GET /interventions
func (h *InterventionHandler) List(c *gin.Context) {
	filters := map[string]string{}
	if v := c.Query("statut"); v != "" {
		filters["statut"] = v
	}
	if v := c.Query("typeOperation"); v != "" {
		filters["typeOperation"] = v
	}
	if v := c.Query("urgence"); v != "" {
		filters["urgence"] = v
	}
	items, err := h.interventionSvc.List(c.Request.Context(), filters)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /interventions/:id
func (h *InterventionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itv, err := h.interventionSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, itv)
}

// ByMachine GET /interventions/machine/:machineId
func (h *InterventionHandler) ByMachine(c *gin.Context) {
	machineID, ok := parseID(c, "machineId")
	if !ok {
		return
	}
	items, err := h.interventionSvc.ByMachine(c.Request.Context(), machineID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// ByStatut GET /interventions/status/:status
func (h *InterventionHandler) ByStatut(c *gin.Context) {
	items, err := h.interventionSvc.ByStatut(c.Request.Context(), c.Param("status"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Urgent GET /interventions/urgent
func (h *InterventionHandler) Urgent(c *gin.Context) {
	items, err := h.interventionSvc.Urgent(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Create POST /interventions
func (h *InterventionHandler) Create(c *gin.Context) {
	var req service.CreateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	itv, err := h.interventionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, itv)
}

// Update PUT /interventions/:id
func (h *InterventionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	itv, err := h.interventionSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, itv)
}

// Delete DELETE /interventions/:id
func (h *InterventionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.interventionSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "intervention supprimée")
}
