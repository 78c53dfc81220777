package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlanificationHandler routes des planifications
type PlanificationHandler struct {
	planificationSvc *service.PlanificationService
	logger           *zap.Logger
}

func NewPlanificationHandler(planificationSvc *service.PlanificationService, logger *zap.Logger) *PlanificationHandler {
	return &PlanificationHandler{planificationSvc: planificationSvc, logger: logger}
}

// List GET /planifications
func (h *PlanificationHandler) List(c *gin.Context) {
	items, err := h.planificationSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /planifications/:id
func (h *PlanificationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.planificationSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, p)
}

// ByUtilisateur GET /planifications/user/:userId
func (h *PlanificationHandler) ByUtilisateur(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	items, err := h.planificationSvc.ByUtilisateur(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Create POST /planifications
func (h *PlanificationHandler) Create(c *gin.Context) {
	var req service.CreatePlanificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	p, err := h.planificationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, p)
}

// Update PUT /planifications/:id
func (h *PlanificationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePlanificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	p, err := h.planificationSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, p)
}

// AddIntervention POST /planifications/:id/interventions/:interventionId
func (h *PlanificationHandler) AddIntervention(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	interventionID, ok := parseID(c, "interventionId")
	if !ok {
		return
	}
	p, err := h.planificationSvc.AddIntervention(c.Request.Context(), id, interventionID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, p, "intervention planifiée")
}

// RemoveIntervention DELETE /planifications/:id/interventions/:interventionId
func (h *PlanificationHandler) RemoveIntervention(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	interventionID, ok := parseID(c, "interventionId")
	if !ok {
		return
	}
	p, err := h.planificationSvc.RemoveIntervention(c.Request.Context(), id, interventionID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, p, "intervention retirée")
}

// Delete DELETE /planifications/:id
func (h *PlanificationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.planificationSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "planification supprimée")
}
