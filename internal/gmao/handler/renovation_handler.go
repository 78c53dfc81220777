package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RenovationHandler routes des rénovations (clé = intervention)
type RenovationHandler struct {
	renovationSvc *service.RenovationService
	logger        *zap.Logger
}

func NewRenovationHandler(renovationSvc *service.RenovationService, logger *zap.Logger) *RenovationHandler {
	return &RenovationHandler{renovationSvc: renovationSvc, logger: logger}
}

// List GET /renovations
func (h *RenovationHandler) List(c *gin.Context) {
	items, err := h.renovationSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /renovations/:id
func (h *RenovationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := h.renovationSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, r)
}

// Create POST /renovations
func (h *RenovationHandler) Create(c *gin.Context) {
	var req service.CreateRenovationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	r, err := h.renovationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, r)
}

// Update PUT /renovations/:id
func (h *RenovationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRenovationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	r, err := h.renovationSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, r)
}

// Complete PUT /renovations/:id/complete
func (h *RenovationHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.CompleteRenovationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	r, err := h.renovationSvc.Complete(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, r, "rénovation clôturée")
}

// Delete DELETE /renovations/:id
func (h *RenovationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.renovationSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "rénovation supprimée")
}
