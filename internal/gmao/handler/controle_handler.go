package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ControleHandler routes des contrôles qualité
type ControleHandler struct {
	controleSvc *service.ControleService
	logger      *zap.Logger
}

func NewControleHandler(controleSvc *service.ControleService, logger *zap.Logger) *ControleHandler {
	return &ControleHandler{controleSvc: controleSvc, logger: logger}
}

// List GET /controles
func (h *ControleHandler) List(c *gin.Context) {
	items, err := h.controleSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /controles/:id
func (h *ControleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctl, err := h.controleSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, ctl)
}

// Create POST /controles
func (h *ControleHandler) Create(c *gin.Context) {
	var req service.CreateControleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	ctl, err := h.controleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, ctl)
}

// Update PUT /controles/:id
func (h *ControleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateControleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	ctl, err := h.controleSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, ctl)
}

// Delete DELETE /controles/:id
func (h *ControleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.controleSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "contrôle supprimé")
}
