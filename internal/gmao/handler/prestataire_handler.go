package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PrestataireHandler routes des prestataires externes
type PrestataireHandler struct {
	prestataireSvc *service.PrestataireService
	logger         *zap.Logger
}

func NewPrestataireHandler(prestataireSvc *service.PrestataireService, logger *zap.Logger) *PrestataireHandler {
	return &PrestataireHandler{prestataireSvc: prestataireSvc, logger: logger}
}

// List GET /prestataires
func (h *PrestataireHandler) List(c *gin.Context) {
	items, err := h.prestataireSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /prestataires/:id
func (h *PrestataireHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.prestataireSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, p)
}

// Rapports GET /prestataires/:id/rapports
func (h *PrestataireHandler) Rapports(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rapports, err := h.prestataireSvc.Rapports(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, rapports)
}

// Create POST /prestataires
func (h *PrestataireHandler) Create(c *gin.Context) {
	var req service.CreatePrestataireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	p, err := h.prestataireSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, p)
}

// Update PUT /prestataires/:id
func (h *PrestataireHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePrestataireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	p, err := h.prestataireSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, p)
}

// Delete DELETE /prestataires/:id
func (h *PrestataireHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.prestataireSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "prestataire supprimé")
}
