package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GestionHandler routes du suivi administratif
type GestionHandler struct {
	gestionSvc *service.GestionService
	logger     *zap.Logger
}

func NewGestionHandler(gestionSvc *service.GestionService, logger *zap.Logger) *GestionHandler {
	return &GestionHandler{gestionSvc: gestionSvc, logger: logger}
}

// List GET /gestions
func (h *GestionHandler) List(c *gin.Context) {
	items, err := h.gestionSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /gestions/:id
func (h *GestionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.gestionSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, g)
}

// Create POST /gestions
func (h *GestionHandler) Create(c *gin.Context) {
	var req service.CreateGestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	g, err := h.gestionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, g)
}

// Update PUT /gestions/:id
func (h *GestionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateGestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	g, err := h.gestionSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, g)
}

// Validate PUT /gestions/:id/validate
func (h *GestionHandler) Validate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.gestionSvc.Validate(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, g, "gestion validée")
}

// ReplaceUsers PUT /gestions/:id/users
func (h *GestionHandler) ReplaceUsers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		UtilisateurIDs []uint `json:"utilisateur_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	g, err := h.gestionSvc.ReplaceUsers(c.Request.Context(), id, req.UtilisateurIDs)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, g)
}

// Delete DELETE /gestions/:id
func (h *GestionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.gestionSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "gestion supprimée")
}
