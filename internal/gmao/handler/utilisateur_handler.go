package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UtilisateurHandler routes des comptes et des sections
type UtilisateurHandler struct {
	utilisateurSvc *service.UtilisateurService
	logger         *zap.Logger
}

func NewUtilisateurHandler(utilisateurSvc *service.UtilisateurService, logger *zap.Logger) *UtilisateurHandler {
	return &UtilisateurHandler{utilisateurSvc: utilisateurSvc, logger: logger}
}

// List GET /utilisateurs
func (h *UtilisateurHandler) List(c *gin.Context) {
	items, err := h.utilisateurSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /utilisateurs/:id
func (h *UtilisateurHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.utilisateurSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, u)
}

// Create POST /utilisateurs
func (h *UtilisateurHandler) Create(c *gin.Context) {
	var req service.CreateUtilisateurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	u, err := h.utilisateurSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, u)
}

// Update PUT /utilisateurs/:id
func (h *UtilisateurHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUtilisateurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	u, err := h.utilisateurSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, u)
}

// Delete DELETE /utilisateurs/:id
func (h *UtilisateurHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.utilisateurSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "utilisateur supprimé")
}

// Permissions GET /utilisateurs/:id/permissions
func (h *UtilisateurHandler) Permissions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cles, err := h.utilisateurSvc.Permissions(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, cles)
}

// Roles GET /utilisateurs/:id/roles
func (h *UtilisateurHandler) Roles(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	roles, err := h.utilisateurSvc.Roles(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, roles)
}

// ReplaceRoles PUT /utilisateurs/:id/roles
func (h *UtilisateurHandler) ReplaceRoles(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		RoleIDs []uint `json:"role_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	u, err := h.utilisateurSvc.ReplaceRoles(c.Request.Context(), id, req.RoleIDs)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, u)
}

// ListSections GET /sections
func (h *UtilisateurHandler) ListSections(c *gin.Context) {
	items, err := h.utilisateurSvc.ListSections(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// GetSection GET /sections/:id
func (h *UtilisateurHandler) GetSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, err := h.utilisateurSvc.GetSection(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, s)
}

// CreateSection POST /sections
func (h *UtilisateurHandler) CreateSection(c *gin.Context) {
	var req service.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	s, err := h.utilisateurSvc.CreateSection(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, s)
}

// UpdateSection PUT /sections/:id
func (h *UtilisateurHandler) UpdateSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	s, err := h.utilisateurSvc.UpdateSection(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, s)
}

// DeleteSection DELETE /sections/:id
func (h *UtilisateurHandler) DeleteSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.utilisateurSvc.DeleteSection(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "section supprimée")
}
