package handler

import (
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleHandler routes des rôles et du registre de permissions
type RoleHandler struct {
	roleSvc *service.RoleService
	logger  *zap.Logger
}

func NewRoleHandler(roleSvc *service.RoleService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc, logger: logger}
}

// List GET /roles
func (h *RoleHandler) List(c *gin.Context) {
	items, err := h.roleSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	role, err := h.roleSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, role)
}

// Create POST /roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req service.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	role, err := h.roleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, role)
}

// Update PUT /roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	role, err := h.roleSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, role)
}

// Delete DELETE /roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.roleSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "rôle supprimé")
}

// Permissions GET /roles/:id/permissions
func (h *RoleHandler) Permissions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	role, err := h.roleSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, role.Permissions)
}

// ReplacePermissions PUT /roles/:id/permissions
func (h *RoleHandler) ReplacePermissions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PermissionIDs []uint `json:"permission_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	role, err := h.roleSvc.ReplacePermissions(c.Request.Context(), id, req.PermissionIDs)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, role)
}

// ListPermissions GET /permissions
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	items, err := h.roleSvc.ListPermissions(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// GetPermission GET /permissions/:id
func (h *RoleHandler) GetPermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.roleSvc.GetPermission(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, p)
}

// CreatePermission POST /permissions
func (h *RoleHandler) CreatePermission(c *gin.Context) {
	var req service.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	p, err := h.roleSvc.CreatePermission(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, p)
}

// UpdatePermission PUT /permissions/:id
func (h *RoleHandler) UpdatePermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	p, err := h.roleSvc.UpdatePermission(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, p)
}

// DeletePermission DELETE /permissions/:id
func (h *RoleHandler) DeletePermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.roleSvc.DeletePermission(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "permission supprimée")
}

// GenerateCRUD POST /permissions/generate-crud
func (h *RoleHandler) GenerateCRUD(c *gin.Context) {
	perms, err := h.roleSvc.GenerateCRUD(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, perms, "permissions CRUD générées")
}
