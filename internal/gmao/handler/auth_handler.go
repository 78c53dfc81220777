package handler

import (
	"errors"

	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/electromaint/gmao/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler connexion, déconnexion et introspection
type AuthHandler struct {
	authSvc *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(authSvc *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger}
}

// LoginRequest corps de POST /login
type LoginRequest struct {
	Nom      string `json:"nom" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CheckPermissionsRequest corps de POST /check-permissions
type CheckPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Nom, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrIdentifiants) {
			Unauthorized(c, "identifiants invalides")
			return
		}
		InternalError(c, h.logger, err)
		return
	}
	SuccessMessage(c, result, "connexion réussie")
}

// Logout POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		Unauthorized(c, "authentification requise")
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), u); err != nil {
		InternalError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "déconnecté")
}

// Me GET /user
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		Unauthorized(c, "authentification requise")
		return
	}
	Success(c, u)
}

// CheckPermissions POST /check-permissions
func (h *AuthHandler) CheckPermissions(c *gin.Context) {
	var req CheckPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	perms, _ := c.Get("permissions")
	m, _ := perms.(map[string]bool)
	Success(c, h.authSvc.CheckPermissions(m, req.Permissions))
}
