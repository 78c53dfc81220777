package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/electromaint/gmao/internal/gmao/repository"
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers collection des handlers HTTP
type Handlers struct {
	Auth          *AuthHandler
	Machine       *MachineHandler
	Intervention  *InterventionHandler
	Diagnostic    *DiagnosticHandler
	Renovation    *RenovationHandler
	Maintenance   *MaintenanceHandler
	Controle      *ControleHandler
	Rapport       *RapportHandler
	Gestion       *GestionHandler
	Planification *PlanificationHandler
	Utilisateur   *UtilisateurHandler
	Role          *RoleHandler
	Prestataire   *PrestataireHandler
	Dashboard     *DashboardHandler
	Export        *ExportHandler
}

// NewHandlers assemble les handlers
func NewHandlers(svc *service.Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		Auth:          NewAuthHandler(svc.Auth, logger),
		Machine:       NewMachineHandler(svc.Machine, logger),
		Intervention:  NewInterventionHandler(svc.Intervention, logger),
		Diagnostic:    NewDiagnosticHandler(svc.Diagnostic, logger),
		Renovation:    NewRenovationHandler(svc.Renovation, logger),
		Maintenance:   NewMaintenanceHandler(svc.Maintenance, logger),
		Controle:      NewControleHandler(svc.Controle, logger),
		Rapport:       NewRapportHandler(svc.Rapport, svc.Document, logger),
		Gestion:       NewGestionHandler(svc.Gestion, logger),
		Planification: NewPlanificationHandler(svc.Planification, logger),
		Utilisateur:   NewUtilisateurHandler(svc.Utilisateur, logger),
		Role:          NewRoleHandler(svc.Role, logger),
		Prestataire:   NewPrestataireHandler(svc.Prestataire, logger),
		Dashboard:     NewDashboardHandler(svc.Dashboard, logger),
		Export:        NewExportHandler(svc.Export, logger),
	}
}

// SuccessResponse enveloppe de succès
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse enveloppe d'erreur
type ErrorResponse struct {
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Success 200 avec données
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data})
}

// SuccessMessage 200 avec données et message
func SuccessMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Message: message})
}

// Created 201 avec données
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{Data: data})
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: message})
}

// ValidationError 422 avec détail par champ
func ValidationError(c *gin.Context, message string, errs interface{}) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: message, Errors: errs})
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: message})
}

// InternalError 500; le détail part dans le journal, jamais au client
func InternalError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Error("unexpected error",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "erreur interne"})
}

// RespondError traduit la taxonomie d'erreurs des services en réponse HTTP
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	var ev *service.ErreurValidation
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "ressource introuvable")
	case errors.As(err, &ev):
		if ev.Donnees != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: ev.Message, Errors: gin.H{"existing": ev.Donnees}})
			return
		}
		ValidationError(c, ev.Message, ev.Champs)
	default:
		InternalError(c, logger, err)
	}
}

// BindError 422 pour un corps de requête mal formé
func BindError(c *gin.Context, err error) {
	ValidationError(c, "requête invalide", gin.H{"body": err.Error()})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		NotFound(c, "identifiant invalide")
		return 0, false
	}
	return uint(id), true
}
