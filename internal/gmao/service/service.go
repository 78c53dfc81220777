package service

import (
	"fmt"

	"github.com/electromaint/gmao/internal/config"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErreurValidation erreur métier renvoyée en 422
type ErreurValidation struct {
	Message string
	Champs  map[string][]string
	Donnees interface{}
}

func (e *ErreurValidation) Error() string { return e.Message }

// NewErreurValidation erreur de validation simple
func NewErreurValidation(message string) *ErreurValidation {
	return &ErreurValidation{Message: message}
}

// NewErreurChamps erreur de validation par champ
func NewErreurChamps(message string, champs map[string][]string) *ErreurValidation {
	return &ErreurValidation{Message: message, Champs: champs}
}

// Services collection des services métier
type Services struct {
	Auth          *AuthService
	Machine       *MachineService
	Intervention  *InterventionService
	Diagnostic    *DiagnosticService
	Renovation    *RenovationService
	Maintenance   *MaintenanceService
	Controle      *ControleService
	Rapport       *RapportService
	Gestion       *GestionService
	Planification *PlanificationService
	Utilisateur   *UtilisateurService
	Role          *RoleService
	Prestataire   *PrestataireService
	Dashboard     *DashboardService
	Export        *ExportService
	Document      *DocumentService
}

// NewServices assemble les services
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			minioClient = nil
		}
	}

	lifecycle := NewLifecycleService()
	authSvc := NewAuthService(repos.Utilisateur, rdb)
	rapportSvc := NewRapportService(db, repos.Rapport, repos.Renovation, repos.Maintenance, repos.Prestataire, lifecycle)

	return &Services{
		Auth:          authSvc,
		Machine:       NewMachineService(repos.Machine),
		Intervention:  NewInterventionService(db, repos.Intervention, repos.Machine, repos.Utilisateur),
		Diagnostic:    NewDiagnosticService(db, repos.Diagnostic, repos.Intervention),
		Renovation:    NewRenovationService(db, repos.Renovation, repos.Intervention, repos.Machine, lifecycle),
		Maintenance:   NewMaintenanceService(db, repos.Maintenance, repos.Intervention, repos.Machine, lifecycle),
		Controle:      NewControleService(db, repos.Controle, repos.Intervention),
		Rapport:       rapportSvc,
		Gestion:       NewGestionService(db, repos.Gestion, repos.Rapport, repos.Utilisateur),
		Planification: NewPlanificationService(db, repos.Planification, repos.Intervention, repos.Utilisateur, lifecycle),
		Utilisateur:   NewUtilisateurService(db, repos.Utilisateur, repos.Role, authSvc),
		Role:          NewRoleService(db, repos.Role, authSvc),
		Prestataire:   NewPrestataireService(repos.Prestataire, repos.Rapport, repos.Utilisateur),
		Dashboard:     NewDashboardService(db, repos.Machine, repos.Intervention),
		Export:        NewExportService(repos.Machine, repos.Intervention),
		Document:      NewDocumentService(repos.Rapport, minioClient, cfg.MinIO.Bucket),
	}
}

func libelleIntrouvable(ressource string, id uint) string {
	return fmt.Sprintf("%s %d introuvable", ressource, id)
}
