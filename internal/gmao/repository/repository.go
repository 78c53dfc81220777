package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories ensemble des dépôts GMAO
type Repositories struct {
	Machine       *MachineRepository
	Intervention  *InterventionRepository
	Diagnostic    *DiagnosticRepository
	Renovation    *RenovationRepository
	Maintenance   *MaintenanceRepository
	Controle      *ControleRepository
	Rapport       *RapportRepository
	Gestion       *GestionRepository
	Planification *PlanificationRepository
	Utilisateur   *UtilisateurRepository
	Role          *RoleRepository
	Prestataire   *PrestataireRepository
}

// NewRepositories crée l'ensemble des dépôts
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Machine:       NewMachineRepository(db),
		Intervention:  NewInterventionRepository(db),
		Diagnostic:    NewDiagnosticRepository(db),
		Renovation:    NewRenovationRepository(db),
		Maintenance:   NewMaintenanceRepository(db),
		Controle:      NewControleRepository(db),
		Rapport:       NewRapportRepository(db),
		Gestion:       NewGestionRepository(db),
		Planification: NewPlanificationRepository(db),
		Utilisateur:   NewUtilisateurRepository(db),
		Role:          NewRoleRepository(db),
		Prestataire:   NewPrestataireRepository(db),
	}
}
