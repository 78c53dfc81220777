package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"gorm.io/gorm"
)

// MaintenanceService détails de maintenance
type MaintenanceService struct {
	db               *gorm.DB
	maintenanceRepo  *repository.MaintenanceRepository
	interventionRepo *repository.InterventionRepository
	machineRepo      *repository.MachineRepository
	lifecycle        *LifecycleService
}

func NewMaintenanceService(db *gorm.DB, maintenanceRepo *repository.MaintenanceRepository, interventionRepo *repository.InterventionRepository, machineRepo *repository.MachineRepository, lifecycle *LifecycleService) *MaintenanceService {
	return &MaintenanceService{
		db:               db,
		maintenanceRepo:  maintenanceRepo,
		interventionRepo: interventionRepo,
		machineRepo:      machineRepo,
		lifecycle:        lifecycle,
	}
}

// CreateMaintenanceRequest création de maintenance
type CreateMaintenanceRequest struct {
	InterventionID  uint     `json:"intervention_id" binding:"required"`
	TypeMaintenance string   `json:"typeMaintenance"`
	Duree           int      `json:"duree"`
	Pieces          []string `json:"pieces"`
}

// UpdateMaintenanceRequest mise à jour partielle
type UpdateMaintenanceRequest struct {
	TypeMaintenance *string  `json:"typeMaintenance"`
	Duree           *int     `json:"duree"`
	Pieces          []string `json:"pieces"`
}

// List liste les maintenances
func (s *MaintenanceService) List(ctx context.Context) ([]entity.Maintenance, error) {
	return s.maintenanceRepo.FindAll(ctx)
}

// Get charge une maintenance par clé d'intervention
func (s *MaintenanceService) Get(ctx context.Context, interventionID uint) (*entity.Maintenance, error) {
	return s.maintenanceRepo.Get(ctx, interventionID)
}

// Create crée la maintenance et démarre les travaux.
// Préconditions symétriques à la rénovation: type Maintenance, une seule par intervention.
func (s *MaintenanceService) Create(ctx context.Context, req *CreateMaintenanceRequest) (*entity.Maintenance, error) {
	itv, err := s.interventionRepo.FindByID(ctx, req.InterventionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErreurChamps("intervention inconnue", map[string][]string{
				"intervention_id": {libelleIntrouvable("intervention", req.InterventionID)},
			})
		}
		return nil, err
	}
	if itv.TypeOperation != entity.TypeOperationMaintenance {
		return nil, NewErreurChamps("type d'opération incompatible", map[string][]string{
			"intervention_id": {fmt.Sprintf("l'intervention doit être de type %s", entity.TypeOperationMaintenance)},
		})
	}

	existante, err := s.maintenanceRepo.FindByIntervention(ctx, req.InterventionID)
	if err != nil {
		return nil, err
	}
	if existante != nil {
		return nil, &ErreurValidation{
			Message: "cette intervention a déjà une maintenance",
			Donnees: existante,
		}
	}

	m := &entity.Maintenance{
		InterventionID:  req.InterventionID,
		TypeMaintenance: req.TypeMaintenance,
		Duree:           req.Duree,
	}
	for _, p := range req.Pieces {
		m.Pieces = append(m.Pieces, entity.Piece{Nom: p})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("création maintenance: %w", err)
		}
		return s.lifecycle.AppliquerSiStatut(tx, itv, entity.StatutPending, entity.EvenementDemarrerTravaux)
	})
	if err != nil {
		return nil, err
	}
	return s.maintenanceRepo.Get(ctx, req.InterventionID)
}

// Update mise à jour partielle; la liste de pièces fournie remplace l'existante
func (s *MaintenanceService) Update(ctx context.Context, interventionID uint, req *UpdateMaintenanceRequest) (*entity.Maintenance, error) {
	m, err := s.maintenanceRepo.Get(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if req.TypeMaintenance != nil {
		m.TypeMaintenance = *req.TypeMaintenance
	}
	if req.Duree != nil {
		m.Duree = *req.Duree
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Pieces", "Intervention").Save(m).Error; err != nil {
			return fmt.Errorf("mise à jour maintenance: %w", err)
		}
		if req.Pieces != nil {
			if err := tx.Where("maintenance_id = ?", m.InterventionID).Delete(&entity.Piece{}).Error; err != nil {
				return err
			}
			for _, p := range req.Pieces {
				if err := tx.Create(&entity.Piece{MaintenanceID: m.InterventionID, Nom: p}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.maintenanceRepo.Get(ctx, interventionID)
}

// Delete supprime une maintenance et ses pièces
func (s *MaintenanceService) Delete(ctx context.Context, interventionID uint) error {
	if _, err := s.maintenanceRepo.Get(ctx, interventionID); err != nil {
		return err
	}
	return s.maintenanceRepo.Delete(ctx, interventionID)
}
