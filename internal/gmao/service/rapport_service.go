package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"gorm.io/gorm"
)

// RapportService rapports de travaux et validation
type RapportService struct {
	db              *gorm.DB
	rapportRepo     *repository.RapportRepository
	renovationRepo  *repository.RenovationRepository
	maintenanceRepo *repository.MaintenanceRepository
	prestataireRepo *repository.PrestataireRepository
	lifecycle       *LifecycleService
}

func NewRapportService(db *gorm.DB, rapportRepo *repository.RapportRepository, renovationRepo *repository.RenovationRepository, maintenanceRepo *repository.MaintenanceRepository, prestataireRepo *repository.PrestataireRepository, lifecycle *LifecycleService) *RapportService {
	return &RapportService{
		db:              db,
		rapportRepo:     rapportRepo,
		renovationRepo:  renovationRepo,
		maintenanceRepo: maintenanceRepo,
		prestataireRepo: prestataireRepo,
		lifecycle:       lifecycle,
	}
}

// CreateRapportRequest création de rapport
type CreateRapportRequest struct {
	DateCreation  *time.Time `json:"dateCreation"`
	Contenu       string     `json:"contenu"`
	RenovationID  *uint      `json:"renovation_id"`
	MaintenanceID *uint      `json:"maintenance_id"`
	PrestataireID *uint      `json:"prestataire_id"`
}

// UpdateRapportRequest mise à jour partielle
type UpdateRapportRequest struct {
	DateCreation *time.Time `json:"dateCreation"`
	Contenu      *string    `json:"contenu"`
}

// List liste les rapports
func (s *RapportService) List(ctx context.Context) ([]entity.Rapport, error) {
	return s.rapportRepo.FindAll(ctx)
}

// Get charge un rapport
func (s *RapportService) Get(ctx context.Context, id uint) (*entity.Rapport, error) {
	return s.rapportRepo.FindByID(ctx, id)
}

// Create crée un rapport: au moins une source, au plus un rapport
// par rénovation et par maintenance.
func (s *RapportService) Create(ctx context.Context, req *CreateRapportRequest) (*entity.Rapport, error) {
	if req.RenovationID == nil && req.MaintenanceID == nil && req.PrestataireID == nil {
		return nil, NewErreurValidation("un rapport doit référencer une rénovation, une maintenance ou un prestataire")
	}

	if req.RenovationID != nil {
		if _, err := s.renovationRepo.Get(ctx, *req.RenovationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("rénovation inconnue", map[string][]string{
					"renovation_id": {libelleIntrouvable("rénovation", *req.RenovationID)},
				})
			}
			return nil, err
		}
		existant, err := s.rapportRepo.FindByRenovation(ctx, *req.RenovationID)
		if err != nil {
			return nil, err
		}
		if existant != nil {
			return nil, &ErreurValidation{
				Message: "cette rénovation a déjà un rapport",
				Donnees: existant,
			}
		}
	}
	if req.MaintenanceID != nil {
		if _, err := s.maintenanceRepo.Get(ctx, *req.MaintenanceID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("maintenance inconnue", map[string][]string{
					"maintenance_id": {libelleIntrouvable("maintenance", *req.MaintenanceID)},
				})
			}
			return nil, err
		}
		existant, err := s.rapportRepo.FindByMaintenance(ctx, *req.MaintenanceID)
		if err != nil {
			return nil, err
		}
		if existant != nil {
			return nil, &ErreurValidation{
				Message: "cette maintenance a déjà un rapport",
				Donnees: existant,
			}
		}
	}
	if req.PrestataireID != nil {
		if _, err := s.prestataireRepo.FindByID(ctx, *req.PrestataireID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("prestataire inconnu", map[string][]string{
					"prestataire_id": {libelleIntrouvable("prestataire", *req.PrestataireID)},
				})
			}
			return nil, err
		}
	}

	dateCreation := time.Now()
	if req.DateCreation != nil {
		dateCreation = *req.DateCreation
	}

	r := &entity.Rapport{
		DateCreation:  dateCreation,
		Contenu:       req.Contenu,
		RenovationID:  req.RenovationID,
		MaintenanceID: req.MaintenanceID,
		PrestataireID: req.PrestataireID,
	}
	if err := s.rapportRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("création rapport: %w", err)
	}
	return s.rapportRepo.FindByID(ctx, r.ID)
}

// Update interdit une fois le rapport validé
func (s *RapportService) Update(ctx context.Context, id uint, req *UpdateRapportRequest) (*entity.Rapport, error) {
	r, err := s.rapportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Validation {
		return nil, NewErreurValidation("un rapport validé ne peut plus être modifié")
	}
	if req.DateCreation != nil {
		r.DateCreation = *req.DateCreation
	}
	if req.Contenu != nil {
		r.Contenu = *req.Contenu
	}
	if err := s.rapportRepo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("mise à jour rapport: %w", err)
	}
	return r, nil
}

// Validate verrou à sens unique: bascule le drapeau puis force
// l'intervention source en COMPLETED, dans la même transaction.
func (s *RapportService) Validate(ctx context.Context, id uint) (*entity.Rapport, error) {
	r, err := s.rapportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Validation {
		return nil, NewErreurValidation("ce rapport est déjà validé")
	}

	var interventionID *uint
	if r.RenovationID != nil {
		interventionID = r.RenovationID
	} else if r.MaintenanceID != nil {
		interventionID = r.MaintenanceID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Rapport{}).
			Where("id = ?", r.ID).
			Update("validation", true).Error; err != nil {
			return fmt.Errorf("validation rapport: %w", err)
		}
		if interventionID != nil {
			var itv entity.Intervention
			if err := tx.Where("id = ?", *interventionID).First(&itv).Error; err != nil {
				return fmt.Errorf("chargement intervention: %w", err)
			}
			if err := s.lifecycle.Terminer(tx, &itv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.rapportRepo.FindByID(ctx, id)
}

// Delete interdit une fois le rapport validé
func (s *RapportService) Delete(ctx context.Context, id uint) error {
	r, err := s.rapportRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r.Validation {
		return NewErreurValidation("un rapport validé ne peut plus être supprimé")
	}
	return s.rapportRepo.Delete(ctx, id)
}
