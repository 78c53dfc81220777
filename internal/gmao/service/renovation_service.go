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

// RenovationService détails de rénovation et clôture machine
type RenovationService struct {
	db               *gorm.DB
	renovationRepo   *repository.RenovationRepository
	interventionRepo *repository.InterventionRepository
	machineRepo      *repository.MachineRepository
	lifecycle        *LifecycleService
}

func NewRenovationService(db *gorm.DB, renovationRepo *repository.RenovationRepository, interventionRepo *repository.InterventionRepository, machineRepo *repository.MachineRepository, lifecycle *LifecycleService) *RenovationService {
	return &RenovationService{
		db:               db,
		renovationRepo:   renovationRepo,
		interventionRepo: interventionRepo,
		machineRepo:      machineRepo,
		lifecycle:        lifecycle,
	}
}

// CreateRenovationRequest création de rénovation
type CreateRenovationRequest struct {
	InterventionID   uint    `json:"intervention_id" binding:"required"`
	DisponibilitePDR bool    `json:"disponibilitePDR"`
	Objectif         string  `json:"objectif"`
	Cout             float64 `json:"cout"`
	DureeEstimee     int     `json:"dureeEstimee"`
}

// UpdateRenovationRequest mise à jour partielle
type UpdateRenovationRequest struct {
	DisponibilitePDR *bool    `json:"disponibilitePDR"`
	Objectif         *string  `json:"objectif"`
	Cout             *float64 `json:"cout"`
	DureeEstimee     *int     `json:"dureeEstimee"`
}

// CompleteRenovationRequest clôture d'une rénovation
type CompleteRenovationRequest struct {
	Etat               string     `json:"etat" binding:"required"`
	Valeur             *float64   `json:"valeur"`
	DateProchaineMaint *time.Time `json:"dateProchaineMaint"`
}

// List liste les rénovations
func (s *RenovationService) List(ctx context.Context) ([]entity.Renovation, error) {
	return s.renovationRepo.FindAll(ctx)
}

// Get charge une rénovation par clé d'intervention
func (s *RenovationService) Get(ctx context.Context, interventionID uint) (*entity.Renovation, error) {
	return s.renovationRepo.Get(ctx, interventionID)
}

// Create crée la rénovation et démarre les travaux.
// Préconditions: intervention de type Rénovation, pas de rénovation existante.
func (s *RenovationService) Create(ctx context.Context, req *CreateRenovationRequest) (*entity.Renovation, error) {
	itv, err := s.interventionRepo.FindByID(ctx, req.InterventionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErreurChamps("intervention inconnue", map[string][]string{
				"intervention_id": {libelleIntrouvable("intervention", req.InterventionID)},
			})
		}
		return nil, err
	}
	if itv.TypeOperation != entity.TypeOperationRenovation {
		return nil, NewErreurChamps("type d'opération incompatible", map[string][]string{
			"intervention_id": {fmt.Sprintf("l'intervention doit être de type %s", entity.TypeOperationRenovation)},
		})
	}

	existante, err := s.renovationRepo.FindByIntervention(ctx, req.InterventionID)
	if err != nil {
		return nil, err
	}
	if existante != nil {
		return nil, &ErreurValidation{
			Message: "cette intervention a déjà une rénovation",
			Donnees: existante,
		}
	}

	r := &entity.Renovation{
		InterventionID:   req.InterventionID,
		DisponibilitePDR: req.DisponibilitePDR,
		Objectif:         req.Objectif,
		Cout:             req.Cout,
		DureeEstimee:     req.DureeEstimee,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return fmt.Errorf("création rénovation: %w", err)
		}
		return s.lifecycle.AppliquerSiStatut(tx, itv, entity.StatutPending, entity.EvenementDemarrerTravaux)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Update mise à jour partielle
func (s *RenovationService) Update(ctx context.Context, interventionID uint, req *UpdateRenovationRequest) (*entity.Renovation, error) {
	r, err := s.renovationRepo.Get(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if req.DisponibilitePDR != nil {
		r.DisponibilitePDR = *req.DisponibilitePDR
	}
	if req.Objectif != nil {
		r.Objectif = *req.Objectif
	}
	if req.Cout != nil {
		r.Cout = *req.Cout
	}
	if req.DureeEstimee != nil {
		r.DureeEstimee = *req.DureeEstimee
	}
	if err := s.renovationRepo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("mise à jour rénovation: %w", err)
	}
	return r, nil
}

// Complete clôt la rénovation: intervention en COMPLETED et machine mise à jour, atomiquement
func (s *RenovationService) Complete(ctx context.Context, interventionID uint, req *CompleteRenovationRequest) (*entity.Renovation, error) {
	r, err := s.renovationRepo.Get(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	itv, err := s.interventionRepo.FindByID(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if !entity.EtatMachineValide(req.Etat) {
		return nil, NewErreurChamps("état machine invalide", map[string][]string{
			"etat": {fmt.Sprintf("l'état doit être parmi %v", entity.EtatsMachine)},
		})
	}
	machine, err := s.machineRepo.FindByID(ctx, itv.MachineID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lifecycle.Terminer(tx, itv); err != nil {
			return err
		}
		machine.Etat = req.Etat
		if req.Valeur != nil {
			machine.Valeur = *req.Valeur
		}
		if req.DateProchaineMaint != nil {
			machine.DateProchaineMaint = req.DateProchaineMaint
		}
		if err := tx.Omit("Interventions").Save(machine).Error; err != nil {
			return fmt.Errorf("mise à jour machine: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Delete supprime une rénovation
func (s *RenovationService) Delete(ctx context.Context, interventionID uint) error {
	if _, err := s.renovationRepo.Get(ctx, interventionID); err != nil {
		return err
	}
	return s.renovationRepo.Delete(ctx, interventionID)
}
