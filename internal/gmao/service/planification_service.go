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

// PlanificationService lots de planification et appartenance des interventions
type PlanificationService struct {
	db                *gorm.DB
	planificationRepo *repository.PlanificationRepository
	interventionRepo  *repository.InterventionRepository
	utilisateurRepo   *repository.UtilisateurRepository
	lifecycle         *LifecycleService
}

func NewPlanificationService(db *gorm.DB, planificationRepo *repository.PlanificationRepository, interventionRepo *repository.InterventionRepository, utilisateurRepo *repository.UtilisateurRepository, lifecycle *LifecycleService) *PlanificationService {
	return &PlanificationService{
		db:                db,
		planificationRepo: planificationRepo,
		interventionRepo:  interventionRepo,
		utilisateurRepo:   utilisateurRepo,
		lifecycle:         lifecycle,
	}
}

// CreatePlanificationRequest création de planification
type CreatePlanificationRequest struct {
	DateCreation      *time.Time `json:"dateCreation"`
	CapaciteExecution int        `json:"capaciteExecution"`
	UrgencePrise      bool       `json:"urgencePrise"`
	DisponibilitePDR  bool       `json:"disponibilitePDR"`
	UtilisateurID     uint       `json:"utilisateur_id" binding:"required"`
	InterventionIDs   []uint     `json:"intervention_ids"`
}

// UpdatePlanificationRequest mise à jour partielle
type UpdatePlanificationRequest struct {
	DateCreation      *time.Time `json:"dateCreation"`
	CapaciteExecution *int       `json:"capaciteExecution"`
	UrgencePrise      *bool      `json:"urgencePrise"`
	DisponibilitePDR  *bool      `json:"disponibilitePDR"`
	UtilisateurID     *uint      `json:"utilisateur_id"`
}

// List liste les planifications
func (s *PlanificationService) List(ctx context.Context) ([]entity.Planification, error) {
	return s.planificationRepo.FindAll(ctx)
}

// Get charge une planification
func (s *PlanificationService) Get(ctx context.Context, id uint) (*entity.Planification, error) {
	return s.planificationRepo.FindByID(ctx, id)
}

// ByUtilisateur planifications d'un responsable
func (s *PlanificationService) ByUtilisateur(ctx context.Context, utilisateurID uint) ([]entity.Planification, error) {
	if _, err := s.utilisateurRepo.FindByID(ctx, utilisateurID); err != nil {
		return nil, err
	}
	return s.planificationRepo.FindByUtilisateur(ctx, utilisateurID)
}

// Create crée la planification et y range les interventions fournies
func (s *PlanificationService) Create(ctx context.Context, req *CreatePlanificationRequest) (*entity.Planification, error) {
	if _, err := s.utilisateurRepo.FindByID(ctx, req.UtilisateurID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErreurChamps("utilisateur inconnu", map[string][]string{
				"utilisateur_id": {libelleIntrouvable("utilisateur", req.UtilisateurID)},
			})
		}
		return nil, err
	}

	dateCreation := time.Now()
	if req.DateCreation != nil {
		dateCreation = *req.DateCreation
	}

	p := &entity.Planification{
		DateCreation:      dateCreation,
		CapaciteExecution: req.CapaciteExecution,
		UrgencePrise:      req.UrgencePrise,
		DisponibilitePDR:  req.DisponibilitePDR,
		UtilisateurID:     req.UtilisateurID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("création planification: %w", err)
		}
		for _, itvID := range req.InterventionIDs {
			if err := s.ajouterDansTx(tx, p, itvID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.planificationRepo.FindByID(ctx, p.ID)
}

// Update mise à jour partielle, l'appartenance passe par Add/Remove
func (s *PlanificationService) Update(ctx context.Context, id uint, req *UpdatePlanificationRequest) (*entity.Planification, error) {
	p, err := s.planificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UtilisateurID != nil {
		if _, err := s.utilisateurRepo.FindByID(ctx, *req.UtilisateurID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("utilisateur inconnu", map[string][]string{
					"utilisateur_id": {libelleIntrouvable("utilisateur", *req.UtilisateurID)},
				})
			}
			return nil, err
		}
		p.UtilisateurID = *req.UtilisateurID
	}
	if req.DateCreation != nil {
		p.DateCreation = *req.DateCreation
	}
	if req.CapaciteExecution != nil {
		p.CapaciteExecution = *req.CapaciteExecution
	}
	if req.UrgencePrise != nil {
		p.UrgencePrise = *req.UrgencePrise
	}
	if req.DisponibilitePDR != nil {
		p.DisponibilitePDR = *req.DisponibilitePDR
	}
	if err := s.planificationRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("mise à jour planification: %w", err)
	}
	return s.planificationRepo.FindByID(ctx, id)
}

// AddIntervention range l'intervention dans le lot; si elle est
// exactement PENDING elle passe PLANNED, sinon aucun effet de statut.
func (s *PlanificationService) AddIntervention(ctx context.Context, planificationID, interventionID uint) (*entity.Planification, error) {
	p, err := s.planificationRepo.FindByID(ctx, planificationID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.ajouterDansTx(tx, p, interventionID)
	})
	if err != nil {
		return nil, err
	}
	return s.planificationRepo.FindByID(ctx, planificationID)
}

// RemoveIntervention sort l'intervention du lot; si elle est
// exactement PLANNED elle repasse PENDING, sinon aucun effet de statut.
func (s *PlanificationService) RemoveIntervention(ctx context.Context, planificationID, interventionID uint) (*entity.Planification, error) {
	p, err := s.planificationRepo.FindByID(ctx, planificationID)
	if err != nil {
		return nil, err
	}
	itv, err := s.interventionRepo.FindByID(ctx, interventionID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM planification_interventions WHERE planification_id = ? AND intervention_id = ?",
			p.ID, itv.ID,
		).Error; err != nil {
			return fmt.Errorf("retrait intervention: %w", err)
		}
		return s.lifecycle.AppliquerSiStatut(tx, itv, entity.StatutPlanned, entity.EvenementDeplanifier)
	})
	if err != nil {
		return nil, err
	}
	return s.planificationRepo.FindByID(ctx, planificationID)
}

// Delete supprime une planification sans toucher aux statuts
func (s *PlanificationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.planificationRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM planification_interventions WHERE planification_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Planification{}).Error
	})
}

// ajouterDansTx lit et écrit uniquement via tx: la transaction peut
// détenir la seule connexion du pool, une lecture hors tx bloquerait.
func (s *PlanificationService) ajouterDansTx(tx *gorm.DB, p *entity.Planification, interventionID uint) error {
	var itv entity.Intervention
	if err := tx.Where("id = ?", interventionID).First(&itv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewErreurChamps("intervention inconnue", map[string][]string{
				"intervention_ids": {libelleIntrouvable("intervention", interventionID)},
			})
		}
		return err
	}
	var deja int64
	if err := tx.Table("planification_interventions").
		Where("planification_id = ? AND intervention_id = ?", p.ID, itv.ID).
		Count(&deja).Error; err != nil {
		return err
	}
	if deja == 0 {
		if err := tx.Exec(
			"INSERT INTO planification_interventions (planification_id, intervention_id) VALUES (?, ?)",
			p.ID, itv.ID,
		).Error; err != nil {
			return fmt.Errorf("ajout intervention: %w", err)
		}
	}
	return s.lifecycle.AppliquerSiStatut(tx, &itv, entity.StatutPending, entity.EvenementPlanifier)
}
