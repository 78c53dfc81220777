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

// InterventionService gestion des interventions
type InterventionService struct {
	db               *gorm.DB
	interventionRepo *repository.InterventionRepository
	machineRepo      *repository.MachineRepository
	utilisateurRepo  *repository.UtilisateurRepository
}

func NewInterventionService(db *gorm.DB, interventionRepo *repository.InterventionRepository, machineRepo *repository.MachineRepository, utilisateurRepo *repository.UtilisateurRepository) *InterventionService {
	return &InterventionService{
		db:               db,
		interventionRepo: interventionRepo,
		machineRepo:      machineRepo,
		utilisateurRepo:  utilisateurRepo,
	}
}

// CreateInterventionRequest création d'intervention
type CreateInterventionRequest struct {
	Date           *time.Time `json:"date"`
	Description    string     `json:"description"`
	TypeOperation  string     `json:"typeOperation" binding:"required"`
	Statut         string     `json:"statut"`
	Urgence        bool       `json:"urgence"`
	MachineID      uint       `json:"machine_id" binding:"required"`
	UtilisateurIDs []uint     `json:"utilisateur_ids"`
}

// UpdateInterventionRequest mise à jour partielle
type UpdateInterventionRequest struct {
	Date           *time.Time `json:"date"`
	Description    *string    `json:"description"`
	TypeOperation  *string    `json:"typeOperation"`
	Statut         *string    `json:"statut"`
	Urgence        *bool      `json:"urgence"`
	MachineID      *uint      `json:"machine_id"`
	UtilisateurIDs []uint     `json:"utilisateur_ids"`
}

// List liste les interventions, filtres statut/typeOperation/urgence
func (s *InterventionService) List(ctx context.Context, filters map[string]string) ([]entity.Intervention, error) {
	return s.interventionRepo.FindAll(ctx, filters)
}

// Get charge une intervention avec toutes ses relations
func (s *InterventionService) Get(ctx context.Context, id uint) (*entity.Intervention, error) {
	return s.interventionRepo.FindByID(ctx, id)
}

// ByMachine interventions d'une machine
func (s *InterventionService) ByMachine(ctx context.Context, machineID uint) ([]entity.Intervention, error) {
	if _, err := s.machineRepo.FindByID(ctx, machineID); err != nil {
		return nil, err
	}
	return s.interventionRepo.FindByMachine(ctx, machineID)
}

// ByStatut interventions d'un statut donné
func (s *InterventionService) ByStatut(ctx context.Context, statut string) ([]entity.Intervention, error) {
	if !entity.StatutInterventionValide(statut) {
		return nil, NewErreurChamps("statut invalide", map[string][]string{
			"statut": {fmt.Sprintf("le statut doit être parmi %v", entity.StatutsIntervention)},
		})
	}
	return s.interventionRepo.FindByStatut(ctx, statut)
}

// Urgent interventions urgentes non terminées
func (s *InterventionService) Urgent(ctx context.Context) ([]entity.Intervention, error) {
	return s.interventionRepo.FindUrgent(ctx)
}

// Create crée une intervention, statut PENDING par défaut
func (s *InterventionService) Create(ctx context.Context, req *CreateInterventionRequest) (*entity.Intervention, error) {
	if _, err := s.machineRepo.FindByID(ctx, req.MachineID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErreurChamps("machine inconnue", map[string][]string{
				"machine_id": {libelleIntrouvable("machine", req.MachineID)},
			})
		}
		return nil, err
	}

	statut := req.Statut
	if statut == "" {
		statut = entity.StatutPending
	}
	if !entity.StatutInterventionValide(statut) {
		return nil, NewErreurChamps("statut invalide", map[string][]string{
			"statut": {fmt.Sprintf("le statut doit être parmi %v", entity.StatutsIntervention)},
		})
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	// lectures avant la transaction: elle peut détenir la seule connexion du pool
	users, err := s.chargerUtilisateurs(ctx, req.UtilisateurIDs)
	if err != nil {
		return nil, err
	}

	itv := &entity.Intervention{
		Date:          date,
		Description:   req.Description,
		TypeOperation: req.TypeOperation,
		Statut:        statut,
		Urgence:       req.Urgence,
		MachineID:     req.MachineID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(itv).Error; err != nil {
			return fmt.Errorf("création intervention: %w", err)
		}
		if len(users) > 0 {
			if err := tx.Model(itv).Association("Utilisateurs").Replace(users); err != nil {
				return fmt.Errorf("affectation intervenants: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.interventionRepo.FindByID(ctx, itv.ID)
}

// Update mise à jour partielle; le statut passe par la vérification de vocabulaire
func (s *InterventionService) Update(ctx context.Context, id uint, req *UpdateInterventionRequest) (*entity.Intervention, error) {
	itv, err := s.interventionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Statut != nil {
		if !entity.StatutInterventionValide(*req.Statut) {
			return nil, NewErreurChamps("statut invalide", map[string][]string{
				"statut": {fmt.Sprintf("le statut doit être parmi %v", entity.StatutsIntervention)},
			})
		}
		itv.Statut = *req.Statut
	}
	if req.MachineID != nil {
		if _, err := s.machineRepo.FindByID(ctx, *req.MachineID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("machine inconnue", map[string][]string{
					"machine_id": {libelleIntrouvable("machine", *req.MachineID)},
				})
			}
			return nil, err
		}
		itv.MachineID = *req.MachineID
	}
	if req.Date != nil {
		itv.Date = *req.Date
	}
	if req.Description != nil {
		itv.Description = *req.Description
	}
	if req.TypeOperation != nil {
		itv.TypeOperation = *req.TypeOperation
	}
	if req.Urgence != nil {
		itv.Urgence = *req.Urgence
	}

	var users []entity.Utilisateur
	if req.UtilisateurIDs != nil {
		users, err = s.chargerUtilisateurs(ctx, req.UtilisateurIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Machine", "Diagnostic", "ControleQualite", "Renovation", "Maintenance", "Utilisateurs", "Planifications").Save(itv).Error; err != nil {
			return fmt.Errorf("mise à jour intervention: %w", err)
		}
		if req.UtilisateurIDs != nil {
			if err := tx.Model(itv).Association("Utilisateurs").Replace(users); err != nil {
				return fmt.Errorf("affectation intervenants: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.interventionRepo.FindByID(ctx, id)
}

// Delete supprime une intervention et ses enregistrements liés
func (s *InterventionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.interventionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM intervention_utilisateurs WHERE intervention_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM planification_interventions WHERE intervention_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Intervention{}).Error
	})
}

func (s *InterventionService) chargerUtilisateurs(ctx context.Context, ids []uint) ([]entity.Utilisateur, error) {
	users := make([]entity.Utilisateur, 0, len(ids))
	for _, uid := range ids {
		u, err := s.utilisateurRepo.FindByID(ctx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("utilisateur inconnu", map[string][]string{
					"utilisateur_ids": {libelleIntrouvable("utilisateur", uid)},
				})
			}
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}
