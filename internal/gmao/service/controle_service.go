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

// ControleService contrôles qualité post-travaux
type ControleService struct {
	db               *gorm.DB
	controleRepo     *repository.ControleRepository
	interventionRepo *repository.InterventionRepository
}

func NewControleService(db *gorm.DB, controleRepo *repository.ControleRepository, interventionRepo *repository.InterventionRepository) *ControleService {
	return &ControleService{
		db:               db,
		controleRepo:     controleRepo,
		interventionRepo: interventionRepo,
	}
}

// CreateControleRequest création de contrôle qualité
type CreateControleRequest struct {
	DateControle       *time.Time `json:"dateControle"`
	InterventionID     uint       `json:"intervention_id" binding:"required"`
	ResultatsEssais    string     `json:"resultatsEssais"`
	AnalyseVibratoire  string     `json:"analyseVibratoire"`
	Conformite         bool       `json:"conformite"`
	ActionsCorrectives string     `json:"actionsCorrectives"`
}

// UpdateControleRequest mise à jour partielle
type UpdateControleRequest struct {
	DateControle       *time.Time `json:"dateControle"`
	ResultatsEssais    *string    `json:"resultatsEssais"`
	AnalyseVibratoire  *string    `json:"analyseVibratoire"`
	Conformite         *bool      `json:"conformite"`
	ActionsCorrectives *string    `json:"actionsCorrectives"`
}

// List liste les contrôles
func (s *ControleService) List(ctx context.Context) ([]entity.ControleQualite, error) {
	return s.controleRepo.FindAll(ctx)
}

// Get charge un contrôle
func (s *ControleService) Get(ctx context.Context, id uint) (*entity.ControleQualite, error) {
	return s.controleRepo.FindByID(ctx, id)
}

// Create crée le contrôle, un seul par intervention
func (s *ControleService) Create(ctx context.Context, req *CreateControleRequest) (*entity.ControleQualite, error) {
	if _, err := s.interventionRepo.FindByID(ctx, req.InterventionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErreurChamps("intervention inconnue", map[string][]string{
				"intervention_id": {libelleIntrouvable("intervention", req.InterventionID)},
			})
		}
		return nil, err
	}

	existant, err := s.controleRepo.FindByIntervention(ctx, req.InterventionID)
	if err != nil {
		return nil, err
	}
	if existant != nil {
		return nil, &ErreurValidation{
			Message: "cette intervention a déjà un contrôle qualité",
			Donnees: existant,
		}
	}

	dateControle := time.Now()
	if req.DateControle != nil {
		dateControle = *req.DateControle
	}

	c := &entity.ControleQualite{
		DateControle:       dateControle,
		InterventionID:     req.InterventionID,
		ResultatsEssais:    req.ResultatsEssais,
		AnalyseVibratoire:  req.AnalyseVibratoire,
		Conformite:         req.Conformite,
		ActionsCorrectives: req.ActionsCorrectives,
	}
	if err := s.controleRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("création contrôle qualité: %w", err)
	}
	return c, nil
}

// Update mise à jour partielle
func (s *ControleService) Update(ctx context.Context, id uint, req *UpdateControleRequest) (*entity.ControleQualite, error) {
	c, err := s.controleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DateControle != nil {
		c.DateControle = *req.DateControle
	}
	if req.ResultatsEssais != nil {
		c.ResultatsEssais = *req.ResultatsEssais
	}
	if req.AnalyseVibratoire != nil {
		c.AnalyseVibratoire = *req.AnalyseVibratoire
	}
	if req.Conformite != nil {
		c.Conformite = *req.Conformite
	}
	if req.ActionsCorrectives != nil {
		c.ActionsCorrectives = *req.ActionsCorrectives
	}
	if err := s.controleRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("mise à jour contrôle qualité: %w", err)
	}
	return c, nil
}

// Delete supprime un contrôle
func (s *ControleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.controleRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.controleRepo.Delete(ctx, id)
}
