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

// DiagnosticService diagnostics d'intervention
type DiagnosticService struct {
	db               *gorm.DB
	diagnosticRepo   *repository.DiagnosticRepository
	interventionRepo *repository.InterventionRepository
}

func NewDiagnosticService(db *gorm.DB, diagnosticRepo *repository.DiagnosticRepository, interventionRepo *repository.InterventionRepository) *DiagnosticService {
	return &DiagnosticService{
		db:               db,
		diagnosticRepo:   diagnosticRepo,
		interventionRepo: interventionRepo,
	}
}

// CreateDiagnosticRequest création de diagnostic
type CreateDiagnosticRequest struct {
	DateCreation     *time.Time `json:"dateCreation"`
	InterventionID   uint       `json:"intervention_id" binding:"required"`
	TravauxRequis    []string   `json:"travauxRequis"`
	BesoinsPDR       []string   `json:"besoinsPDR"`
	ChargesRealisees []string   `json:"chargesRealisees"`
}

// UpdateDiagnosticRequest mise à jour partielle
type UpdateDiagnosticRequest struct {
	DateCreation     *time.Time `json:"dateCreation"`
	TravauxRequis    []string   `json:"travauxRequis"`
	BesoinsPDR       []string   `json:"besoinsPDR"`
	ChargesRealisees []string   `json:"chargesRealisees"`
}

// List liste les diagnostics
func (s *DiagnosticService) List(ctx context.Context) ([]entity.Diagnostic, error) {
	return s.diagnosticRepo.FindAll(ctx)
}

// Get charge un diagnostic
func (s *DiagnosticService) Get(ctx context.Context, id uint) (*entity.Diagnostic, error) {
	return s.diagnosticRepo.FindByID(ctx, id)
}

// ByIntervention diagnostic d'une intervention, nil si absent
func (s *DiagnosticService) ByIntervention(ctx context.Context, interventionID uint) (*entity.Diagnostic, error) {
	if _, err := s.interventionRepo.FindByID(ctx, interventionID); err != nil {
		return nil, err
	}
	return s.diagnosticRepo.FindByIntervention(ctx, interventionID)
}

// Create crée le diagnostic, un seul par intervention
func (s *DiagnosticService) Create(ctx context.Context, req *CreateDiagnosticRequest) (*entity.Diagnostic, error) {
	if _, err := s.interventionRepo.FindByID(ctx, req.InterventionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErreurChamps("intervention inconnue", map[string][]string{
				"intervention_id": {libelleIntrouvable("intervention", req.InterventionID)},
			})
		}
		return nil, err
	}

	existant, err := s.diagnosticRepo.FindByIntervention(ctx, req.InterventionID)
	if err != nil {
		return nil, err
	}
	if existant != nil {
		return nil, &ErreurValidation{
			Message: "cette intervention a déjà un diagnostic",
			Donnees: existant,
		}
	}

	dateCreation := time.Now()
	if req.DateCreation != nil {
		dateCreation = *req.DateCreation
	}

	d := &entity.Diagnostic{
		DateCreation:   dateCreation,
		InterventionID: req.InterventionID,
	}
	for _, v := range req.TravauxRequis {
		d.TravauxRequis = append(d.TravauxRequis, entity.TravailRequis{Description: v})
	}
	for _, v := range req.BesoinsPDR {
		d.BesoinsPDR = append(d.BesoinsPDR, entity.BesoinPDR{Description: v})
	}
	for _, v := range req.ChargesRealisees {
		d.ChargesRealisees = append(d.ChargesRealisees, entity.ChargeRealisee{Description: v})
	}

	if err := s.diagnosticRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("création diagnostic: %w", err)
	}
	return s.diagnosticRepo.FindByID(ctx, d.ID)
}

// Update remplace les listes fournies, conserve les autres
func (s *DiagnosticService) Update(ctx context.Context, id uint, req *UpdateDiagnosticRequest) (*entity.Diagnostic, error) {
	d, err := s.diagnosticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DateCreation != nil {
		d.DateCreation = *req.DateCreation
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TravauxRequis", "BesoinsPDR", "ChargesRealisees").Save(d).Error; err != nil {
			return fmt.Errorf("mise à jour diagnostic: %w", err)
		}
		if req.TravauxRequis != nil {
			if err := tx.Where("diagnostic_id = ?", d.ID).Delete(&entity.TravailRequis{}).Error; err != nil {
				return err
			}
			for _, v := range req.TravauxRequis {
				if err := tx.Create(&entity.TravailRequis{DiagnosticID: d.ID, Description: v}).Error; err != nil {
					return err
				}
			}
		}
		if req.BesoinsPDR != nil {
			if err := tx.Where("diagnostic_id = ?", d.ID).Delete(&entity.BesoinPDR{}).Error; err != nil {
				return err
			}
			for _, v := range req.BesoinsPDR {
				if err := tx.Create(&entity.BesoinPDR{DiagnosticID: d.ID, Description: v}).Error; err != nil {
					return err
				}
			}
		}
		if req.ChargesRealisees != nil {
			if err := tx.Where("diagnostic_id = ?", d.ID).Delete(&entity.ChargeRealisee{}).Error; err != nil {
				return err
			}
			for _, v := range req.ChargesRealisees {
				if err := tx.Create(&entity.ChargeRealisee{DiagnosticID: d.ID, Description: v}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.diagnosticRepo.FindByID(ctx, id)
}

// Delete supprime un diagnostic et ses listes
func (s *DiagnosticService) Delete(ctx context.Context, id uint) error {
	if _, err := s.diagnosticRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.diagnosticRepo.Delete(ctx, id)
}
