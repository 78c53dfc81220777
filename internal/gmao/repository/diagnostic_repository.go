package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// DiagnosticRepository dépôt des diagnostics
type DiagnosticRepository struct {
	db *gorm.DB
}

func NewDiagnosticRepository(db *gorm.DB) *DiagnosticRepository {
	return &DiagnosticRepository{db: db}
}

func (r *DiagnosticRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Intervention").
		Preload("TravauxRequis").
		Preload("BesoinsPDR").
		Preload("ChargesRealisees")
}

// FindAll liste les diagnostics
func (r *DiagnosticRepository) FindAll(ctx context.Context) ([]entity.Diagnostic, error) {
	var items []entity.Diagnostic
	err := r.withRelations(ctx).Order("date_creation DESC").Find(&items).Error
	return items, err
}

// FindByID charge un diagnostic avec ses lignes
func (r *DiagnosticRepository) FindByID(ctx context.Context, id uint) (*entity.Diagnostic, error) {
	var diag entity.Diagnostic
	err := r.withRelations(ctx).Where("id = ?", id).First(&diag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &diag, nil
}

// FindByIntervention retourne le diagnostic d'une intervention, nil si absent
func (r *DiagnosticRepository) FindByIntervention(ctx context.Context, interventionID uint) (*entity.Diagnostic, error) {
	var diag entity.Diagnostic
	err := r.withRelations(ctx).Where("intervention_id = ?", interventionID).First(&diag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &diag, nil
}

// Create crée un diagnostic et ses lignes
func (r *DiagnosticRepository) Create(ctx context.Context, diag *entity.Diagnostic) error {
	return r.db.WithContext(ctx).Create(diag).Error
}

// Update enregistre un diagnostic
func (r *DiagnosticRepository) Update(ctx context.Context, diag *entity.Diagnostic) error {
	return r.db.WithContext(ctx).Save(diag).Error
}

// Delete supprime un diagnostic (les lignes suivent par cascade)
func (r *DiagnosticRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Diagnostic{}).Error
}
