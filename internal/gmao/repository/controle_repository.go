package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// ControleRepository dépôt des contrôles qualité
type ControleRepository struct {
	db *gorm.DB
}

func NewControleRepository(db *gorm.DB) *ControleRepository {
	return &ControleRepository{db: db}
}

// FindAll liste les contrôles qualité
func (r *ControleRepository) FindAll(ctx context.Context) ([]entity.ControleQualite, error) {
	var items []entity.ControleQualite
	err := r.db.WithContext(ctx).
		Preload("Intervention").
		Order("date_controle DESC").
		Find(&items).Error
	return items, err
}

// FindByID charge un contrôle qualité
func (r *ControleRepository) FindByID(ctx context.Context, id uint) (*entity.ControleQualite, error) {
	var cq entity.ControleQualite
	err := r.db.WithContext(ctx).
		Preload("Intervention").
		Where("id = ?", id).
		First(&cq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cq, nil
}

// FindByIntervention retourne le contrôle d'une intervention, nil si absent
func (r *ControleRepository) FindByIntervention(ctx context.Context, interventionID uint) (*entity.ControleQualite, error) {
	var cq entity.ControleQualite
	err := r.db.WithContext(ctx).Where("intervention_id = ?", interventionID).First(&cq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cq, nil
}

// Create crée un contrôle qualité
func (r *ControleRepository) Create(ctx context.Context, cq *entity.ControleQualite) error {
	return r.db.WithContext(ctx).Create(cq).Error
}

// Update enregistre un contrôle qualité
func (r *ControleRepository) Update(ctx context.Context, cq *entity.ControleQualite) error {
	return r.db.WithContext(ctx).Save(cq).Error
}

// Delete supprime un contrôle qualité
func (r *ControleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ControleQualite{}).Error
}
