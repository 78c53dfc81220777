package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// RenovationRepository dépôt des fiches rénovation
type RenovationRepository struct {
	db *gorm.DB
}

func NewRenovationRepository(db *gorm.DB) *RenovationRepository {
	return &RenovationRepository{db: db}
}

// FindAll liste les rénovations
func (r *RenovationRepository) FindAll(ctx context.Context) ([]entity.Renovation, error) {
	var items []entity.Renovation
	err := r.db.WithContext(ctx).
		Preload("Intervention").
		Preload("Intervention.Machine").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByIntervention retourne la rénovation d'une intervention, nil si absente
func (r *RenovationRepository) FindByIntervention(ctx context.Context, interventionID uint) (*entity.Renovation, error) {
	var ren entity.Renovation
	err := r.db.WithContext(ctx).
		Preload("Intervention").
		Preload("Intervention.Machine").
		Where("intervention_id = ?", interventionID).
		First(&ren).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ren, nil
}

// Get charge la rénovation par sa clé intervention, ErrNotFound si absente
func (r *RenovationRepository) Get(ctx context.Context, interventionID uint) (*entity.Renovation, error) {
	ren, err := r.FindByIntervention(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if ren == nil {
		return nil, ErrNotFound
	}
	return ren, nil
}

// Create crée une fiche rénovation
func (r *RenovationRepository) Create(ctx context.Context, ren *entity.Renovation) error {
	return r.db.WithContext(ctx).Create(ren).Error
}

// Update enregistre une fiche rénovation
func (r *RenovationRepository) Update(ctx context.Context, ren *entity.Renovation) error {
	return r.db.WithContext(ctx).Save(ren).Error
}

// Delete supprime une fiche rénovation
func (r *RenovationRepository) Delete(ctx context.Context, interventionID uint) error {
	return r.db.WithContext(ctx).Where("intervention_id = ?", interventionID).Delete(&entity.Renovation{}).Error
}

// SumCouts somme des coûts de rénovation
func (r *RenovationRepository) SumCouts(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&entity.Renovation{}).
		Select("COALESCE(SUM(cout), 0)").
		Scan(&total).Error
	return total, err
}
