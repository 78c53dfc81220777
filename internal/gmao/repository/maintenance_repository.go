package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// MaintenanceRepository dépôt des fiches maintenance
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// FindAll liste les maintenances avec leurs pièces
func (r *MaintenanceRepository) FindAll(ctx context.Context) ([]entity.Maintenance, error) {
	var items []entity.Maintenance
	err := r.db.WithContext(ctx).
		Preload("Intervention").
		Preload("Intervention.Machine").
		Preload("Pieces").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByIntervention retourne la maintenance d'une intervention, nil si absente
func (r *MaintenanceRepository) FindByIntervention(ctx context.Context, interventionID uint) (*entity.Maintenance, error) {
	var m entity.Maintenance
	err := r.db.WithContext(ctx).
		Preload("Intervention").
		Preload("Pieces").
		Where("intervention_id = ?", interventionID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Get charge la maintenance par sa clé intervention, ErrNotFound si absente
func (r *MaintenanceRepository) Get(ctx context.Context, interventionID uint) (*entity.Maintenance, error) {
	m, err := r.FindByIntervention(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// Create crée une fiche maintenance et ses pièces
func (r *MaintenanceRepository) Create(ctx context.Context, m *entity.Maintenance) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Update enregistre une fiche maintenance
func (r *MaintenanceRepository) Update(ctx context.Context, m *entity.Maintenance) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete supprime une fiche maintenance (pièces en cascade)
func (r *MaintenanceRepository) Delete(ctx context.Context, interventionID uint) error {
	return r.db.WithContext(ctx).Where("intervention_id = ?", interventionID).Delete(&entity.Maintenance{}).Error
}
