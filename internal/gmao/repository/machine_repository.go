package repository

import (
	"context"
	"errors"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// MachineRepository dépôt des machines
type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

// FindAll liste les machines avec filtres optionnels
func (r *MachineRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.Machine, error) {
	var machines []entity.Machine

	query := r.db.WithContext(ctx).Model(&entity.Machine{})

	if etat := filters["etat"]; etat != "" {
		query = query.Where("etat = ?", etat)
	}
	if typ := filters["type"]; typ != "" {
		query = query.Where("type = ?", typ)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("nom LIKE ?", "%"+search+"%")
	}

	err := query.Order("created_at DESC").Find(&machines).Error
	return machines, err
}

// FindByID charge une machine avec ses interventions
func (r *MachineRepository) FindByID(ctx context.Context, id uint) (*entity.Machine, error) {
	var machine entity.Machine
	err := r.db.WithContext(ctx).
		Preload("Interventions").
		Where("id = ?", id).
		First(&machine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &machine, nil
}

// Create crée une machine
func (r *MachineRepository) Create(ctx context.Context, machine *entity.Machine) error {
	return r.db.WithContext(ctx).Create(machine).Error
}

// Update enregistre une machine
func (r *MachineRepository) Update(ctx context.Context, machine *entity.Machine) error {
	return r.db.WithContext(ctx).Save(machine).Error
}

// Delete supprime une machine
func (r *MachineRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Machine{}).Error
}

// FindMaintenanceSoon machines dont la prochaine maintenance tombe dans la fenêtre donnée
func (r *MachineRepository) FindMaintenanceSoon(ctx context.Context, within time.Duration) ([]entity.Machine, error) {
	var machines []entity.Machine
	now := time.Now()
	limit := now.Add(within)
	err := r.db.WithContext(ctx).
		Where("date_prochaine_maint IS NOT NULL AND date_prochaine_maint BETWEEN ? AND ?", now, limit).
		Order("date_prochaine_maint ASC").
		Find(&machines).Error
	return machines, err
}
