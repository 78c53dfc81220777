package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// PlanificationRepository dépôt des planifications
type PlanificationRepository struct {
	db *gorm.DB
}

func NewPlanificationRepository(db *gorm.DB) *PlanificationRepository {
	return &PlanificationRepository{db: db}
}

func (r *PlanificationRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Utilisateur").
		Preload("Interventions").
		Preload("Interventions.Machine")
}

// FindAll liste les planifications
func (r *PlanificationRepository) FindAll(ctx context.Context) ([]entity.Planification, error) {
	var items []entity.Planification
	err := r.withRelations(ctx).Order("date_creation DESC").Find(&items).Error
	return items, err
}

// FindByID charge une planification avec ses interventions
func (r *PlanificationRepository) FindByID(ctx context.Context, id uint) (*entity.Planification, error) {
	var p entity.Planification
	err := r.withRelations(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByUtilisateur planifications d'un utilisateur responsable
func (r *PlanificationRepository) FindByUtilisateur(ctx context.Context, utilisateurID uint) ([]entity.Planification, error) {
	var items []entity.Planification
	err := r.withRelations(ctx).
		Where("utilisateur_id = ?", utilisateurID).
		Order("date_creation DESC").
		Find(&items).Error
	return items, err
}

// Create crée une planification
func (r *PlanificationRepository) Create(ctx context.Context, p *entity.Planification) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update enregistre une planification (hors many2many)
func (r *PlanificationRepository) Update(ctx context.Context, p *entity.Planification) error {
	return r.db.WithContext(ctx).Omit("Interventions").Save(p).Error
}

// Delete supprime une planification
func (r *PlanificationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Planification{}).Error
}

// Contient vérifie l'appartenance d'une intervention à la planification
func (r *PlanificationRepository) Contient(ctx context.Context, planificationID, interventionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("planification_interventions").
		Where("planification_id = ? AND intervention_id = ?", planificationID, interventionID).
		Count(&count).Error
	return count > 0, err
}
