package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// InterventionRepository dépôt des interventions
type InterventionRepository struct {
	db *gorm.DB
}

func NewInterventionRepository(db *gorm.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

func (r *InterventionRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Machine").
		Preload("Diagnostic").
		Preload("ControleQualite").
		Preload("Renovation").
		Preload("Maintenance").
		Preload("Utilisateurs").
		Preload("Planifications")
}

// FindAll liste les interventions avec leurs relations
func (r *InterventionRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.Intervention, error) {
	var items []entity.Intervention

	query := r.withRelations(ctx)

	if statut := filters["statut"]; statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if typ := filters["typeOperation"]; typ != "" {
		query = query.Where("type_operation = ?", typ)
	}
	if urgence := filters["urgence"]; urgence == "true" {
		query = query.Where("urgence = ?", true)
	}

	err := query.Order("date DESC").Find(&items).Error
	return items, err
}

// FindByID charge une intervention avec toutes ses relations
func (r *InterventionRepository) FindByID(ctx context.Context, id uint) (*entity.Intervention, error) {
	var itv entity.Intervention
	err := r.withRelations(ctx).Where("id = ?", id).First(&itv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &itv, nil
}

// FindByMachine interventions d'une machine
func (r *InterventionRepository) FindByMachine(ctx context.Context, machineID uint) ([]entity.Intervention, error) {
	var items []entity.Intervention
	err := r.withRelations(ctx).
		Where("machine_id = ?", machineID).
		Order("date DESC").
		Find(&items).Error
	return items, err
}

// FindByStatut interventions d'un statut donné
func (r *InterventionRepository) FindByStatut(ctx context.Context, statut string) ([]entity.Intervention, error) {
	var items []entity.Intervention
	err := r.withRelations(ctx).
		Where("statut = ?", statut).
		Order("date DESC").
		Find(&items).Error
	return items, err
}

// FindUrgent interventions urgentes non terminées
func (r *InterventionRepository) FindUrgent(ctx context.Context) ([]entity.Intervention, error) {
	var items []entity.Intervention
	err := r.withRelations(ctx).
		Where("urgence = ? AND statut <> ?", true, entity.StatutCompleted).
		Order("date ASC").
		Find(&items).Error
	return items, err
}

// Create crée une intervention
func (r *InterventionRepository) Create(ctx context.Context, itv *entity.Intervention) error {
	return r.db.WithContext(ctx).Create(itv).Error
}

// Update enregistre une intervention (hors relations many2many)
func (r *InterventionRepository) Update(ctx context.Context, itv *entity.Intervention) error {
	return r.db.WithContext(ctx).Omit("Utilisateurs", "Planifications").Save(itv).Error
}

// Delete supprime une intervention
func (r *InterventionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Intervention{}).Error
}

// ReplaceUtilisateurs remplace l'affectation many2many des utilisateurs
func (r *InterventionRepository) ReplaceUtilisateurs(ctx context.Context, itv *entity.Intervention, users []entity.Utilisateur) error {
	return r.db.WithContext(ctx).Model(itv).Association("Utilisateurs").Replace(users)
}
