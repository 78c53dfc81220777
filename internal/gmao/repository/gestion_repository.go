package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// GestionRepository dépôt des gestions administratives
type GestionRepository struct {
	db *gorm.DB
}

func NewGestionRepository(db *gorm.DB) *GestionRepository {
	return &GestionRepository{db: db}
}

// FindAll liste les gestions administratives
func (r *GestionRepository) FindAll(ctx context.Context) ([]entity.GestionAdministrative, error) {
	var items []entity.GestionAdministrative
	err := r.db.WithContext(ctx).
		Preload("Rapport").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByID charge une gestion administrative
func (r *GestionRepository) FindByID(ctx context.Context, id uint) (*entity.GestionAdministrative, error) {
	var g entity.GestionAdministrative
	err := r.db.WithContext(ctx).
		Preload("Rapport").
		Preload("Utilisateurs").
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// FindByRapport retourne la gestion d'un rapport, nil si absente
func (r *GestionRepository) FindByRapport(ctx context.Context, rapportID uint) (*entity.GestionAdministrative, error) {
	var g entity.GestionAdministrative
	err := r.db.WithContext(ctx).Where("rapport_id = ?", rapportID).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// Create crée une gestion administrative
func (r *GestionRepository) Create(ctx context.Context, g *entity.GestionAdministrative) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// Update enregistre une gestion administrative
func (r *GestionRepository) Update(ctx context.Context, g *entity.GestionAdministrative) error {
	return r.db.WithContext(ctx).Omit("Utilisateurs").Save(g).Error
}

// Delete supprime une gestion administrative
func (r *GestionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.GestionAdministrative{}).Error
}

// ReplaceUtilisateurs remplace les utilisateurs associés
func (r *GestionRepository) ReplaceUtilisateurs(ctx context.Context, g *entity.GestionAdministrative, users []entity.Utilisateur) error {
	return r.db.WithContext(ctx).Model(g).Association("Utilisateurs").Replace(users)
}
