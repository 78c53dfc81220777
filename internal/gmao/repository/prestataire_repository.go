package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// PrestataireRepository dépôt des prestataires externes
type PrestataireRepository struct {
	db *gorm.DB
}

func NewPrestataireRepository(db *gorm.DB) *PrestataireRepository {
	return &PrestataireRepository{db: db}
}

// FindAll liste les prestataires
func (r *PrestataireRepository) FindAll(ctx context.Context) ([]entity.PrestataireExterne, error) {
	var items []entity.PrestataireExterne
	err := r.db.WithContext(ctx).Preload("Utilisateurs").Order("id").Find(&items).Error
	return items, err
}

// FindByID charge un prestataire
func (r *PrestataireRepository) FindByID(ctx context.Context, id uint) (*entity.PrestataireExterne, error) {
	var p entity.PrestataireExterne
	err := r.db.WithContext(ctx).
		Preload("Utilisateurs").
		Preload("Rapports").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create crée un prestataire
func (r *PrestataireRepository) Create(ctx context.Context, p *entity.PrestataireExterne) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update enregistre un prestataire (hors many2many)
func (r *PrestataireRepository) Update(ctx context.Context, p *entity.PrestataireExterne) error {
	return r.db.WithContext(ctx).Omit("Utilisateurs", "Rapports").Save(p).Error
}

// Delete supprime un prestataire
func (r *PrestataireRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM prestataire_utilisateurs WHERE prestataire_externe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.PrestataireExterne{}).Error
	})
}

// ReplaceUtilisateurs remplace les intervenants rattachés
func (r *PrestataireRepository) ReplaceUtilisateurs(ctx context.Context, p *entity.PrestataireExterne, users []entity.Utilisateur) error {
	return r.db.WithContext(ctx).Model(p).Association("Utilisateurs").Replace(users)
}
