package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// RapportRepository dépôt des rapports
type RapportRepository struct {
	db *gorm.DB
}

func NewRapportRepository(db *gorm.DB) *RapportRepository {
	return &RapportRepository{db: db}
}

func (r *RapportRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Renovation").
		Preload("Maintenance").
		Preload("Prestataire").
		Preload("Documents")
}

// FindAll liste les rapports
func (r *RapportRepository) FindAll(ctx context.Context) ([]entity.Rapport, error) {
	var items []entity.Rapport
	err := r.withRelations(ctx).Order("date_creation DESC").Find(&items).Error
	return items, err
}

// FindByID charge un rapport avec ses relations
func (r *RapportRepository) FindByID(ctx context.Context, id uint) (*entity.Rapport, error) {
	var rap entity.Rapport
	err := r.withRelations(ctx).Where("id = ?", id).First(&rap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rap, nil
}

// FindByRenovation retourne le rapport d'une rénovation, nil si absent
func (r *RapportRepository) FindByRenovation(ctx context.Context, renovationID uint) (*entity.Rapport, error) {
	var rap entity.Rapport
	err := r.db.WithContext(ctx).Where("renovation_id = ?", renovationID).First(&rap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rap, nil
}

// FindByMaintenance retourne le rapport d'une maintenance, nil si absent
func (r *RapportRepository) FindByMaintenance(ctx context.Context, maintenanceID uint) (*entity.Rapport, error) {
	var rap entity.Rapport
	err := r.db.WithContext(ctx).Where("maintenance_id = ?", maintenanceID).First(&rap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rap, nil
}

// FindByPrestataire rapports d'un prestataire externe
func (r *RapportRepository) FindByPrestataire(ctx context.Context, prestataireID uint) ([]entity.Rapport, error) {
	var items []entity.Rapport
	err := r.withRelations(ctx).
		Where("prestataire_id = ?", prestataireID).
		Order("date_creation DESC").
		Find(&items).Error
	return items, err
}

// Create crée un rapport
func (r *RapportRepository) Create(ctx context.Context, rap *entity.Rapport) error {
	return r.db.WithContext(ctx).Create(rap).Error
}

// Update enregistre un rapport
func (r *RapportRepository) Update(ctx context.Context, rap *entity.Rapport) error {
	return r.db.WithContext(ctx).Save(rap).Error
}

// Delete supprime un rapport (documents en cascade)
func (r *RapportRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Rapport{}).Error
}

// CreateDocument attache une pièce jointe
func (r *RapportRepository) CreateDocument(ctx context.Context, doc *entity.RapportDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindDocuments pièces jointes d'un rapport
func (r *RapportRepository) FindDocuments(ctx context.Context, rapportID uint) ([]entity.RapportDocument, error) {
	var docs []entity.RapportDocument
	err := r.db.WithContext(ctx).
		Where("rapport_id = ?", rapportID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}
