package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// UtilisateurRepository dépôt des utilisateurs et sections
type UtilisateurRepository struct {
	db *gorm.DB
}

func NewUtilisateurRepository(db *gorm.DB) *UtilisateurRepository {
	return &UtilisateurRepository{db: db}
}

// FindAll liste les utilisateurs avec rôles et section
func (r *UtilisateurRepository) FindAll(ctx context.Context) ([]entity.Utilisateur, error) {
	var items []entity.Utilisateur
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Roles").
		Order("id").
		Find(&items).Error
	return items, err
}

// FindByID charge un utilisateur avec rôles et permissions
func (r *UtilisateurRepository) FindByID(ctx context.Context, id uint) (*entity.Utilisateur, error) {
	var u entity.Utilisateur
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Roles").
		Preload("Roles.Permissions").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByNom recherche par nom de connexion
func (r *UtilisateurRepository) FindByNom(ctx context.Context, nom string) (*entity.Utilisateur, error) {
	var u entity.Utilisateur
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Roles.Permissions").
		Where("nom = ?", nom).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByToken résout le porteur d'un jeton API
func (r *UtilisateurRepository) FindByToken(ctx context.Context, token string) (*entity.Utilisateur, error) {
	var u entity.Utilisateur
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Roles.Permissions").
		Where("api_token = ?", token).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create crée un utilisateur
func (r *UtilisateurRepository) Create(ctx context.Context, u *entity.Utilisateur) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Update enregistre un utilisateur (hors many2many)
func (r *UtilisateurRepository) Update(ctx context.Context, u *entity.Utilisateur) error {
	return r.db.WithContext(ctx).Omit("Roles", "Planifications", "Prestataires").Save(u).Error
}

// Delete supprime un utilisateur
func (r *UtilisateurRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Utilisateur{}).Error
}

// SetToken écrit (ou efface) le jeton API
func (r *UtilisateurRepository) SetToken(ctx context.Context, id uint, token *string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Utilisateur{}).
		Where("id = ?", id).
		Update("api_token", token).Error
}

// ReplaceRoles remplace l'affectation des rôles
func (r *UtilisateurRepository) ReplaceRoles(ctx context.Context, u *entity.Utilisateur, roles []entity.Role) error {
	return r.db.WithContext(ctx).Model(u).Association("Roles").Replace(roles)
}

// TokensParRole jetons API actifs des porteurs d'un rôle
func (r *UtilisateurRepository) TokensParRole(ctx context.Context, roleID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Table("utilisateurs").
		Joins("JOIN utilisateur_roles ON utilisateur_roles.utilisateur_id = utilisateurs.id").
		Where("utilisateur_roles.role_id = ? AND utilisateurs.api_token IS NOT NULL", roleID).
		Pluck("utilisateurs.api_token", &tokens).Error
	return tokens, err
}

// TokensParPermission jetons API actifs des porteurs d'un rôle incluant la permission
func (r *UtilisateurRepository) TokensParPermission(ctx context.Context, permissionID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Table("utilisateurs").
		Joins("JOIN utilisateur_roles ON utilisateur_roles.utilisateur_id = utilisateurs.id").
		Joins("JOIN role_permissions ON role_permissions.role_id = utilisateur_roles.role_id").
		Where("role_permissions.permission_id = ? AND utilisateurs.api_token IS NOT NULL", permissionID).
		Distinct("utilisateurs.api_token").
		Pluck("utilisateurs.api_token", &tokens).Error
	return tokens, err
}

// FindAllSections liste les sections
func (r *UtilisateurRepository) FindAllSections(ctx context.Context) ([]entity.Section, error) {
	var items []entity.Section
	err := r.db.WithContext(ctx).Order("id").Find(&items).Error
	return items, err
}

// FindSectionByID charge une section
func (r *UtilisateurRepository) FindSectionByID(ctx context.Context, id uint) (*entity.Section, error) {
	var s entity.Section
	err := r.db.WithContext(ctx).Preload("Utilisateurs").Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateSection crée une section
func (r *UtilisateurRepository) CreateSection(ctx context.Context, s *entity.Section) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// UpdateSection enregistre une section
func (r *UtilisateurRepository) UpdateSection(ctx context.Context, s *entity.Section) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// DeleteSection supprime une section
func (r *UtilisateurRepository) DeleteSection(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Section{}).Error
}
