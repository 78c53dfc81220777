package repository

import (
	"context"
	"errors"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// RoleRepository dépôt des rôles et permissions
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindAll liste les rôles avec leurs permissions
func (r *RoleRepository) FindAll(ctx context.Context) ([]entity.Role, error) {
	var items []entity.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("id").Find(&items).Error
	return items, err
}

// FindByID charge un rôle avec ses permissions
func (r *RoleRepository) FindByID(ctx context.Context, id uint) (*entity.Role, error) {
	var role entity.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByNom recherche un rôle par nom
func (r *RoleRepository) FindByNom(ctx context.Context, nom string) (*entity.Role, error) {
	var role entity.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Where("nom = ?", nom).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// Create crée un rôle
func (r *RoleRepository) Create(ctx context.Context, role *entity.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update enregistre un rôle (hors many2many)
func (r *RoleRepository) Update(ctx context.Context, role *entity.Role) error {
	return r.db.WithContext(ctx).Omit("Permissions").Save(role).Error
}

// Delete supprime un rôle et ses liaisons
func (r *RoleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM utilisateur_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Role{}).Error
	})
}

// ReplacePermissions remplace les permissions d'un rôle
func (r *RoleRepository) ReplacePermissions(ctx context.Context, role *entity.Role, perms []entity.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms)
}

// FindAllPermissions liste les permissions
func (r *RoleRepository) FindAllPermissions(ctx context.Context) ([]entity.Permission, error) {
	var items []entity.Permission
	err := r.db.WithContext(ctx).Order("module, action").Find(&items).Error
	return items, err
}

// FindPermissionByID charge une permission
func (r *RoleRepository) FindPermissionByID(ctx context.Context, id uint) (*entity.Permission, error) {
	var p entity.Permission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindPermissionsByIDs charge un lot de permissions
func (r *RoleRepository) FindPermissionsByIDs(ctx context.Context, ids []uint) ([]entity.Permission, error) {
	var items []entity.Permission
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// CreatePermission crée une permission
func (r *RoleRepository) CreatePermission(ctx context.Context, p *entity.Permission) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FirstOrCreatePermission retrouve ou crée une permission module/action
func (r *RoleRepository) FirstOrCreatePermission(ctx context.Context, p *entity.Permission) error {
	return r.db.WithContext(ctx).
		Where(entity.Permission{Module: p.Module, Action: p.Action}).
		FirstOrCreate(p).Error
}

// UpdatePermission enregistre une permission
func (r *RoleRepository) UpdatePermission(ctx context.Context, p *entity.Permission) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DeletePermission supprime une permission et ses liaisons
func (r *RoleRepository) DeletePermission(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Permission{}).Error
	})
}
