package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"gorm.io/gorm"
)

// ModulesCRUD modules couverts par la génération automatique des permissions
var ModulesCRUD = []string{
	"machine", "intervention", "diagnostic", "maintenance", "renovation",
	"rapport", "controle", "planification", "utilisateur", "section",
	"role", "permission", "prestataire", "gestion", "dashboard",
}

// RoleService rôles et registre de permissions
type RoleService struct {
	db       *gorm.DB
	roleRepo *repository.RoleRepository
	auth     *AuthService
}

func NewRoleService(db *gorm.DB, roleRepo *repository.RoleRepository, auth *AuthService) *RoleService {
	return &RoleService{db: db, roleRepo: roleRepo, auth: auth}
}

// RoleRequest création ou mise à jour de rôle
type RoleRequest struct {
	Nom           string `json:"nom" binding:"required"`
	PermissionIDs []uint `json:"permission_ids"`
}

// PermissionRequest création ou mise à jour de permission
type PermissionRequest struct {
	Module      string `json:"module" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Description string `json:"description"`
}

// List liste les rôles
func (s *RoleService) List(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.FindAll(ctx)
}

// Get charge un rôle
func (s *RoleService) Get(ctx context.Context, id uint) (*entity.Role, error) {
	return s.roleRepo.FindByID(ctx, id)
}

// Create crée un rôle, nom unique
func (s *RoleService) Create(ctx context.Context, req *RoleRequest) (*entity.Role, error) {
	if _, err := s.roleRepo.FindByNom(ctx, req.Nom); err == nil {
		return nil, NewErreurChamps("nom déjà utilisé", map[string][]string{
			"nom": {"un rôle porte déjà ce nom"},
		})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// lectures avant la transaction: elle peut détenir la seule connexion du pool
	perms, err := s.chargerPermissions(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role := &entity.Role{Nom: req.Nom}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return fmt.Errorf("création rôle: %w", err)
		}
		if len(perms) > 0 {
			if err := tx.Model(role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("affectation permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.roleRepo.FindByID(ctx, role.ID)
}

// Update renomme et remplace les permissions si fournies
func (s *RoleService) Update(ctx context.Context, id uint, req *RoleRequest) (*entity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nom != role.Nom {
		if _, err := s.roleRepo.FindByNom(ctx, req.Nom); err == nil {
			return nil, NewErreurChamps("nom déjà utilisé", map[string][]string{
				"nom": {"un rôle porte déjà ce nom"},
			})
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		role.Nom = req.Nom
	}

	var perms []entity.Permission
	if req.PermissionIDs != nil {
		perms, err = s.chargerPermissions(ctx, req.PermissionIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Save(role).Error; err != nil {
			return fmt.Errorf("mise à jour rôle: %w", err)
		}
		if req.PermissionIDs != nil {
			if err := tx.Model(role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("affectation permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if req.PermissionIDs != nil {
		s.auth.InvaliderCacheRole(ctx, role.ID)
	}
	return s.roleRepo.FindByID(ctx, id)
}

// Delete supprime un rôle, les caches de ses porteurs sont purgés avant
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.roleRepo.FindByID(ctx, id); err != nil {
		return err
	}
	s.auth.InvaliderCacheRole(ctx, id)
	return s.roleRepo.Delete(ctx, id)
}

// ReplacePermissions remplace les permissions d'un rôle
func (s *RoleService) ReplacePermissions(ctx context.Context, id uint, permissionIDs []uint) (*entity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	perms, err := s.chargerPermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, fmt.Errorf("affectation permissions: %w", err)
	}
	s.auth.InvaliderCacheRole(ctx, role.ID)
	return s.roleRepo.FindByID(ctx, id)
}

// ListPermissions liste les permissions du registre
func (s *RoleService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	return s.roleRepo.FindAllPermissions(ctx)
}

// GetPermission charge une permission
func (s *RoleService) GetPermission(ctx context.Context, id uint) (*entity.Permission, error) {
	return s.roleRepo.FindPermissionByID(ctx, id)
}

// CreatePermission crée une permission, couple module/action unique
func (s *RoleService) CreatePermission(ctx context.Context, req *PermissionRequest) (*entity.Permission, error) {
	p := &entity.Permission{Module: req.Module, Action: req.Action, Description: req.Description}
	if err := s.roleRepo.FirstOrCreatePermission(ctx, p); err != nil {
		return nil, fmt.Errorf("création permission: %w", err)
	}
	if req.Description != "" && p.Description != req.Description {
		p.Description = req.Description
		if err := s.roleRepo.UpdatePermission(ctx, p); err != nil {
			return nil, fmt.Errorf("mise à jour permission: %w", err)
		}
	}
	return p, nil
}

// UpdatePermission met à jour une permission
func (s *RoleService) UpdatePermission(ctx context.Context, id uint, req *PermissionRequest) (*entity.Permission, error) {
	p, err := s.roleRepo.FindPermissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Module = req.Module
	p.Action = req.Action
	p.Description = req.Description
	if err := s.roleRepo.UpdatePermission(ctx, p); err != nil {
		return nil, fmt.Errorf("mise à jour permission: %w", err)
	}
	s.auth.InvaliderCachePermission(ctx, p.ID)
	return p, nil
}

// DeletePermission supprime une permission, caches des porteurs purgés avant
func (s *RoleService) DeletePermission(ctx context.Context, id uint) error {
	if _, err := s.roleRepo.FindPermissionByID(ctx, id); err != nil {
		return err
	}
	s.auth.InvaliderCachePermission(ctx, id)
	return s.roleRepo.DeletePermission(ctx, id)
}

// GenerateCRUD provisionne les permissions CRUD de tous les modules,
// idempotent: les couples existants sont conservés.
func (s *RoleService) GenerateCRUD(ctx context.Context) ([]entity.Permission, error) {
	var created []entity.Permission
	for _, module := range ModulesCRUD {
		for _, action := range entity.ActionsCRUD {
			p := entity.Permission{
				Module:      module,
				Action:      action,
				Description: fmt.Sprintf("%s %s", action, module),
			}
			if err := s.roleRepo.FirstOrCreatePermission(ctx, &p); err != nil {
				return nil, fmt.Errorf("génération permission %s-%s: %w", module, action, err)
			}
			created = append(created, p)
		}
	}
	return created, nil
}

func (s *RoleService) chargerPermissions(ctx context.Context, ids []uint) ([]entity.Permission, error) {
	perms, err := s.roleRepo.FindPermissionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(ids) {
		return nil, NewErreurChamps("permission inconnue", map[string][]string{
			"permission_ids": {"au moins une permission demandée n'existe pas"},
		})
	}
	return perms, nil
}
