package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"gorm.io/gorm"
)

// UtilisateurService comptes, sections et affectation de rôles
type UtilisateurService struct {
	db              *gorm.DB
	utilisateurRepo *repository.UtilisateurRepository
	roleRepo        *repository.RoleRepository
	auth            *AuthService
}

func NewUtilisateurService(db *gorm.DB, utilisateurRepo *repository.UtilisateurRepository, roleRepo *repository.RoleRepository, auth *AuthService) *UtilisateurService {
	return &UtilisateurService{
		db:              db,
		utilisateurRepo: utilisateurRepo,
		roleRepo:        roleRepo,
		auth:            auth,
	}
}

// CreateUtilisateurRequest création de compte
type CreateUtilisateurRequest struct {
	Nom       string `json:"nom" binding:"required"`
	Password  string `json:"password" binding:"required"`
	SectionID *uint  `json:"section_id"`
	RoleIDs   []uint `json:"role_ids"`
}

// UpdateUtilisateurRequest mise à jour partielle
type UpdateUtilisateurRequest struct {
	Nom       *string `json:"nom"`
	Password  *string `json:"password"`
	SectionID *uint   `json:"section_id"`
	RoleIDs   []uint  `json:"role_ids"`
}

// SectionRequest création ou mise à jour de section
type SectionRequest struct {
	Nom string `json:"nom" binding:"required"`
}

// List liste les utilisateurs
func (s *UtilisateurService) List(ctx context.Context) ([]entity.Utilisateur, error) {
	return s.utilisateurRepo.FindAll(ctx)
}

// Get charge un utilisateur avec rôles et permissions
func (s *UtilisateurService) Get(ctx context.Context, id uint) (*entity.Utilisateur, error) {
	u, err := s.utilisateurRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PermissionCles = clesPermissions(PermissionsUtilisateur(u))
	return u, nil
}

// Create crée un compte, mot de passe condensé en bcrypt
func (s *UtilisateurService) Create(ctx context.Context, req *CreateUtilisateurRequest) (*entity.Utilisateur, error) {
	if _, err := s.utilisateurRepo.FindByNom(ctx, req.Nom); err == nil {
		return nil, NewErreurChamps("nom déjà utilisé", map[string][]string{
			"nom": {"un utilisateur porte déjà ce nom"},
		})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("condensat mot de passe: %w", err)
	}

	// lectures avant la transaction: elle peut détenir la seule connexion du pool
	roles, err := s.chargerRoles(ctx, req.RoleIDs)
	if err != nil {
		return nil, err
	}

	u := &entity.Utilisateur{
		Nom:       req.Nom,
		Password:  hash,
		SectionID: req.SectionID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("création utilisateur: %w", err)
		}
		if len(roles) > 0 {
			if err := tx.Model(u).Association("Roles").Replace(roles); err != nil {
				return fmt.Errorf("affectation rôles: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, u.ID)
}

// Update mise à jour partielle; un password fourni est recondensé
func (s *UtilisateurService) Update(ctx context.Context, id uint, req *UpdateUtilisateurRequest) (*entity.Utilisateur, error) {
	u, err := s.utilisateurRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nom != nil && *req.Nom != u.Nom {
		if _, err := s.utilisateurRepo.FindByNom(ctx, *req.Nom); err == nil {
			return nil, NewErreurChamps("nom déjà utilisé", map[string][]string{
				"nom": {"un utilisateur porte déjà ce nom"},
			})
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		u.Nom = *req.Nom
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("condensat mot de passe: %w", err)
		}
		u.Password = hash
	}
	if req.SectionID != nil {
		u.SectionID = req.SectionID
	}

	var roles []entity.Role
	if req.RoleIDs != nil {
		roles, err = s.chargerRoles(ctx, req.RoleIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Section", "Roles", "Planifications", "Prestataires").Save(u).Error; err != nil {
			return fmt.Errorf("mise à jour utilisateur: %w", err)
		}
		if req.RoleIDs != nil {
			if err := tx.Model(u).Association("Roles").Replace(roles); err != nil {
				return fmt.Errorf("affectation rôles: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if req.RoleIDs != nil {
		s.auth.InvaliderCacheUtilisateur(ctx, u)
	}
	return s.Get(ctx, id)
}

// Delete supprime un compte et ses liaisons
func (s *UtilisateurService) Delete(ctx context.Context, id uint) error {
	if _, err := s.utilisateurRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM utilisateur_roles WHERE utilisateur_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM intervention_utilisateurs WHERE utilisateur_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM gestion_utilisateurs WHERE utilisateur_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM prestataire_utilisateurs WHERE utilisateur_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Utilisateur{}).Error
	})
}

// Permissions clés de permission effectives d'un utilisateur
func (s *UtilisateurService) Permissions(ctx context.Context, id uint) ([]string, error) {
	u, err := s.utilisateurRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return clesPermissions(PermissionsUtilisateur(u)), nil
}

// Roles rôles d'un utilisateur
func (s *UtilisateurService) Roles(ctx context.Context, id uint) ([]entity.Role, error) {
	u, err := s.utilisateurRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Roles, nil
}

// ReplaceRoles remplace l'affectation des rôles
func (s *UtilisateurService) ReplaceRoles(ctx context.Context, id uint, roleIDs []uint) (*entity.Utilisateur, error) {
	u, err := s.utilisateurRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.chargerRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if err := s.utilisateurRepo.ReplaceRoles(ctx, u, roles); err != nil {
		return nil, fmt.Errorf("affectation rôles: %w", err)
	}
	s.auth.InvaliderCacheUtilisateur(ctx, u)
	return s.Get(ctx, id)
}

// ListSections liste les sections
func (s *UtilisateurService) ListSections(ctx context.Context) ([]entity.Section, error) {
	return s.utilisateurRepo.FindAllSections(ctx)
}

// GetSection charge une section
func (s *UtilisateurService) GetSection(ctx context.Context, id uint) (*entity.Section, error) {
	return s.utilisateurRepo.FindSectionByID(ctx, id)
}

// CreateSection crée une section
func (s *UtilisateurService) CreateSection(ctx context.Context, req *SectionRequest) (*entity.Section, error) {
	sec := &entity.Section{Nom: req.Nom}
	if err := s.utilisateurRepo.CreateSection(ctx, sec); err != nil {
		return nil, fmt.Errorf("création section: %w", err)
	}
	return sec, nil
}

// UpdateSection renomme une section
func (s *UtilisateurService) UpdateSection(ctx context.Context, id uint, req *SectionRequest) (*entity.Section, error) {
	sec, err := s.utilisateurRepo.FindSectionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sec.Nom = req.Nom
	if err := s.utilisateurRepo.UpdateSection(ctx, sec); err != nil {
		return nil, fmt.Errorf("mise à jour section: %w", err)
	}
	return sec, nil
}

// DeleteSection supprime une section, les utilisateurs sont détachés
func (s *UtilisateurService) DeleteSection(ctx context.Context, id uint) error {
	if _, err := s.utilisateurRepo.FindSectionByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Utilisateur{}).
			Where("section_id = ?", id).
			Update("section_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Section{}).Error
	})
}

func (s *UtilisateurService) chargerRoles(ctx context.Context, ids []uint) ([]entity.Role, error) {
	roles := make([]entity.Role, 0, len(ids))
	for _, rid := range ids {
		r, err := s.roleRepo.FindByID(ctx, rid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("rôle inconnu", map[string][]string{
					"role_ids": {libelleIntrouvable("rôle", rid)},
				})
			}
			return nil, err
		}
		roles = append(roles, *r)
	}
	return roles, nil
}
