package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"gorm.io/gorm"
)

// GestionService suivi administratif des rapports validés
type GestionService struct {
	db              *gorm.DB
	gestionRepo     *repository.GestionRepository
	rapportRepo     *repository.RapportRepository
	utilisateurRepo *repository.UtilisateurRepository
}

func NewGestionService(db *gorm.DB, gestionRepo *repository.GestionRepository, rapportRepo *repository.RapportRepository, utilisateurRepo *repository.UtilisateurRepository) *GestionService {
	return &GestionService{
		db:              db,
		gestionRepo:     gestionRepo,
		rapportRepo:     rapportRepo,
		utilisateurRepo: utilisateurRepo,
	}
}

// CreateGestionRequest création de gestion administrative
type CreateGestionRequest struct {
	CommandeAchat  string `json:"commandeAchat"`
	Facturation    string `json:"facturation"`
	RapportID      uint   `json:"rapport_id" binding:"required"`
	UtilisateurIDs []uint `json:"utilisateur_ids"`
}

// UpdateGestionRequest mise à jour partielle
type UpdateGestionRequest struct {
	CommandeAchat  *string `json:"commandeAchat"`
	Facturation    *string `json:"facturation"`
	UtilisateurIDs []uint  `json:"utilisateur_ids"`
}

// List liste les gestions
func (s *GestionService) List(ctx context.Context) ([]entity.GestionAdministrative, error) {
	return s.gestionRepo.FindAll(ctx)
}

// Get charge une gestion
func (s *GestionService) Get(ctx context.Context, id uint) (*entity.GestionAdministrative, error) {
	return s.gestionRepo.FindByID(ctx, id)
}

// Create exige un rapport validé, une seule gestion par rapport
func (s *GestionService) Create(ctx context.Context, req *CreateGestionRequest) (*entity.GestionAdministrative, error) {
	rapport, err := s.rapportRepo.FindByID(ctx, req.RapportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErreurChamps("rapport inconnu", map[string][]string{
				"rapport_id": {libelleIntrouvable("rapport", req.RapportID)},
			})
		}
		return nil, err
	}
	if !rapport.Validation {
		return nil, NewErreurChamps("rapport non validé", map[string][]string{
			"rapport_id": {"le rapport doit être validé avant son suivi administratif"},
		})
	}

	existante, err := s.gestionRepo.FindByRapport(ctx, req.RapportID)
	if err != nil {
		return nil, err
	}
	if existante != nil {
		return nil, &ErreurValidation{
			Message: "ce rapport a déjà une gestion administrative",
			Donnees: existante,
		}
	}

	// lectures avant la transaction: elle peut détenir la seule connexion du pool
	users, err := s.chargerUtilisateurs(ctx, req.UtilisateurIDs)
	if err != nil {
		return nil, err
	}

	g := &entity.GestionAdministrative{
		CommandeAchat: req.CommandeAchat,
		Facturation:   req.Facturation,
		RapportID:     req.RapportID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return fmt.Errorf("création gestion: %w", err)
		}
		if len(users) > 0 {
			if err := tx.Model(g).Association("Utilisateurs").Replace(users); err != nil {
				return fmt.Errorf("affectation gestionnaires: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.gestionRepo.FindByID(ctx, g.ID)
}

// Update interdit une fois la gestion validée
func (s *GestionService) Update(ctx context.Context, id uint, req *UpdateGestionRequest) (*entity.GestionAdministrative, error) {
	g, err := s.gestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Validation {
		return nil, NewErreurValidation("une gestion validée ne peut plus être modifiée")
	}
	if req.CommandeAchat != nil {
		g.CommandeAchat = *req.CommandeAchat
	}
	if req.Facturation != nil {
		g.Facturation = *req.Facturation
	}

	var users []entity.Utilisateur
	if req.UtilisateurIDs != nil {
		users, err = s.chargerUtilisateurs(ctx, req.UtilisateurIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Rapport", "Utilisateurs").Save(g).Error; err != nil {
			return fmt.Errorf("mise à jour gestion: %w", err)
		}
		if req.UtilisateurIDs != nil {
			if err := tx.Model(g).Association("Utilisateurs").Replace(users); err != nil {
				return fmt.Errorf("affectation gestionnaires: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.gestionRepo.FindByID(ctx, id)
}

// Validate verrou à sens unique, exige commande d'achat et facturation renseignées
func (s *GestionService) Validate(ctx context.Context, id uint) (*entity.GestionAdministrative, error) {
	g, err := s.gestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Validation {
		return nil, NewErreurValidation("cette gestion est déjà validée")
	}
	champs := map[string][]string{}
	if g.CommandeAchat == "" {
		champs["commandeAchat"] = []string{"la commande d'achat est requise avant validation"}
	}
	if g.Facturation == "" {
		champs["facturation"] = []string{"la facturation est requise avant validation"}
	}
	if len(champs) > 0 {
		return nil, NewErreurChamps("gestion incomplète", champs)
	}

	if err := s.db.WithContext(ctx).Model(&entity.GestionAdministrative{}).
		Where("id = ?", g.ID).
		Update("validation", true).Error; err != nil {
		return nil, fmt.Errorf("validation gestion: %w", err)
	}
	return s.gestionRepo.FindByID(ctx, id)
}

// ReplaceUsers remplace les gestionnaires affectés
func (s *GestionService) ReplaceUsers(ctx context.Context, id uint, utilisateurIDs []uint) (*entity.GestionAdministrative, error) {
	g, err := s.gestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.chargerUtilisateurs(ctx, utilisateurIDs)
	if err != nil {
		return nil, err
	}
	if err := s.gestionRepo.ReplaceUtilisateurs(ctx, g, users); err != nil {
		return nil, fmt.Errorf("affectation gestionnaires: %w", err)
	}
	return s.gestionRepo.FindByID(ctx, id)
}

// Delete interdit une fois la gestion validée
func (s *GestionService) Delete(ctx context.Context, id uint) error {
	g, err := s.gestionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if g.Validation {
		return NewErreurValidation("une gestion validée ne peut plus être supprimée")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM gestion_utilisateurs WHERE gestion_administrative_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.GestionAdministrative{}).Error
	})
}

func (s *GestionService) chargerUtilisateurs(ctx context.Context, ids []uint) ([]entity.Utilisateur, error) {
	users := make([]entity.Utilisateur, 0, len(ids))
	for _, uid := range ids {
		u, err := s.utilisateurRepo.FindByID(ctx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NewErreurChamps("utilisateur inconnu", map[string][]string{
					"utilisateur_ids": {libelleIntrouvable("utilisateur", uid)},
				})
			}
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}
