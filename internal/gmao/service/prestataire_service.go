package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
)

// PrestataireService prestataires externes
type PrestataireService struct {
	prestataireRepo *repository.PrestataireRepository
	rapportRepo     *repository.RapportRepository
	utilisateurRepo *repository.UtilisateurRepository
}

func NewPrestataireService(prestataireRepo *repository.PrestataireRepository, rapportRepo *repository.RapportRepository, utilisateurRepo *repository.UtilisateurRepository) *PrestataireService {
	return &PrestataireService{
		prestataireRepo: prestataireRepo,
		rapportRepo:     rapportRepo,
		utilisateurRepo: utilisateurRepo,
	}
}

// CreatePrestataireRequest création de prestataire
type CreatePrestataireRequest struct {
	Nom            string `json:"nom" binding:"required"`
	Contrat        string `json:"contrat"`
	UtilisateurIDs []uint `json:"utilisateur_ids"`
}

// UpdatePrestataireRequest mise à jour partielle
type UpdatePrestataireRequest struct {
	Nom            *string `json:"nom"`
	Contrat        *string `json:"contrat"`
	UtilisateurIDs []uint  `json:"utilisateur_ids"`
}

// List liste les prestataires
func (s *PrestataireService) List(ctx context.Context) ([]entity.PrestataireExterne, error) {
	return s.prestataireRepo.FindAll(ctx)
}

// Get charge un prestataire
func (s *PrestataireService) Get(ctx context.Context, id uint) (*entity.PrestataireExterne, error) {
	return s.prestataireRepo.FindByID(ctx, id)
}

// Rapports rapports produits par un prestataire
func (s *PrestataireService) Rapports(ctx context.Context, id uint) ([]entity.Rapport, error) {
	if _, err := s.prestataireRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.rapportRepo.FindByPrestataire(ctx, id)
}

// Create crée un prestataire et rattache les intervenants
func (s *PrestataireService) Create(ctx context.Context, req *CreatePrestataireRequest) (*entity.PrestataireExterne, error) {
	p := &entity.PrestataireExterne{Nom: req.Nom, Contrat: req.Contrat}
	if err := s.prestataireRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("création prestataire: %w", err)
	}
	if len(req.UtilisateurIDs) > 0 {
		users, err := s.chargerUtilisateurs(ctx, req.UtilisateurIDs)
		if err != nil {
			return nil, err
		}
		if err := s.prestataireRepo.ReplaceUtilisateurs(ctx, p, users); err != nil {
			return nil, fmt.Errorf("rattachement intervenants: %w", err)
		}
	}
	return s.prestataireRepo.FindByID(ctx, p.ID)
}

// Update mise à jour partielle
func (s *PrestataireService) Update(ctx context.Context, id uint, req *UpdatePrestataireRequest) (*entity.PrestataireExterne, error) {
	p, err := s.prestataireRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nom != nil {
		p.Nom = *req.Nom
	}
	if req.Contrat != nil {
		p.Contrat = *req.Contrat
	}
	if err := s.prestataireRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("mise à jour prestataire: %w", err)
	}
	if req.UtilisateurIDs != nil {
		users, err := s.chargerUtilisateurs(ctx, req.UtilisateurIDs)
		if err != nil {
			return nil, err
		}
		if err := s.prestataireRepo.ReplaceUtilisateurs(ctx, p, users); err != nil {
			return nil, fmt.Errorf("rattachement intervenants: %w", err)
		}
	}
	return s.prestataireRepo.FindByID(ctx, id)
}

// Delete supprime un prestataire; ses rapports restent, détachés
func (s *PrestataireService) Delete(ctx context.Context, id uint) error {
	if _, err := s.prestataireRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.prestataireRepo.Delete(ctx, id)
}

func (s *PrestataireService) chargerUtilisateurs(ctx context.Context, ids []uint) ([]entity.Utilisateur, error) {
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
