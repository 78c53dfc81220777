package service

import (
	"context"
	"fmt"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
)

// MachineService gestion du parc machines
type MachineService struct {
	machineRepo *repository.MachineRepository
}

func NewMachineService(machineRepo *repository.MachineRepository) *MachineService {
	return &MachineService{machineRepo: machineRepo}
}

// CreateMachineRequest création de machine
type CreateMachineRequest struct {
	Nom                string     `json:"nom" binding:"required"`
	Etat               string     `json:"etat"`
	Valeur             float64    `json:"valeur"`
	Type               string     `json:"type"`
	DateProchaineMaint *time.Time `json:"dateProchaineMaint"`
}

// UpdateMachineRequest mise à jour partielle de machine
type UpdateMachineRequest struct {
	Nom                *string    `json:"nom"`
	Etat               *string    `json:"etat"`
	Valeur             *float64   `json:"valeur"`
	Type               *string    `json:"type"`
	DateProchaineMaint *time.Time `json:"dateProchaineMaint"`
}

// List liste les machines, filtres optionnels etat/type/search
func (s *MachineService) List(ctx context.Context, filters map[string]string) ([]entity.Machine, error) {
	return s.machineRepo.FindAll(ctx, filters)
}

// Get charge une machine avec ses interventions
func (s *MachineService) Get(ctx context.Context, id uint) (*entity.Machine, error) {
	return s.machineRepo.FindByID(ctx, id)
}

// Create crée une machine, OPERATIONNEL par défaut
func (s *MachineService) Create(ctx context.Context, req *CreateMachineRequest) (*entity.Machine, error) {
	etat := req.Etat
	if etat == "" {
		etat = entity.EtatOperationnel
	}
	if !entity.EtatMachineValide(etat) {
		return nil, NewErreurChamps("état machine invalide", map[string][]string{
			"etat": {fmt.Sprintf("l'état doit être parmi %v", entity.EtatsMachine)},
		})
	}

	m := &entity.Machine{
		Nom:                req.Nom,
		Etat:               etat,
		Valeur:             req.Valeur,
		Type:               req.Type,
		DateProchaineMaint: req.DateProchaineMaint,
	}
	if err := s.machineRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("création machine: %w", err)
	}
	return m, nil
}

// Update mise à jour partielle, seuls les champs fournis changent
func (s *MachineService) Update(ctx context.Context, id uint, req *UpdateMachineRequest) (*entity.Machine, error) {
	m, err := s.machineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Etat != nil {
		if !entity.EtatMachineValide(*req.Etat) {
			return nil, NewErreurChamps("état machine invalide", map[string][]string{
				"etat": {fmt.Sprintf("l'état doit être parmi %v", entity.EtatsMachine)},
			})
		}
		m.Etat = *req.Etat
	}
	if req.Nom != nil {
		m.Nom = *req.Nom
	}
	if req.Valeur != nil {
		m.Valeur = *req.Valeur
	}
	if req.Type != nil {
		m.Type = *req.Type
	}
	if req.DateProchaineMaint != nil {
		m.DateProchaineMaint = req.DateProchaineMaint
	}
	if err := s.machineRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("mise à jour machine: %w", err)
	}
	return m, nil
}

// UpdateStatus change uniquement l'état
func (s *MachineService) UpdateStatus(ctx context.Context, id uint, etat string) (*entity.Machine, error) {
	req := &UpdateMachineRequest{Etat: &etat}
	return s.Update(ctx, id, req)
}

// Delete supprime une machine
func (s *MachineService) Delete(ctx context.Context, id uint) error {
	if _, err := s.machineRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.machineRepo.Delete(ctx, id)
}

// MaintenanceSoon machines dont l'échéance tombe dans la fenêtre
func (s *MachineService) MaintenanceSoon(ctx context.Context, fenetre time.Duration) ([]entity.Machine, error) {
	return s.machineRepo.FindMaintenanceSoon(ctx, fenetre)
}
