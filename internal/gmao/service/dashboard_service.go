package service

import (
	"context"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"gorm.io/gorm"
)

// DashboardService agrégats en lecture seule pour le tableau de bord
type DashboardService struct {
	db               *gorm.DB
	machineRepo      *repository.MachineRepository
	interventionRepo *repository.InterventionRepository
}

func NewDashboardService(db *gorm.DB, machineRepo *repository.MachineRepository, interventionRepo *repository.InterventionRepository) *DashboardService {
	return &DashboardService{
		db:               db,
		machineRepo:      machineRepo,
		interventionRepo: interventionRepo,
	}
}

// Statistics agrégats généraux
type Statistics struct {
	MachinesParEtat           map[string]int64 `json:"machinesParEtat"`
	InterventionsParStatut    map[string]int64 `json:"interventionsParStatut"`
	InterventionsParType      map[string]int64 `json:"interventionsParType"`
	InterventionsUrgentes     int64            `json:"interventionsUrgentes"`
	CoutTotalRenovations      float64          `json:"coutTotalRenovations"`
	MachinesMaintenanceProche int64            `json:"machinesMaintenanceProche"`
	TotalMachines             int64            `json:"totalMachines"`
	TotalInterventions        int64            `json:"totalInterventions"`
}

type groupeCompte struct {
	Cle    string `gorm:"column:cle"`
	Compte int64  `gorm:"column:compte"`
}

// Statistics calcule les agrégats du tableau de bord
func (s *DashboardService) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{
		MachinesParEtat:        map[string]int64{},
		InterventionsParStatut: map[string]int64{},
		InterventionsParType:   map[string]int64{},
	}

	var groupes []groupeCompte
	if err := s.db.WithContext(ctx).Model(&entity.Machine{}).
		Select("etat AS cle, COUNT(*) AS compte").
		Group("etat").Scan(&groupes).Error; err != nil {
		return nil, err
	}
	for _, g := range groupes {
		stats.MachinesParEtat[g.Cle] = g.Compte
		stats.TotalMachines += g.Compte
	}

	groupes = groupes[:0]
	if err := s.db.WithContext(ctx).Model(&entity.Intervention{}).
		Select("statut AS cle, COUNT(*) AS compte").
		Group("statut").Scan(&groupes).Error; err != nil {
		return nil, err
	}
	for _, g := range groupes {
		stats.InterventionsParStatut[g.Cle] = g.Compte
		stats.TotalInterventions += g.Compte
	}

	groupes = groupes[:0]
	if err := s.db.WithContext(ctx).Model(&entity.Intervention{}).
		Select("type_operation AS cle, COUNT(*) AS compte").
		Group("type_operation").Scan(&groupes).Error; err != nil {
		return nil, err
	}
	for _, g := range groupes {
		stats.InterventionsParType[g.Cle] = g.Compte
	}

	if err := s.db.WithContext(ctx).Model(&entity.Intervention{}).
		Where("urgence = ? AND statut <> ?", true, entity.StatutCompleted).
		Count(&stats.InterventionsUrgentes).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&entity.Renovation{}).
		Select("COALESCE(SUM(cout), 0)").
		Scan(&stats.CoutTotalRenovations).Error; err != nil {
		return nil, err
	}

	maintenant := time.Now()
	if err := s.db.WithContext(ctx).Model(&entity.Machine{}).
		Where("date_prochaine_maint BETWEEN ? AND ?", maintenant, maintenant.AddDate(0, 1, 0)).
		Count(&stats.MachinesMaintenanceProche).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// UrgentInterventions interventions urgentes non terminées
func (s *DashboardService) UrgentInterventions(ctx context.Context) ([]entity.Intervention, error) {
	return s.interventionRepo.FindUrgent(ctx)
}

// UpcomingMaintenance machines à échéance dans le mois
func (s *DashboardService) UpcomingMaintenance(ctx context.Context) ([]entity.Machine, error) {
	return s.machineRepo.FindMaintenanceSoon(ctx, 30*24*time.Hour)
}

// RecentActivities dernières interventions mises à jour
func (s *DashboardService) RecentActivities(ctx context.Context, limite int) ([]entity.Intervention, error) {
	if limite <= 0 {
		limite = 10
	}
	var items []entity.Intervention
	err := s.db.WithContext(ctx).
		Preload("Machine").
		Order("updated_at DESC").
		Limit(limite).
		Find(&items).Error
	return items, err
}
