package handler

import (
	"strconv"
	"testing"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

func itoa(id int) string {
	return strconv.Itoa(id)
}

func seedMachine(t *testing.T, db *gorm.DB, nom string) *entity.Machine {
	t.Helper()
	m := &entity.Machine{Nom: nom, Etat: entity.EtatOperationnel}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to seed machine: %v", err)
	}
	return m
}

func seedIntervention(t *testing.T, db *gorm.DB, machineID uint, typeOperation, statut string, urgence bool) *entity.Intervention {
	t.Helper()
	itv := &entity.Intervention{
		Date:          time.Now(),
		Description:   "intervention de test",
		TypeOperation: typeOperation,
		Statut:        statut,
		Urgence:       urgence,
		MachineID:     machineID,
	}
	if err := db.Create(itv).Error; err != nil {
		t.Fatalf("Failed to seed intervention: %v", err)
	}
	return itv
}

func statutIntervention(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var itv entity.Intervention
	if err := db.First(&itv, id).Error; err != nil {
		t.Fatalf("Failed to reload intervention %d: %v", id, err)
	}
	return itv.Statut
}
