package entity

import "time"

// Intervention unité de travail réalisée sur une machine (maintenance ou rénovation)
type Intervention struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Date          time.Time `json:"date" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	TypeOperation string    `json:"typeOperation" gorm:"size:32;not null"` // Maintenance/Rénovation
	Statut        string    `json:"statut" gorm:"size:16;not null;default:PENDING"`
	Urgence       bool      `json:"urgence" gorm:"not null;default:false"`
	MachineID     uint      `json:"machine_id" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Machine         *Machine         `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	Diagnostic      *Diagnostic      `json:"diagnostic,omitempty" gorm:"foreignKey:InterventionID"`
	ControleQualite *ControleQualite `json:"controleQualite,omitempty" gorm:"foreignKey:InterventionID"`
	Renovation      *Renovation      `json:"renovation,omitempty" gorm:"foreignKey:InterventionID"`
	Maintenance     *Maintenance     `json:"maintenance,omitempty" gorm:"foreignKey:InterventionID"`
	Utilisateurs    []Utilisateur    `json:"utilisateurs,omitempty" gorm:"many2many:intervention_utilisateurs;"`
	Planifications  []Planification  `json:"planifications,omitempty" gorm:"many2many:planification_interventions;"`
}

func (Intervention) TableName() string {
	return "interventions"
}

// Statuts d'intervention
const (
	StatutPending    = "PENDING"
	StatutPlanned    = "PLANNED"
	StatutInProgress = "IN_PROGRESS"
	StatutCompleted  = "COMPLETED"
	StatutCancelled  = "CANCELLED"
)

// StatutsIntervention vocabulaire complet des statuts
var StatutsIntervention = []string{StatutPending, StatutPlanned, StatutInProgress, StatutCompleted, StatutCancelled}

// Types d'opération
const (
	TypeOperationMaintenance = "Maintenance"
	TypeOperationRenovation  = "Rénovation"
)

// StatutInterventionValide vérifie l'appartenance au vocabulaire
func StatutInterventionValide(statut string) bool {
	for _, s := range StatutsIntervention {
		if s == statut {
			return true
		}
	}
	return false
}
