package entity

import "time"

// Machine machine électrique suivie par la GMAO
type Machine struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	Nom                string     `json:"nom" gorm:"size:128;not null"`
	Etat               string     `json:"etat" gorm:"size:32;not null;default:OPERATIONNEL"` // OPERATIONNEL/EN_MAINTENANCE/HORS_SERVICE
	Valeur             float64    `json:"valeur" gorm:"type:decimal(15,2);default:0"`
	Type               string     `json:"type,omitempty" gorm:"size:64"`
	DateProchaineMaint *time.Time `json:"dateProchaineMaint,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relations
	Interventions []Intervention `json:"interventions,omitempty" gorm:"foreignKey:MachineID"`
}

func (Machine) TableName() string {
	return "machines"
}

// États machine
const (
	EtatOperationnel  = "OPERATIONNEL"
	EtatEnMaintenance = "EN_MAINTENANCE"
	EtatHorsService   = "HORS_SERVICE"
)

// EtatsMachine vocabulaire des états machine
var EtatsMachine = []string{EtatOperationnel, EtatEnMaintenance, EtatHorsService}

// EtatMachineValide vérifie l'appartenance au vocabulaire
func EtatMachineValide(etat string) bool {
	for _, e := range EtatsMachine {
		if e == etat {
			return true
		}
	}
	return false
}
