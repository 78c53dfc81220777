package entity

import "time"

// Renovation fiche rénovation d'une intervention (clé = intervention_id, relation 1:1)
type Renovation struct {
	InterventionID   uint      `json:"intervention_id" gorm:"primaryKey;autoIncrement:false"`
	DisponibilitePDR bool      `json:"disponibilitePDR" gorm:"not null;default:false"`
	Objectif         string    `json:"objectif" gorm:"type:text"`
	Cout             float64   `json:"cout" gorm:"type:decimal(15,2);default:0"`
	DureeEstimee     int       `json:"dureeEstimee" gorm:"default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Intervention *Intervention `json:"intervention,omitempty" gorm:"foreignKey:InterventionID"`
}

func (Renovation) TableName() string {
	return "renovations"
}
