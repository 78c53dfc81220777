package entity

import "time"

// ControleQualite contrôle qualité post-travaux d'une intervention (un seul par intervention)
type ControleQualite struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	DateControle       time.Time `json:"dateControle" gorm:"not null"`
	InterventionID     uint      `json:"intervention_id" gorm:"not null;uniqueIndex"`
	ResultatsEssais    string    `json:"resultatsEssais,omitempty" gorm:"type:text"`
	AnalyseVibratoire  string    `json:"analyseVibratoire,omitempty" gorm:"type:text"`
	Conformite         bool      `json:"conformite" gorm:"not null;default:false"`
	ActionsCorrectives string    `json:"actionsCorrectives,omitempty" gorm:"type:text"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relations
	Intervention *Intervention `json:"intervention,omitempty" gorm:"foreignKey:InterventionID"`
}

func (ControleQualite) TableName() string {
	return "controles_qualite"
}
