package entity

import "time"

// Maintenance fiche maintenance d'une intervention (clé = intervention_id, relation 1:1)
type Maintenance struct {
	InterventionID  uint      `json:"intervention_id" gorm:"primaryKey;autoIncrement:false"`
	TypeMaintenance string    `json:"typeMaintenance" gorm:"size:64"`
	Duree           int       `json:"duree" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Intervention *Intervention `json:"intervention,omitempty" gorm:"foreignKey:InterventionID"`
	Pieces       []Piece       `json:"pieces,omitempty" gorm:"foreignKey:MaintenanceID;references:InterventionID;constraint:OnDelete:CASCADE"`
}

func (Maintenance) TableName() string {
	return "maintenances"
}

// Piece pièce consommée par une maintenance
type Piece struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	MaintenanceID uint   `json:"maintenance_id" gorm:"not null;index"`
	Nom           string `json:"nom" gorm:"size:128;not null"`
	Quantite      int    `json:"quantite" gorm:"default:1"`
}

func (Piece) TableName() string {
	return "maintenance_pieces"
}
