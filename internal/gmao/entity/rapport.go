package entity

import "time"

// Rapport rapport de fin de travaux, rattaché à une rénovation, une maintenance
// ou un prestataire externe. La validation est un verrou à sens unique : un
// rapport validé devient immuable et clôture son intervention.
type Rapport struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	DateCreation  time.Time `json:"dateCreation" gorm:"not null"`
	Contenu       string    `json:"contenu" gorm:"type:text"`
	Validation    bool      `json:"validation" gorm:"not null;default:false"`
	RenovationID  *uint     `json:"renovation_id,omitempty" gorm:"uniqueIndex"`
	MaintenanceID *uint     `json:"maintenance_id,omitempty" gorm:"uniqueIndex"`
	PrestataireID *uint     `json:"prestataire_id,omitempty" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Renovation  *Renovation         `json:"renovation,omitempty" gorm:"foreignKey:RenovationID;references:InterventionID"`
	Maintenance *Maintenance        `json:"maintenance,omitempty" gorm:"foreignKey:MaintenanceID;references:InterventionID"`
	Prestataire *PrestataireExterne `json:"prestataire,omitempty" gorm:"foreignKey:PrestataireID"`
	Documents   []RapportDocument   `json:"documents,omitempty" gorm:"foreignKey:RapportID;constraint:OnDelete:CASCADE"`
}

func (Rapport) TableName() string {
	return "rapports"
}

// RapportDocument pièce jointe d'un rapport stockée dans MinIO
type RapportDocument struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RapportID   uint      `json:"rapport_id" gorm:"not null;index"`
	Nom         string    `json:"nom" gorm:"size:256;not null"`
	ObjectKey   string    `json:"object_key" gorm:"size:512;not null"`
	Taille      int64     `json:"taille"`
	ContentType string    `json:"content_type" gorm:"size:128"`
	CreatedAt   time.Time `json:"created_at"`
}

func (RapportDocument) TableName() string {
	return "rapport_documents"
}
