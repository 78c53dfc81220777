package entity

import "time"

// Planification lot d'ordonnancement regroupant des interventions sous un
// utilisateur responsable. L'ajout d'une intervention PENDING la passe en
// PLANNED ; le retrait fait l'inverse.
type Planification struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	DateCreation      time.Time `json:"dateCreation" gorm:"not null"`
	CapaciteExecution int       `json:"capaciteExecution" gorm:"default:0"`
	UrgencePrise      bool      `json:"urgencePrise" gorm:"not null;default:false"`
	DisponibilitePDR  bool      `json:"disponibilitePDR" gorm:"not null;default:false"`
	UtilisateurID     uint      `json:"utilisateur_id" gorm:"not null;index"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relations
	Utilisateur   *Utilisateur   `json:"utilisateur,omitempty" gorm:"foreignKey:UtilisateurID"`
	Interventions []Intervention `json:"interventions,omitempty" gorm:"many2many:planification_interventions;"`
}

func (Planification) TableName() string {
	return "planifications"
}
