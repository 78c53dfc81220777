package entity

import "time"

// GestionAdministrative suivi administratif et facturation d'un rapport validé
// (une seule gestion par rapport, création refusée tant que le rapport n'est
// pas validé)
type GestionAdministrative struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CommandeAchat string    `json:"commandeAchat,omitempty" gorm:"size:256"`
	Facturation   string    `json:"facturation,omitempty" gorm:"size:256"`
	Validation    bool      `json:"validation" gorm:"not null;default:false"`
	RapportID     uint      `json:"rapport_id" gorm:"not null;uniqueIndex"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Rapport      *Rapport      `json:"rapport,omitempty" gorm:"foreignKey:RapportID"`
	Utilisateurs []Utilisateur `json:"utilisateurs,omitempty" gorm:"many2many:gestion_utilisateurs;"`
}

func (GestionAdministrative) TableName() string {
	return "gestions_administratives"
}
