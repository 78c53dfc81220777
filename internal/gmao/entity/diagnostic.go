package entity

import "time"

// Diagnostic évaluation préalable attachée à une intervention (une seule par intervention)
type Diagnostic struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	DateCreation   time.Time `json:"dateCreation" gorm:"not null"`
	InterventionID uint      `json:"intervention_id" gorm:"not null;uniqueIndex"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Intervention     *Intervention    `json:"intervention,omitempty" gorm:"foreignKey:InterventionID"`
	TravauxRequis    []TravailRequis  `json:"travauxRequis,omitempty" gorm:"foreignKey:DiagnosticID;constraint:OnDelete:CASCADE"`
	BesoinsPDR       []BesoinPDR      `json:"besoinsPDR,omitempty" gorm:"foreignKey:DiagnosticID;constraint:OnDelete:CASCADE"`
	ChargesRealisees []ChargeRealisee `json:"chargesRealisees,omitempty" gorm:"foreignKey:DiagnosticID;constraint:OnDelete:CASCADE"`
}

func (Diagnostic) TableName() string {
	return "diagnostics"
}

// TravailRequis ligne de travaux requis d'un diagnostic
type TravailRequis struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	DiagnosticID uint   `json:"diagnostic_id" gorm:"not null;index"`
	Description  string `json:"description" gorm:"type:text;not null"`
}

func (TravailRequis) TableName() string {
	return "diagnostic_travaux_requis"
}

// BesoinPDR ligne de besoin en pièces de rechange
type BesoinPDR struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	DiagnosticID uint   `json:"diagnostic_id" gorm:"not null;index"`
	Description  string `json:"description" gorm:"type:text;not null"`
}

func (BesoinPDR) TableName() string {
	return "diagnostic_besoins_pdr"
}

// ChargeRealisee ligne de charge réalisée
type ChargeRealisee struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	DiagnosticID uint   `json:"diagnostic_id" gorm:"not null;index"`
	Description  string `json:"description" gorm:"type:text;not null"`
}

func (ChargeRealisee) TableName() string {
	return "diagnostic_charges_realisees"
}
