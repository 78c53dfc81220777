package service

import (
	"fmt"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"gorm.io/gorm"
)

// LifecycleService applique les transitions de statut des interventions.
// Toute écriture de statut passe par ici, jamais par un Save direct.
type LifecycleService struct{}

func NewLifecycleService() *LifecycleService {
	return &LifecycleService{}
}

// Appliquer fait avancer l'intervention selon l'événement, dans la
// transaction fournie. Transition inconnue => ErreurValidation.
func (s *LifecycleService) Appliquer(tx *gorm.DB, itv *entity.Intervention, evt entity.EvenementIntervention) error {
	suivant, ok := entity.ProchainStatut(itv.Statut, evt)
	if !ok {
		return NewErreurValidation(fmt.Sprintf("transition %s impossible depuis le statut %s", evt, itv.Statut))
	}
	if err := tx.Model(&entity.Intervention{}).
		Where("id = ?", itv.ID).
		Update("statut", suivant).Error; err != nil {
		return fmt.Errorf("mise à jour statut: %w", err)
	}
	itv.Statut = suivant
	return nil
}

// Terminer force l'intervention en COMPLETED, no-op si elle y est déjà
func (s *LifecycleService) Terminer(tx *gorm.DB, itv *entity.Intervention) error {
	if itv.Statut == entity.StatutCompleted {
		return nil
	}
	return s.Appliquer(tx, itv, entity.EvenementTerminer)
}

// AppliquerSiStatut n'applique l'événement que si l'intervention est
// exactement dans le statut attendu; sinon no-op. Sert aux effets de
// bord de la planification, qui ne doivent jamais régresser un statut.
func (s *LifecycleService) AppliquerSiStatut(tx *gorm.DB, itv *entity.Intervention, attendu string, evt entity.EvenementIntervention) error {
	if itv.Statut != attendu {
		return nil
	}
	return s.Appliquer(tx, itv, evt)
}
