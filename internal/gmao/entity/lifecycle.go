package entity

// EvenementIntervention événement du cycle de vie d'une intervention
type EvenementIntervention string

// Événements du cycle de vie
const (
	EvenementPlanifier       EvenementIntervention = "planifier"        // ajout à une planification
	EvenementDeplanifier     EvenementIntervention = "deplanifier"      // retrait d'une planification
	EvenementDemarrerTravaux EvenementIntervention = "demarrer_travaux" // création de la fiche rénovation
	EvenementTerminer        EvenementIntervention = "terminer"         // rapport validé ou rénovation clôturée
)

// TransitionsIntervention table explicite des transitions autorisées :
// statut courant → événement → nouveau statut. COMPLETED est terminal.
// CANCELLED n'a aucune transition entrante ici (état posé de l'extérieur).
var TransitionsIntervention = map[string]map[EvenementIntervention]string{
	StatutPending: {
		EvenementPlanifier:       StatutPlanned,
		EvenementDemarrerTravaux: StatutInProgress,
		EvenementTerminer:        StatutCompleted,
	},
	StatutPlanned: {
		EvenementDeplanifier: StatutPending,
		EvenementTerminer:    StatutCompleted,
	},
	StatutInProgress: {
		EvenementTerminer: StatutCompleted,
	},
	StatutCancelled: {
		EvenementTerminer: StatutCompleted,
	},
}

// ProchainStatut résout le statut cible pour (statut, événement).
// Retourne false si la transition n'est pas autorisée.
func ProchainStatut(statut string, evt EvenementIntervention) (string, bool) {
	cibles, ok := TransitionsIntervention[statut]
	if !ok {
		return "", false
	}
	next, ok := cibles[evt]
	return next, ok
}
