package handler

import (
	"net/http"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupFlowTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.POST("/machines", perm("machine-create"), h.Machine.Create)
	auth.POST("/interventions", perm("intervention-create"), h.Intervention.Create)
	auth.POST("/planifications", perm("planification-create"), h.Planification.Create)
	auth.POST("/planifications/:id/interventions/:interventionId", perm("planification-edit"), h.Planification.AddIntervention)
	auth.DELETE("/planifications/:id/interventions/:interventionId", perm("planification-edit"), h.Planification.RemoveIntervention)
	auth.POST("/diagnostics", perm("diagnostic-create"), h.Diagnostic.Create)
	auth.POST("/renovations", perm("renovation-create"), h.Renovation.Create)
	auth.POST("/controles", perm("controle-create"), h.Controle.Create)
	auth.POST("/rapports", perm("rapport-create"), h.Rapport.Create)
	auth.PUT("/rapports/:id/validate", perm("rapport-validate"), h.Rapport.Validate)
	auth.POST("/gestions", perm("gestion-create"), h.Gestion.Create)
	auth.PUT("/gestions/:id/validate", perm("gestion-validate"), h.Gestion.Validate)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

// Parcours complet : machine, intervention, planification, diagnostic,
// rénovation, contrôle qualité, rapport, gestion administrative.
func TestParcoursRenovationComplet(t *testing.T) {
	env := setupFlowTest(t)
	_, token := testutil.SeedAdmin(t, env.DB)

	w := testutil.DoRequest(env.Router, "POST", "/machines", map[string]interface{}{
		"nom":    "Alternateur T3",
		"valeur": 50000.0,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("machine: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	machineID := uint(testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(float64))

	w = testutil.DoRequest(env.Router, "POST", "/interventions", map[string]interface{}{
		"typeOperation": entity.TypeOperationRenovation,
		"machine_id":    machineID,
		"description":   "rénovation complète du stator",
		"urgence":       true,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("intervention: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	itvData := testutil.ParseResponse(w)["data"].(map[string]interface{})
	itvID := uint(itvData["id"].(float64))
	if itvData["statut"] != entity.StatutPending {
		t.Fatalf("Expected PENDING, got %v", itvData["statut"])
	}

	// planification puis déplanification : PENDING -> PLANNED -> PENDING
	responsable, _ := testutil.SeedUtilisateur(t, env.DB, "responsable")
	w = testutil.DoRequest(env.Router, "POST", "/planifications", map[string]interface{}{
		"utilisateur_id": responsable.ID,
	}, token)
	planID := int(testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(float64))

	testutil.DoRequest(env.Router, "POST",
		"/planifications/"+itoa(planID)+"/interventions/"+itoa(int(itvID)), nil, token)
	if s := statutIntervention(t, env.DB, itvID); s != entity.StatutPlanned {
		t.Fatalf("Expected PLANNED, got %s", s)
	}
	testutil.DoRequest(env.Router, "DELETE",
		"/planifications/"+itoa(planID)+"/interventions/"+itoa(int(itvID)), nil, token)
	if s := statutIntervention(t, env.DB, itvID); s != entity.StatutPending {
		t.Fatalf("Expected PENDING after removal, got %s", s)
	}

	// diagnostic préalable
	w = testutil.DoRequest(env.Router, "POST", "/diagnostics", map[string]interface{}{
		"intervention_id": itvID,
		"travauxRequis":   []string{"rebobinage", "remplacement roulements"},
		"besoinsPDR":      []string{"fil émaillé 2mm"},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("diagnostic: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// créer la rénovation démarre les travaux
	w = testutil.DoRequest(env.Router, "POST", "/renovations", map[string]interface{}{
		"intervention_id": itvID,
		"objectif":        "remise à neuf",
		"cout":            8000.0,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("renovation: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if s := statutIntervention(t, env.DB, itvID); s != entity.StatutInProgress {
		t.Fatalf("Expected IN_PROGRESS, got %s", s)
	}

	// contrôle qualité post-travaux
	w = testutil.DoRequest(env.Router, "POST", "/controles", map[string]interface{}{
		"intervention_id": itvID,
		"resultatsEssais": "essais en charge conformes",
		"conformite":      true,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("controle: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// rapport puis validation : l'intervention est clôturée
	w = testutil.DoRequest(env.Router, "POST", "/rapports", map[string]interface{}{
		"renovation_id": itvID,
		"contenu":       "rénovation conforme aux essais",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("rapport: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	rapportID := int(testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(float64))

	w = testutil.DoRequest(env.Router, "PUT", "/rapports/"+itoa(rapportID)+"/validate", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if s := statutIntervention(t, env.DB, itvID); s != entity.StatutCompleted {
		t.Fatalf("Expected COMPLETED, got %s", s)
	}

	// suivi administratif jusqu'à validation
	w = testutil.DoRequest(env.Router, "POST", "/gestions", map[string]interface{}{
		"rapport_id":    rapportID,
		"commandeAchat": "CA-2026-042",
		"facturation":   "FACT-2026-314",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("gestion: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	gestionID := int(testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(float64))

	w = testutil.DoRequest(env.Router, "PUT", "/gestions/"+itoa(gestionID)+"/validate", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("gestion validate: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["validation"] != true {
		t.Errorf("Expected gestion validated, got %v", data["validation"])
	}
}
