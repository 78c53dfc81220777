package handler

import (
	"net/http"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupInterventionTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/interventions", perm("intervention-list"), h.Intervention.List)
	auth.GET("/interventions/urgent", perm("intervention-list"), h.Intervention.Urgent)
	auth.GET("/interventions/status/:status", perm("intervention-list"), h.Intervention.ByStatut)
	auth.GET("/interventions/machine/:machineId", perm("intervention-list"), h.Intervention.ByMachine)
	auth.GET("/interventions/:id", perm("intervention-view"), h.Intervention.Get)
	auth.POST("/interventions", perm("intervention-create"), h.Intervention.Create)
	auth.PUT("/interventions/:id", perm("intervention-edit"), h.Intervention.Update)
	auth.DELETE("/interventions/:id", perm("intervention-delete"), h.Intervention.Delete)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func interventionToken(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	_, token := testutil.SeedUtilisateur(t, env.DB, "technicien",
		"intervention-list", "intervention-view", "intervention-create",
		"intervention-edit", "intervention-delete")
	return token
}

func TestInterventionCreateDefaultsPending(t *testing.T) {
	env := setupInterventionTest(t)
	token := interventionToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")

	w := testutil.DoRequest(env.Router, "POST", "/interventions", map[string]interface{}{
		"typeOperation": entity.TypeOperationMaintenance,
		"machine_id":    m.ID,
		"description":   "vibrations anormales",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["statut"] != entity.StatutPending {
		t.Errorf("Expected default statut PENDING, got %v", data["statut"])
	}
	if data["machine"] == nil {
		t.Error("Expected machine relation preloaded on create response")
	}
}

func TestInterventionCreateUnknownMachine(t *testing.T) {
	env := setupInterventionTest(t)
	token := interventionToken(t, env)

	w := testutil.DoRequest(env.Router, "POST", "/interventions", map[string]interface{}{
		"typeOperation": entity.TypeOperationMaintenance,
		"machine_id":    999,
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for unknown machine, got %d: %s", w.Code, w.Body.String())
	}
	errs := testutil.ParseResponse(w)["errors"].(map[string]interface{})
	if _, ok := errs["machine_id"]; !ok {
		t.Errorf("Expected field error on machine_id, got %v", errs)
	}
}

func TestInterventionByStatutInvalidVocab(t *testing.T) {
	env := setupInterventionTest(t)
	token := interventionToken(t, env)

	w := testutil.DoRequest(env.Router, "GET", "/interventions/status/BROKEN", nil, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for unknown statut, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInterventionFilters(t *testing.T) {
	env := setupInterventionTest(t)
	token := interventionToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	m2 := seedMachine(t, env.DB, "Pompe B4")

	seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, true)
	seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutCompleted, true)
	seedIntervention(t, env.DB, m2.ID, entity.TypeOperationMaintenance, entity.StatutPlanned, false)

	// urgentes non terminées
	w := testutil.DoRequest(env.Router, "GET", "/interventions/urgent", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	urgents := testutil.ParseResponse(w)["data"].([]interface{})
	if len(urgents) != 1 {
		t.Errorf("Expected 1 urgent pending intervention, got %d", len(urgents))
	}

	// par statut
	w2 := testutil.DoRequest(env.Router, "GET", "/interventions/status/"+entity.StatutPlanned, nil, token)
	planned := testutil.ParseResponse(w2)["data"].([]interface{})
	if len(planned) != 1 {
		t.Errorf("Expected 1 planned intervention, got %d", len(planned))
	}

	// par machine
	w3 := testutil.DoRequest(env.Router, "GET", "/interventions/machine/"+itoa(int(m.ID)), nil, token)
	byMachine := testutil.ParseResponse(w3)["data"].([]interface{})
	if len(byMachine) != 2 {
		t.Errorf("Expected 2 interventions on machine, got %d", len(byMachine))
	}

	// machine inconnue
	w4 := testutil.DoRequest(env.Router, "GET", "/interventions/machine/999", nil, token)
	if w4.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown machine, got %d", w4.Code)
	}
}

func TestInterventionAssignUtilisateurs(t *testing.T) {
	env := setupInterventionTest(t)
	token := interventionToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	u, _ := testutil.SeedUtilisateur(t, env.DB, "intervenant")

	w := testutil.DoRequest(env.Router, "POST", "/interventions", map[string]interface{}{
		"typeOperation":   entity.TypeOperationMaintenance,
		"machine_id":      m.ID,
		"utilisateur_ids": []uint{u.ID},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	users := data["utilisateurs"].([]interface{})
	if len(users) != 1 {
		t.Fatalf("Expected 1 assigned user, got %d", len(users))
	}

	// affectation à un utilisateur inconnu refusée
	w2 := testutil.DoRequest(env.Router, "POST", "/interventions", map[string]interface{}{
		"typeOperation":   entity.TypeOperationMaintenance,
		"machine_id":      m.ID,
		"utilisateur_ids": []uint{999},
	}, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for unknown user, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestInterventionDeleteCleansJoins(t *testing.T) {
	env := setupInterventionTest(t)
	token := interventionToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "DELETE", "/interventions/"+itoa(int(itv.ID)), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w2 := testutil.DoRequest(env.Router, "GET", "/interventions/"+itoa(int(itv.ID)), nil, token)
	if w2.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w2.Code)
	}
}
