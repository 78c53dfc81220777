package handler

import (
	"net/http"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupDiagnosticTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/diagnostics", perm("diagnostic-list"), h.Diagnostic.List)
	auth.GET("/diagnostics/intervention/:interventionId", perm("diagnostic-list"), h.Diagnostic.ByIntervention)
	auth.GET("/diagnostics/:id", perm("diagnostic-view"), h.Diagnostic.Get)
	auth.POST("/diagnostics", perm("diagnostic-create"), h.Diagnostic.Create)
	auth.PUT("/diagnostics/:id", perm("diagnostic-edit"), h.Diagnostic.Update)
	auth.DELETE("/diagnostics/:id", perm("diagnostic-delete"), h.Diagnostic.Delete)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func diagnosticToken(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	_, token := testutil.SeedUtilisateur(t, env.DB, "diagnostiqueur",
		"diagnostic-list", "diagnostic-view", "diagnostic-create",
		"diagnostic-edit", "diagnostic-delete")
	return token
}

func TestDiagnosticCreateWithLines(t *testing.T) {
	env := setupDiagnosticTest(t)
	token := diagnosticToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/diagnostics", map[string]interface{}{
		"intervention_id":  itv.ID,
		"travauxRequis":    []string{"démontage rotor", "contrôle roulements"},
		"besoinsPDR":       []string{"roulement 6205"},
		"chargesRealisees": []string{},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	travaux := data["travauxRequis"].([]interface{})
	if len(travaux) != 2 {
		t.Errorf("Expected 2 travaux requis, got %d", len(travaux))
	}
	besoins := data["besoinsPDR"].([]interface{})
	if len(besoins) != 1 {
		t.Errorf("Expected 1 besoin PDR, got %d", len(besoins))
	}
}

func TestDiagnosticDuplicateReturnsExisting(t *testing.T) {
	env := setupDiagnosticTest(t)
	token := diagnosticToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/diagnostics", map[string]interface{}{
		"intervention_id": itv.ID,
		"travauxRequis":   []string{"premier diagnostic"},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	first := testutil.ParseResponse(w)["data"].(map[string]interface{})

	w2 := testutil.DoRequest(env.Router, "POST", "/diagnostics", map[string]interface{}{
		"intervention_id": itv.ID,
	}, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for duplicate, got %d: %s", w2.Code, w2.Body.String())
	}
	errs := testutil.ParseResponse(w2)["errors"].(map[string]interface{})
	existing, ok := errs["existing"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected existing diagnostic in errors, got %v", errs)
	}
	if existing["id"] != first["id"] {
		t.Errorf("Expected existing diagnostic id %v, got %v", first["id"], existing["id"])
	}
}

func TestDiagnosticUpdateReplacesLines(t *testing.T) {
	env := setupDiagnosticTest(t)
	token := diagnosticToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/diagnostics", map[string]interface{}{
		"intervention_id": itv.ID,
		"travauxRequis":   []string{"ancien travail"},
	}, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := int(data["id"].(float64))

	w2 := testutil.DoRequest(env.Router, "PUT", "/diagnostics/"+itoa(id), map[string]interface{}{
		"travauxRequis": []string{"nouveau travail 1", "nouveau travail 2"},
	}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	travaux := data2["travauxRequis"].([]interface{})
	if len(travaux) != 2 {
		t.Fatalf("Expected 2 replaced travaux, got %d", len(travaux))
	}
	ligne := travaux[0].(map[string]interface{})
	if ligne["description"] != "nouveau travail 1" {
		t.Errorf("Expected replaced line, got %v", ligne["description"])
	}
}

func TestDiagnosticByInterventionNotFound(t *testing.T) {
	env := setupDiagnosticTest(t)
	token := diagnosticToken(t, env)

	w := testutil.DoRequest(env.Router, "GET", "/diagnostics/intervention/999", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
