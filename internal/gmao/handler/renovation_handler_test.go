package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupRenovationTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/renovations", perm("renovation-list"), h.Renovation.List)
	auth.GET("/renovations/:id", perm("renovation-view"), h.Renovation.Get)
	auth.POST("/renovations", perm("renovation-create"), h.Renovation.Create)
	auth.PUT("/renovations/:id", perm("renovation-edit"), h.Renovation.Update)
	auth.PUT("/renovations/:id/complete", perm("renovation-edit"), h.Renovation.Complete)
	auth.DELETE("/renovations/:id", perm("renovation-delete"), h.Renovation.Delete)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func renovationToken(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	_, token := testutil.SeedUtilisateur(t, env.DB, "renovateur",
		"renovation-list", "renovation-view", "renovation-create",
		"renovation-edit", "renovation-delete")
	return token
}

func TestRenovationCreateStartsWork(t *testing.T) {
	env := setupRenovationTest(t)
	token := renovationToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/renovations", map[string]interface{}{
		"intervention_id": itv.ID,
		"objectif":        "rebobinage stator",
		"cout":            4200.0,
		"dureeEstimee":    14,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// la création d'une rénovation démarre les travaux
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutInProgress {
		t.Errorf("Expected intervention IN_PROGRESS, got %s", s)
	}
}

func TestRenovationCreateLeavesNonPendingAlone(t *testing.T) {
	env := setupRenovationTest(t)
	token := renovationToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutPlanned, false)

	w := testutil.DoRequest(env.Router, "POST", "/renovations", map[string]interface{}{
		"intervention_id": itv.ID,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutPlanned {
		t.Errorf("Expected statut unchanged PLANNED, got %s", s)
	}
}

func TestRenovationTypeMismatch(t *testing.T) {
	env := setupRenovationTest(t)
	token := renovationToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/renovations", map[string]interface{}{
		"intervention_id": itv.ID,
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for type mismatch, got %d: %s", w.Code, w.Body.String())
	}
	errs := testutil.ParseResponse(w)["errors"].(map[string]interface{})
	if _, ok := errs["intervention_id"]; !ok {
		t.Errorf("Expected field error on intervention_id, got %v", errs)
	}
	// le statut reste inchangé
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutPending {
		t.Errorf("Expected statut unchanged PENDING, got %s", s)
	}
}

func TestRenovationDuplicateReturnsExisting(t *testing.T) {
	env := setupRenovationTest(t)
	token := renovationToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/renovations", map[string]interface{}{
		"intervention_id": itv.ID,
		"objectif":        "première",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, "POST", "/renovations", map[string]interface{}{
		"intervention_id": itv.ID,
		"objectif":        "doublon",
	}, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for duplicate, got %d: %s", w2.Code, w2.Body.String())
	}
	resp := testutil.ParseResponse(w2)
	errs := resp["errors"].(map[string]interface{})
	existing, ok := errs["existing"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected existing record in errors, got %v", errs)
	}
	if existing["objectif"] != "première" {
		t.Errorf("Expected existing renovation returned, got %v", existing["objectif"])
	}
}

func TestRenovationComplete(t *testing.T) {
	env := setupRenovationTest(t)
	token := renovationToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutPending, false)

	testutil.DoRequest(env.Router, "POST", "/renovations", map[string]interface{}{
		"intervention_id": itv.ID,
	}, token)

	// état machine hors vocabulaire refusé
	w := testutil.DoRequest(env.Router, "PUT", "/renovations/"+itoa(int(itv.ID))+"/complete",
		map[string]interface{}{"etat": "NEUVE"}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for invalid etat, got %d: %s", w.Code, w.Body.String())
	}

	prochaine := time.Now().Add(180 * 24 * time.Hour)
	w2 := testutil.DoRequest(env.Router, "PUT", "/renovations/"+itoa(int(itv.ID))+"/complete",
		map[string]interface{}{
			"etat":               entity.EtatOperationnel,
			"valeur":             22000.0,
			"dateProchaineMaint": prochaine.Format(time.RFC3339),
		}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutCompleted {
		t.Errorf("Expected intervention COMPLETED, got %s", s)
	}
	var machine entity.Machine
	if err := env.DB.First(&machine, m.ID).Error; err != nil {
		t.Fatalf("Failed to reload machine: %v", err)
	}
	if machine.Valeur != 22000.0 {
		t.Errorf("Expected machine valeur 22000, got %v", machine.Valeur)
	}
	if machine.DateProchaineMaint == nil {
		t.Error("Expected next maintenance date set on machine")
	}
}
