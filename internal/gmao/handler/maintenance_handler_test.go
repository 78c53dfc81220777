package handler

import (
	"net/http"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupMaintenanceTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/maintenances", perm("maintenance-list"), h.Maintenance.List)
	auth.GET("/maintenances/:id", perm("maintenance-view"), h.Maintenance.Get)
	auth.POST("/maintenances", perm("maintenance-create"), h.Maintenance.Create)
	auth.PUT("/maintenances/:id", perm("maintenance-edit"), h.Maintenance.Update)
	auth.DELETE("/maintenances/:id", perm("maintenance-delete"), h.Maintenance.Delete)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func maintenanceToken(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	_, token := testutil.SeedUtilisateur(t, env.DB, "mainteneur",
		"maintenance-list", "maintenance-view", "maintenance-create",
		"maintenance-edit", "maintenance-delete")
	return token
}

func TestMaintenanceCreateStartsWork(t *testing.T) {
	env := setupMaintenanceTest(t)
	token := maintenanceToken(t, env)
	m := seedMachine(t, env.DB, "Pompe B4")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/maintenances", map[string]interface{}{
		"intervention_id": itv.ID,
		"typeMaintenance": "préventive",
		"duree":           3,
		"pieces":          []string{"joint torique", "filtre"},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	pieces := data["pieces"].([]interface{})
	if len(pieces) != 2 {
		t.Errorf("Expected 2 pieces, got %d", len(pieces))
	}
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutInProgress {
		t.Errorf("Expected intervention IN_PROGRESS, got %s", s)
	}
}

func TestMaintenanceTypeMismatch(t *testing.T) {
	env := setupMaintenanceTest(t)
	token := maintenanceToken(t, env)
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/maintenances", map[string]interface{}{
		"intervention_id": itv.ID,
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for type mismatch, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMaintenanceUpdateReplacesPieces(t *testing.T) {
	env := setupMaintenanceTest(t)
	token := maintenanceToken(t, env)
	m := seedMachine(t, env.DB, "Pompe B4")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	testutil.DoRequest(env.Router, "POST", "/maintenances", map[string]interface{}{
		"intervention_id": itv.ID,
		"pieces":          []string{"ancienne pièce"},
	}, token)

	w := testutil.DoRequest(env.Router, "PUT", "/maintenances/"+itoa(int(itv.ID)), map[string]interface{}{
		"duree":  5,
		"pieces": []string{"pièce 1", "pièce 2", "pièce 3"},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["duree"].(float64) != 5 {
		t.Errorf("Expected duree 5, got %v", data["duree"])
	}
	pieces := data["pieces"].([]interface{})
	if len(pieces) != 3 {
		t.Errorf("Expected 3 replaced pieces, got %d", len(pieces))
	}
}
