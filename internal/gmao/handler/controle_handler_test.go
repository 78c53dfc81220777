package handler

import (
	"net/http"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupControleTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/controles", perm("controle-list"), h.Controle.List)
	auth.GET("/controles/:id", perm("controle-view"), h.Controle.Get)
	auth.POST("/controles", perm("controle-create"), h.Controle.Create)
	auth.PUT("/controles/:id", perm("controle-edit"), h.Controle.Update)
	auth.DELETE("/controles/:id", perm("controle-delete"), h.Controle.Delete)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func TestControleQualiteParIntervention(t *testing.T) {
	env := setupControleTest(t)
	_, token := testutil.SeedUtilisateur(t, env.DB, "qualiticien",
		"controle-list", "controle-view", "controle-create", "controle-edit", "controle-delete")
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutInProgress, false)

	w := testutil.DoRequest(env.Router, "POST", "/controles", map[string]interface{}{
		"intervention_id":   itv.ID,
		"resultatsEssais":   "essais à vide conformes",
		"analyseVibratoire": "RAS",
		"conformite":        true,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := int(data["id"].(float64))
	if data["conformite"] != true {
		t.Errorf("Expected conformite true, got %v", data["conformite"])
	}

	// un seul contrôle par intervention
	w2 := testutil.DoRequest(env.Router, "POST", "/controles", map[string]interface{}{
		"intervention_id": itv.ID,
	}, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for duplicate controle, got %d: %s", w2.Code, w2.Body.String())
	}
	errs := testutil.ParseResponse(w2)["errors"].(map[string]interface{})
	if _, ok := errs["existing"]; !ok {
		t.Errorf("Expected existing controle in errors, got %v", errs)
	}

	// non-conformité consignée avec actions correctives
	w3 := testutil.DoRequest(env.Router, "PUT", "/controles/"+itoa(id), map[string]interface{}{
		"conformite":         false,
		"actionsCorrectives": "reprendre l'équilibrage",
	}, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	data3 := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	if data3["conformite"] != false {
		t.Errorf("Expected conformite false, got %v", data3["conformite"])
	}
	if data3["actionsCorrectives"] != "reprendre l'équilibrage" {
		t.Errorf("Expected actions correctives kept, got %v", data3["actionsCorrectives"])
	}
}

func TestControleUnknownIntervention(t *testing.T) {
	env := setupControleTest(t)
	_, token := testutil.SeedUtilisateur(t, env.DB, "qualiticien", "controle-create")

	w := testutil.DoRequest(env.Router, "POST", "/controles", map[string]interface{}{
		"intervention_id": 999,
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for unknown intervention, got %d: %s", w.Code, w.Body.String())
	}
}
