package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupPlanificationTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/planifications", perm("planification-list"), h.Planification.List)
	auth.GET("/planifications/user/:userId", perm("planification-list"), h.Planification.ByUtilisateur)
	auth.GET("/planifications/:id", perm("planification-view"), h.Planification.Get)
	auth.POST("/planifications", perm("planification-create"), h.Planification.Create)
	auth.PUT("/planifications/:id", perm("planification-edit"), h.Planification.Update)
	auth.POST("/planifications/:id/interventions/:interventionId", perm("planification-edit"), h.Planification.AddIntervention)
	auth.DELETE("/planifications/:id/interventions/:interventionId", perm("planification-edit"), h.Planification.RemoveIntervention)
	auth.DELETE("/planifications/:id", perm("planification-delete"), h.Planification.Delete)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func planificationToken(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	_, token := testutil.SeedUtilisateur(t, env.DB, "planificateur",
		"planification-list", "planification-view", "planification-create",
		"planification-edit", "planification-delete")
	return token
}

func TestPlanificationAddAndRemoveIntervention(t *testing.T) {
	env := setupPlanificationTest(t)
	token := planificationToken(t, env)
	responsable, _ := testutil.SeedUtilisateur(t, env.DB, "responsable")
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "POST", "/planifications", map[string]interface{}{
		"utilisateur_id":    responsable.ID,
		"capaciteExecution": 5,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := int(data["id"].(float64))

	// ajouter une intervention PENDING la fait passer PLANNED
	w2 := testutil.DoRequest(env.Router, "POST",
		"/planifications/"+itoa(id)+"/interventions/"+itoa(int(itv.ID)), nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutPlanned {
		t.Errorf("Expected PLANNED after add, got %s", s)
	}

	// la retirer la ramène PENDING
	w3 := testutil.DoRequest(env.Router, "DELETE",
		"/planifications/"+itoa(id)+"/interventions/"+itoa(int(itv.ID)), nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutPending {
		t.Errorf("Expected PENDING after remove, got %s", s)
	}
}

func TestPlanificationAddLeavesInProgressAlone(t *testing.T) {
	env := setupPlanificationTest(t)
	token := planificationToken(t, env)
	responsable, _ := testutil.SeedUtilisateur(t, env.DB, "responsable")
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutInProgress, false)

	w := testutil.DoRequest(env.Router, "POST", "/planifications", map[string]interface{}{
		"utilisateur_id": responsable.ID,
	}, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := int(data["id"].(float64))

	w2 := testutil.DoRequest(env.Router, "POST",
		"/planifications/"+itoa(id)+"/interventions/"+itoa(int(itv.ID)), nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	// l'intervention est rattachée mais son statut ne bouge pas
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutInProgress {
		t.Errorf("Expected IN_PROGRESS unchanged, got %s", s)
	}
	data2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	interventions := data2["interventions"].([]interface{})
	if len(interventions) != 1 {
		t.Errorf("Expected 1 attached intervention, got %d", len(interventions))
	}
}

func TestPlanificationCreateWithInterventions(t *testing.T) {
	env := setupPlanificationTest(t)
	token := planificationToken(t, env)
	responsable, _ := testutil.SeedUtilisateur(t, env.DB, "responsable")
	m := seedMachine(t, env.DB, "Moteur A12")
	itv1 := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)
	itv2 := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, true)

	w := testutil.DoRequest(env.Router, "POST", "/planifications", map[string]interface{}{
		"utilisateur_id":   responsable.ID,
		"urgencePrise":     true,
		"intervention_ids": []uint{itv1.ID, itv2.ID},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	interventions := data["interventions"].([]interface{})
	if len(interventions) != 2 {
		t.Fatalf("Expected 2 interventions attached, got %d", len(interventions))
	}
	if s := statutIntervention(t, env.DB, itv1.ID); s != entity.StatutPlanned {
		t.Errorf("Expected itv1 PLANNED, got %s", s)
	}
	if s := statutIntervention(t, env.DB, itv2.ID); s != entity.StatutPlanned {
		t.Errorf("Expected itv2 PLANNED, got %s", s)
	}
}

// Le pool de la base de test n'a qu'une seule connexion: une lecture
// hors transaction pendant l'ajout bloquerait l'appel indéfiniment.
func TestPlanificationAddCompletesOnSingleConnectionPool(t *testing.T) {
	env := setupPlanificationTest(t)
	responsable, _ := testutil.SeedUtilisateur(t, env.DB, "responsable")
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	p := &entity.Planification{DateCreation: time.Now(), UtilisateurID: responsable.ID}
	if err := env.DB.Create(p).Error; err != nil {
		t.Fatalf("Failed to seed planification: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := env.Services.Planification.AddIntervention(context.Background(), p.ID, itv.ID)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("AddIntervention failed: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("AddIntervention blocked on the single-connection pool")
	}
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutPlanned {
		t.Errorf("Expected PLANNED after add, got %s", s)
	}
}

func TestPlanificationByUtilisateur(t *testing.T) {
	env := setupPlanificationTest(t)
	token := planificationToken(t, env)
	r1, _ := testutil.SeedUtilisateur(t, env.DB, "resp1")
	r2, _ := testutil.SeedUtilisateur(t, env.DB, "resp2")

	testutil.DoRequest(env.Router, "POST", "/planifications",
		map[string]interface{}{"utilisateur_id": r1.ID}, token)
	testutil.DoRequest(env.Router, "POST", "/planifications",
		map[string]interface{}{"utilisateur_id": r1.ID}, token)
	testutil.DoRequest(env.Router, "POST", "/planifications",
		map[string]interface{}{"utilisateur_id": r2.ID}, token)

	w := testutil.DoRequest(env.Router, "GET", "/planifications/user/"+itoa(int(r1.ID)), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	list := testutil.ParseResponse(w)["data"].([]interface{})
	if len(list) != 2 {
		t.Errorf("Expected 2 planifications for resp1, got %d", len(list))
	}

	w2 := testutil.DoRequest(env.Router, "POST", "/planifications",
		map[string]interface{}{"utilisateur_id": 999}, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unknown responsable, got %d", w2.Code)
	}
}
