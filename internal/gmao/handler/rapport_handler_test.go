package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupRapportTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/rapports", perm("rapport-list"), h.Rapport.List)
	auth.GET("/rapports/:id", perm("rapport-view"), h.Rapport.Get)
	auth.POST("/rapports", perm("rapport-create"), h.Rapport.Create)
	auth.PUT("/rapports/:id", perm("rapport-edit"), h.Rapport.Update)
	auth.PUT("/rapports/:id/validate", perm("rapport-validate"), h.Rapport.Validate)
	auth.DELETE("/rapports/:id", perm("rapport-delete"), h.Rapport.Delete)
	auth.POST("/rapports/:id/documents", perm("rapport-edit"), h.Rapport.UploadDocument)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func rapportToken(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	_, token := testutil.SeedUtilisateur(t, env.DB, "rapporteur",
		"rapport-list", "rapport-view", "rapport-create", "rapport-edit",
		"rapport-delete", "rapport-validate")
	return token
}

// seedRenovationRapport prépare machine, intervention IN_PROGRESS et rénovation
func seedRenovationRapport(t *testing.T, env *testutil.TestEnv) *entity.Intervention {
	t.Helper()
	m := seedMachine(t, env.DB, "Moteur A12")
	itv := seedIntervention(t, env.DB, m.ID, entity.TypeOperationRenovation, entity.StatutInProgress, false)
	if err := env.DB.Create(&entity.Renovation{InterventionID: itv.ID}).Error; err != nil {
		t.Fatalf("Failed to seed renovation: %v", err)
	}
	return itv
}

func TestRapportRequiresAnchor(t *testing.T) {
	env := setupRapportTest(t)
	token := rapportToken(t, env)

	w := testutil.DoRequest(env.Router, "POST", "/rapports", map[string]interface{}{
		"contenu": "rapport orphelin",
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 without anchor, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRapportValidateCompletesIntervention(t *testing.T) {
	env := setupRapportTest(t)
	token := rapportToken(t, env)
	itv := seedRenovationRapport(t, env)

	w := testutil.DoRequest(env.Router, "POST", "/rapports", map[string]interface{}{
		"renovation_id": itv.ID,
		"contenu":       "rebobinage terminé",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := int(data["id"].(float64))
	if data["validation"] != false {
		t.Errorf("Expected rapport unvalidated at creation, got %v", data["validation"])
	}

	w2 := testutil.DoRequest(env.Router, "PUT", "/rapports/"+itoa(id)+"/validate", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data2["validation"] != true {
		t.Errorf("Expected rapport validated, got %v", data2["validation"])
	}
	if s := statutIntervention(t, env.DB, itv.ID); s != entity.StatutCompleted {
		t.Errorf("Expected intervention COMPLETED after validation, got %s", s)
	}

	// deuxième validation refusée
	w3 := testutil.DoRequest(env.Router, "PUT", "/rapports/"+itoa(id)+"/validate", nil, token)
	if w3.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for double validate, got %d: %s", w3.Code, w3.Body.String())
	}
}

func TestRapportValidatedIsImmutable(t *testing.T) {
	env := setupRapportTest(t)
	token := rapportToken(t, env)
	itv := seedRenovationRapport(t, env)

	w := testutil.DoRequest(env.Router, "POST", "/rapports", map[string]interface{}{
		"renovation_id": itv.ID,
	}, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := int(data["id"].(float64))

	testutil.DoRequest(env.Router, "PUT", "/rapports/"+itoa(id)+"/validate", nil, token)

	w2 := testutil.DoRequest(env.Router, "PUT", "/rapports/"+itoa(id), map[string]interface{}{
		"contenu": "révision interdite",
	}, token)
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 updating validated rapport, got %d: %s", w2.Code, w2.Body.String())
	}

	w3 := testutil.DoRequest(env.Router, "DELETE", "/rapports/"+itoa(id), nil, token)
	if w3.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 deleting validated rapport, got %d: %s", w3.Code, w3.Body.String())
	}
}

func TestRapportDuplicatePerRenovation(t *testing.T) {
	env := setupRapportTest(t)
	token := rapportToken(t, env)
	itv := seedRenovationRapport(t, env)

	testutil.DoRequest(env.Router, "POST", "/rapports", map[string]interface{}{
		"renovation_id": itv.ID,
	}, token)
	w := testutil.DoRequest(env.Router, "POST", "/rapports", map[string]interface{}{
		"renovation_id": itv.ID,
	}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for second rapport on renovation, got %d: %s", w.Code, w.Body.String())
	}
	errs := testutil.ParseResponse(w)["errors"].(map[string]interface{})
	if _, ok := errs["existing"]; !ok {
		t.Errorf("Expected existing rapport in errors, got %v", errs)
	}
}

func TestRapportUploadWithoutStorage(t *testing.T) {
	env := setupRapportTest(t)
	token := rapportToken(t, env)
	itv := seedRenovationRapport(t, env)

	w := testutil.DoRequest(env.Router, "POST", "/rapports", map[string]interface{}{
		"renovation_id": itv.ID,
	}, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := int(data["id"].(float64))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "photo.jpg")
	fw.Write([]byte("fake-image-bytes"))
	mw.Close()

	req, _ := http.NewRequest("POST", "/rapports/"+itoa(id)+"/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	// MinIO n'est pas configuré dans les tests
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 without object storage, got %d: %s", rec.Code, rec.Body.String())
	}
}
