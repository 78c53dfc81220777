package handler

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/testutil"
	"github.com/electromaint/gmao/internal/middleware"
	"go.uber.org/zap"
)

func setupExportTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	auth := testutil.AuthGroup(router, svc.Auth)
	perm := middleware.RequirePermission
	auth.GET("/machines/export", perm("machine-export"), h.Export.Machines)
	auth.GET("/interventions/export", perm("intervention-export"), h.Export.Interventions)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func TestExportMachinesXLSX(t *testing.T) {
	env := setupExportTest(t)
	_, token := testutil.SeedUtilisateur(t, env.DB, "exporteur", "machine-export", "intervention-export")
	m := seedMachine(t, env.DB, "Moteur A12")
	seedIntervention(t, env.DB, m.ID, entity.TypeOperationMaintenance, entity.StatutPending, false)

	w := testutil.DoRequest(env.Router, "GET", "/machines/export", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	ct := w.Header().Get("Content-Type")
	if !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Expected xlsx content type, got %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "machines-") || !strings.Contains(cd, ".xlsx") {
		t.Errorf("Expected timestamped filename, got %s", cd)
	}
	// signature zip d'un classeur xlsx
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("Expected xlsx (zip) payload")
	}

	w2 := testutil.DoRequest(env.Router, "GET", "/interventions/export", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	if !bytes.HasPrefix(w2.Body.Bytes(), []byte("PK")) {
		t.Error("Expected xlsx (zip) payload")
	}
}
