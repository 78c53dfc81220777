package handler

import (
	"net/http"
	"testing"

	"github.com/electromaint/gmao/internal/gmao/testutil"
	"go.uber.org/zap"
)

func setupAuthTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.SetupServices(db)
	h := NewHandlers(svc, zap.NewNop())

	router := testutil.SetupRouter()
	router.POST("/login", h.Auth.Login)

	auth := testutil.AuthGroup(router, svc.Auth)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/user", h.Auth.Me)
	auth.POST("/check-permissions", h.Auth.CheckPermissions)

	return &testutil.TestEnv{DB: db, Router: router, Services: svc, T: t}
}

func TestLoginSuccess(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedUtilisateur(t, env.DB, "marc", "machine-list", "machine-view")

	w := testutil.DoRequest(env.Router, "POST", "/login", map[string]interface{}{
		"nom":      "marc",
		"password": "secret",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})

	token := data["token"].(string)
	if len(token) != 80 {
		t.Errorf("Expected 80-character token, got %d characters", len(token))
	}
	if data["token_type"] != "Bearer" {
		t.Errorf("Expected token_type Bearer, got %v", data["token_type"])
	}
	perms := data["permissions"].(map[string]interface{})
	if perms["machine-list"] != true || perms["machine-view"] != true {
		t.Errorf("Expected machine permissions in login payload, got %v", perms)
	}
	user := data["user"].(map[string]interface{})
	if user["nom"] != "marc" {
		t.Errorf("Expected user nom marc, got %v", user["nom"])
	}
	if _, ok := user["password"]; ok {
		t.Error("Password must never be serialized")
	}

	// le jeton fraîchement émis ouvre bien l'accès
	w2 := testutil.DoRequest(env.Router, "GET", "/user", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 with fresh token, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestLoginInvalidPassword(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedUtilisateur(t, env.DB, "marc")

	w := testutil.DoRequest(env.Router, "POST", "/login", map[string]interface{}{
		"nom":      "marc",
		"password": "mauvais",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginUnknownUser(t *testing.T) {
	env := setupAuthTest(t)

	w := testutil.DoRequest(env.Router, "POST", "/login", map[string]interface{}{
		"nom":      "fantome",
		"password": "secret",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupAuthTest(t)
	_, token := testutil.SeedUtilisateur(t, env.DB, "marc")

	w := testutil.DoRequest(env.Router, "POST", "/logout", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, "GET", "/user", nil, token)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 after logout, got %d", w2.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	env := setupAuthTest(t)

	w := testutil.DoRequest(env.Router, "GET", "/user", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}

	w2 := testutil.DoRequest(env.Router, "GET", "/user", nil, testutil.Token("inconnu"))
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 with unknown token, got %d", w2.Code)
	}
}

func TestCheckPermissions(t *testing.T) {
	env := setupAuthTest(t)
	_, token := testutil.SeedUtilisateur(t, env.DB, "marc", "machine-list")

	w := testutil.DoRequest(env.Router, "POST", "/check-permissions", map[string]interface{}{
		"permissions": []string{"machine-list", "machine-delete"},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["machine-list"] != true {
		t.Errorf("Expected machine-list granted, got %v", data["machine-list"])
	}
	if data["machine-delete"] != false {
		t.Errorf("Expected machine-delete denied, got %v", data["machine-delete"])
	}
}
