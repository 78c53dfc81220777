package testutil

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/electromaint/gmao/internal/config"
	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/electromaint/gmao/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Services *service.Services
	T        *testing.T
}

// SetupTestDB opens an isolated in-memory sqlite database and migrates the schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:gmao_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	// sqlite in-memory: a single connection keeps the database alive
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entity.Section{},
		&entity.Permission{},
		&entity.Role{},
		&entity.Utilisateur{},
		&entity.Machine{},
		&entity.Intervention{},
		&entity.Diagnostic{},
		&entity.TravailRequis{},
		&entity.BesoinPDR{},
		&entity.ChargeRealisee{},
		&entity.Renovation{},
		&entity.Maintenance{},
		&entity.Piece{},
		&entity.ControleQualite{},
		&entity.PrestataireExterne{},
		&entity.Rapport{},
		&entity.RapportDocument{},
		&entity.GestionAdministrative{},
		&entity.Planification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SetupServices wires repositories and services on top of a test database.
// Redis and MinIO are left unconfigured so tests stay hermetic.
func SetupServices(db *gorm.DB) *service.Services {
	repos := repository.NewRepositories(db)
	return service.NewServices(db, repos, nil, &config.Config{})
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates a route group guarded by token authentication
func AuthGroup(r *gin.Engine, authSvc *service.AuthService) *gin.RouterGroup {
	return r.Group("/", middleware.TokenAuth(authSvc))
}

// Token derives a deterministic 80-character API token from a seed
func Token(seed string) string {
	sum := sha512.Sum512([]byte("gmao-test-token-" + seed))
	return hex.EncodeToString(sum[:])[:80]
}

// SeedUtilisateur creates a user holding the given permission keys through a
// dedicated role, with password "secret" and a stored API token.
func SeedUtilisateur(t *testing.T, db *gorm.DB, nom string, cles ...string) (*entity.Utilisateur, string) {
	t.Helper()

	perms := make([]entity.Permission, 0, len(cles))
	for _, cle := range cles {
		parts := strings.SplitN(cle, "-", 2)
		if len(parts) != 2 {
			t.Fatalf("Invalid permission key %q", cle)
		}
		p := entity.Permission{Module: parts[0], Action: parts[1]}
		if err := db.Where("module = ? AND action = ?", p.Module, p.Action).
			FirstOrCreate(&p).Error; err != nil {
			t.Fatalf("Failed to seed permission %s: %v", cle, err)
		}
		perms = append(perms, p)
	}

	role := &entity.Role{Nom: "role-" + nom, Permissions: perms}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("Failed to seed role: %v", err)
	}

	hash, err := service.HashPassword("secret")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	token := Token(nom)
	user := &entity.Utilisateur{
		Nom:      nom,
		Password: hash,
		APIToken: &token,
		Roles:    []entity.Role{*role},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return user, token
}

// SeedAdmin creates a user granted every CRUD permission plus the special
// validate and export actions.
func SeedAdmin(t *testing.T, db *gorm.DB) (*entity.Utilisateur, string) {
	t.Helper()

	modules := []string{
		"machine", "intervention", "diagnostic", "maintenance", "renovation",
		"rapport", "controle", "planification", "utilisateur", "section",
		"role", "permission", "prestataire", "gestion", "dashboard",
	}
	cles := make([]string, 0, len(modules)*len(entity.ActionsCRUD)+4)
	for _, m := range modules {
		for _, a := range entity.ActionsCRUD {
			cles = append(cles, m+"-"+a)
		}
	}
	cles = append(cles, "rapport-validate", "gestion-validate", "machine-export", "intervention-export")
	return SeedUtilisateur(t, db, "admin", cles...)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
