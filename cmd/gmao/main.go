package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/electromaint/gmao/internal/config"
	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/handler"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/electromaint/gmao/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting gmao service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db); err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unreachable, permission cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, cfg)
	handlers := handler.NewHandlers(services, zapLogger)

	if err := seed(db, repos, services, zapLogger); err != nil {
		zapLogger.Fatal("Seed failed", zap.Error(err))
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, services)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
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
}

// seed provisionne les permissions CRUD, le rôle admin et le premier compte
func seed(db *gorm.DB, repos *repository.Repositories, services *service.Services, zapLogger *zap.Logger) error {
	ctx := context.Background()

	if _, err := services.Role.GenerateCRUD(ctx); err != nil {
		return fmt.Errorf("generate crud permissions: %w", err)
	}
	extra := []entity.Permission{
		{Module: "rapport", Action: "validate", Description: "valider un rapport"},
		{Module: "gestion", Action: "validate", Description: "valider une gestion"},
		{Module: "machine", Action: "export", Description: "exporter les machines"},
		{Module: "intervention", Action: "export", Description: "exporter les interventions"},
	}
	for i := range extra {
		if err := repos.Role.FirstOrCreatePermission(ctx, &extra[i]); err != nil {
			return fmt.Errorf("seed permission %s: %w", extra[i].Cle(), err)
		}
	}

	admin, err := repos.Role.FindByNom(ctx, "admin")
	if err == repository.ErrNotFound {
		admin = &entity.Role{Nom: "admin"}
		if err := repos.Role.Create(ctx, admin); err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}
	} else if err != nil {
		return err
	}
	perms, err := repos.Role.FindAllPermissions(ctx)
	if err != nil {
		return err
	}
	if err := repos.Role.ReplacePermissions(ctx, admin, perms); err != nil {
		return fmt.Errorf("grant admin permissions: %w", err)
	}

	if _, err := repos.Utilisateur.FindByNom(ctx, "admin"); err == repository.ErrNotFound {
		password := config.GetEnvOrDefault("ADMIN_PASSWORD", "admin")
		hash, err := service.HashPassword(password)
		if err != nil {
			return err
		}
		u := &entity.Utilisateur{Nom: "admin", Password: hash, Roles: []entity.Role{*admin}}
		if err := repos.Utilisateur.Create(ctx, u); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		zapLogger.Info("Admin account created", zap.String("nom", "admin"))
	} else if err != nil {
		return err
	}

	return nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, svc *service.Services) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// seule route publique
	r.POST("/login", h.Auth.Login)

	auth := r.Group("/")
	auth.Use(middleware.TokenAuth(svc.Auth))
	{
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/user", h.Auth.Me)
		auth.POST("/check-permissions", h.Auth.CheckPermissions)

		perm := middleware.RequirePermission

		auth.GET("/machines", perm("machine-list"), h.Machine.List)
		auth.GET("/machines/maintenance/soon", perm("machine-list"), h.Machine.MaintenanceSoon)
		auth.GET("/machines/export", perm("machine-export"), h.Export.Machines)
		auth.GET("/machines/:id", perm("machine-view"), h.Machine.Get)
		auth.POST("/machines", perm("machine-create"), h.Machine.Create)
		auth.PUT("/machines/:id", perm("machine-edit"), h.Machine.Update)
		auth.PUT("/machines/:id/update-status", perm("machine-edit"), h.Machine.UpdateStatus)
		auth.DELETE("/machines/:id", perm("machine-delete"), h.Machine.Delete)

		auth.GET("/interventions", perm("intervention-list"), h.Intervention.List)
		auth.GET("/interventions/urgent", perm("intervention-list"), h.Intervention.Urgent)
		auth.GET("/interventions/export", perm("intervention-export"), h.Export.Interventions)
		auth.GET("/interventions/status/:status", perm("intervention-list"), h.Intervention.ByStatut)
		auth.GET("/interventions/machine/:machineId", perm("intervention-list"), h.Intervention.ByMachine)
		auth.GET("/interventions/:id", perm("intervention-view"), h.Intervention.Get)
		auth.POST("/interventions", perm("intervention-create"), h.Intervention.Create)
		auth.PUT("/interventions/:id", perm("intervention-edit"), h.Intervention.Update)
		auth.DELETE("/interventions/:id", perm("intervention-delete"), h.Intervention.Delete)

		auth.GET("/diagnostics", perm("diagnostic-list"), h.Diagnostic.List)
		auth.GET("/diagnostics/intervention/:interventionId", perm("diagnostic-list"), h.Diagnostic.ByIntervention)
		auth.GET("/diagnostics/:id", perm("diagnostic-view"), h.Diagnostic.Get)
		auth.POST("/diagnostics", perm("diagnostic-create"), h.Diagnostic.Create)
		auth.PUT("/diagnostics/:id", perm("diagnostic-edit"), h.Diagnostic.Update)
		auth.DELETE("/diagnostics/:id", perm("diagnostic-delete"), h.Diagnostic.Delete)

		auth.GET("/renovations", perm("renovation-list"), h.Renovation.List)
		auth.GET("/renovations/:id", perm("renovation-view"), h.Renovation.Get)
		auth.POST("/renovations", perm("renovation-create"), h.Renovation.Create)
		auth.PUT("/renovations/:id", perm("renovation-edit"), h.Renovation.Update)
		auth.PUT("/renovations/:id/complete", perm("renovation-edit"), h.Renovation.Complete)
		auth.DELETE("/renovations/:id", perm("renovation-delete"), h.Renovation.Delete)

		auth.GET("/maintenances", perm("maintenance-list"), h.Maintenance.List)
		auth.GET("/maintenances/:id", perm("maintenance-view"), h.Maintenance.Get)
		auth.POST("/maintenances", perm("maintenance-create"), h.Maintenance.Create)
		auth.PUT("/maintenances/:id", perm("maintenance-edit"), h.Maintenance.Update)
		auth.DELETE("/maintenances/:id", perm("maintenance-delete"), h.Maintenance.Delete)

		auth.GET("/controles", perm("controle-list"), h.Controle.List)
		auth.GET("/controles/:id", perm("controle-view"), h.Controle.Get)
		auth.POST("/controles", perm("controle-create"), h.Controle.Create)
		auth.PUT("/controles/:id", perm("controle-edit"), h.Controle.Update)
		auth.DELETE("/controles/:id", perm("controle-delete"), h.Controle.Delete)

		auth.GET("/rapports", perm("rapport-list"), h.Rapport.List)
		auth.GET("/rapports/:id", perm("rapport-view"), h.Rapport.Get)
		auth.POST("/rapports", perm("rapport-create"), h.Rapport.Create)
		auth.PUT("/rapports/:id", perm("rapport-edit"), h.Rapport.Update)
		auth.PUT("/rapports/:id/validate", perm("rapport-validate"), h.Rapport.Validate)
		auth.DELETE("/rapports/:id", perm("rapport-delete"), h.Rapport.Delete)
		auth.GET("/rapports/:id/documents", perm("rapport-view"), h.Rapport.Documents)
		auth.POST("/rapports/:id/documents", perm("rapport-edit"), h.Rapport.UploadDocument)
		auth.GET("/rapports/:id/documents/:documentId/url", perm("rapport-view"), h.Rapport.DocumentURL)

		auth.GET("/gestions", perm("gestion-list"), h.Gestion.List)
		auth.GET("/gestions/:id", perm("gestion-view"), h.Gestion.Get)
		auth.POST("/gestions", perm("gestion-create"), h.Gestion.Create)
		auth.PUT("/gestions/:id", perm("gestion-edit"), h.Gestion.Update)
		auth.PUT("/gestions/:id/validate", perm("gestion-validate"), h.Gestion.Validate)
		auth.PUT("/gestions/:id/users", perm("gestion-edit"), h.Gestion.ReplaceUsers)
		auth.DELETE("/gestions/:id", perm("gestion-delete"), h.Gestion.Delete)

		auth.GET("/planifications", perm("planification-list"), h.Planification.List)
		auth.GET("/planifications/user/:userId", perm("planification-list"), h.Planification.ByUtilisateur)
		auth.GET("/planifications/:id", perm("planification-view"), h.Planification.Get)
		auth.POST("/planifications", perm("planification-create"), h.Planification.Create)
		auth.PUT("/planifications/:id", perm("planification-edit"), h.Planification.Update)
		auth.POST("/planifications/:id/interventions/:interventionId", perm("planification-edit"), h.Planification.AddIntervention)
		auth.DELETE("/planifications/:id/interventions/:interventionId", perm("planification-edit"), h.Planification.RemoveIntervention)
		auth.DELETE("/planifications/:id", perm("planification-delete"), h.Planification.Delete)

		auth.GET("/utilisateurs", perm("utilisateur-list"), h.Utilisateur.List)
		auth.GET("/utilisateurs/:id", perm("utilisateur-view"), h.Utilisateur.Get)
		auth.POST("/utilisateurs", perm("utilisateur-create"), h.Utilisateur.Create)
		auth.PUT("/utilisateurs/:id", perm("utilisateur-edit"), h.Utilisateur.Update)
		auth.DELETE("/utilisateurs/:id", perm("utilisateur-delete"), h.Utilisateur.Delete)
		auth.GET("/utilisateurs/:id/permissions", perm("utilisateur-view"), h.Utilisateur.Permissions)
		auth.GET("/utilisateurs/:id/roles", perm("utilisateur-view"), h.Utilisateur.Roles)
		auth.PUT("/utilisateurs/:id/roles", perm("utilisateur-edit"), h.Utilisateur.ReplaceRoles)

		auth.GET("/sections", perm("section-list"), h.Utilisateur.ListSections)
		auth.GET("/sections/:id", perm("section-view"), h.Utilisateur.GetSection)
		auth.POST("/sections", perm("section-create"), h.Utilisateur.CreateSection)
		auth.PUT("/sections/:id", perm("section-edit"), h.Utilisateur.UpdateSection)
		auth.DELETE("/sections/:id", perm("section-delete"), h.Utilisateur.DeleteSection)

		auth.GET("/roles", perm("role-list"), h.Role.List)
		auth.GET("/roles/:id", perm("role-view"), h.Role.Get)
		auth.POST("/roles", perm("role-create"), h.Role.Create)
		auth.PUT("/roles/:id", perm("role-edit"), h.Role.Update)
		auth.DELETE("/roles/:id", perm("role-delete"), h.Role.Delete)
		auth.GET("/roles/:id/permissions", perm("role-view"), h.Role.Permissions)
		auth.PUT("/roles/:id/permissions", perm("role-edit"), h.Role.ReplacePermissions)

		auth.GET("/permissions", perm("permission-list"), h.Role.ListPermissions)
		auth.POST("/permissions/generate-crud", perm("permission-create"), h.Role.GenerateCRUD)
		auth.GET("/permissions/:id", perm("permission-view"), h.Role.GetPermission)
		auth.POST("/permissions", perm("permission-create"), h.Role.CreatePermission)
		auth.PUT("/permissions/:id", perm("permission-edit"), h.Role.UpdatePermission)
		auth.DELETE("/permissions/:id", perm("permission-delete"), h.Role.DeletePermission)

		auth.GET("/prestataires", perm("prestataire-list"), h.Prestataire.List)
		auth.GET("/prestataires/:id", perm("prestataire-view"), h.Prestataire.Get)
		auth.GET("/prestataires/:id/rapports", perm("prestataire-view"), h.Prestataire.Rapports)
		auth.POST("/prestataires", perm("prestataire-create"), h.Prestataire.Create)
		auth.PUT("/prestataires/:id", perm("prestataire-edit"), h.Prestataire.Update)
		auth.DELETE("/prestataires/:id", perm("prestataire-delete"), h.Prestataire.Delete)

		auth.GET("/dashboard/statistics", perm("dashboard-list"), h.Dashboard.Statistics)
		auth.GET("/dashboard/urgent-interventions", perm("dashboard-list"), h.Dashboard.UrgentInterventions)
		auth.GET("/dashboard/upcoming-maintenance", perm("dashboard-list"), h.Dashboard.UpcomingMaintenance)
		auth.GET("/dashboard/recent-activities", perm("dashboard-list"), h.Dashboard.RecentActivities)
	}
}
