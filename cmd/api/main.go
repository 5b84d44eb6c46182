// DesignLab API server.
//
// @title DesignLab API
// @version 1.0
// @description Multi-tenant design thinking platform: five-phase projects, the AI-guided Double Diamond engine, team collaboration, content library and plan-based billing.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/designlab-hq/designlab/internal/api/handlers"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/api/router"
	"github.com/designlab-hq/designlab/internal/config"
	"github.com/designlab-hq/designlab/internal/dedupe"
	"github.com/designlab-hq/designlab/internal/integrations"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/repository/postgres"
	"github.com/designlab-hq/designlab/internal/services"
	"github.com/designlab-hq/designlab/internal/worker"
	"github.com/designlab-hq/designlab/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	entityRepo := postgres.NewEntityRepository(db)
	ddRepo := postgres.NewDoubleDiamondRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	libraryRepo := postgres.NewLibraryRepository(db)

	// Duplicate-creation guard
	guard := dedupe.New(cfg.Dedup.Window, cfg.Dedup.SweepInterval)
	guard.Start()
	defer guard.Stop()

	// External collaborators
	ai := integrations.NewOpenAIClient(cfg.Provider.OpenAIAPIKey, cfg.Provider.OpenAIModel, log)
	stripeGateway := integrations.NewStripeGateway(cfg.Provider.StripeAPIKey, cfg.Provider.StripeWebhookSecret, log)

	// Services
	authService := services.NewAuthService(userRepo, cfg.Auth, log)
	userService := services.NewUserService(userRepo, log)
	projectService := services.NewProjectService(projectRepo, teamRepo, guard, log)
	ddService := services.NewDoubleDiamondService(ddRepo, ai, log)
	exportService := services.NewExportService(ddRepo, projectRepo, entityRepo, userRepo, planRepo, log)
	teamService := services.NewTeamService(teamRepo, projectService, userRepo, planRepo, log)
	libraryService := services.NewLibraryService(libraryRepo, ai, userRepo, planRepo, log)
	assistantService := services.NewAssistantService(ai, userRepo, planRepo, projectRepo, entityRepo, log)
	billingService := services.NewBillingService(userRepo, planRepo, stripeGateway, log)
	adminService := services.NewAdminService(userRepo, planRepo, projectRepo, ddRepo, log)

	val := validator.New()
	subGuard := middleware.NewSubscriptionGuard(userRepo, planRepo, projectRepo, entityRepo, ddRepo, log)

	h := &router.Handlers{
		Health:        handlers.NewHealthHandler(db, log),
		Auth:          handlers.NewAuthHandler(authService, userService, log, val),
		Project:       handlers.NewProjectHandler(projectService, log, val),
		Entity:        handlers.NewEntityHandler(projectService, entityRepo, log, val),
		DoubleDiamond: handlers.NewDoubleDiamondHandler(ddService, exportService, log, val),
		Team:          handlers.NewTeamHandler(teamService, log, val),
		Library:       handlers.NewLibraryHandler(libraryService, log, val),
		Assistant:     handlers.NewAssistantHandler(assistantService, log, val),
		Billing:       handlers.NewBillingHandler(billingService, stripeGateway, log, val),
		Admin:         handlers.NewAdminHandler(adminService, userService, log, val),
	}

	// Background maintenance
	scheduler := worker.NewScheduler(userRepo, teamRepo, log)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h, subGuard),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Forced shutdown: %v", err)
	}
	log.Info("Server stopped")
}
