package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/designlab-hq/designlab/internal/api/handlers"
	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/config"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/metrics"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Project       *handlers.ProjectHandler
	Entity        *handlers.EntityHandler
	DoubleDiamond *handlers.DoubleDiamondHandler
	Team          *handlers.TeamHandler
	Library       *handlers.LibraryHandler
	Assistant     *handlers.AssistantHandler
	Billing       *handlers.BillingHandler
	Admin         *handlers.AdminHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers, guard *middleware.SubscriptionGuard) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware())

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Prometheus scrape endpoint
		r.Handle("/metrics", metrics.Handler())

		// Auth
		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.RefreshToken)

		// Aliases without version prefix
		r.Post("/api/auth/register", h.Auth.Register)
		r.Post("/api/auth/login", h.Auth.Login)
		r.Post("/api/auth/refresh", h.Auth.RefreshToken)

		// Purchasable tiers are public so the pricing page needs no session
		r.Get("/api/v1/plans", h.Billing.ListPlans)

		// Billing provider webhook (signature-verified, not JWT-protected)
		r.Post("/api/v1/billing/webhook", h.Billing.Webhook)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		r.Get("/api/v1/auth/me", h.Auth.Me)
		r.Get("/api/auth/me", h.Auth.Me)

		// Five-phase projects and their sub-entities
		r.Route("/api/v1/projects", func(r chi.Router) {
			r.Get("/", h.Project.List)
			r.With(guard.RequireProjectSlot).Post("/", h.Project.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Project.Get)
				r.Put("/", h.Project.Update)
				r.Delete("/", h.Project.Delete)

				r.Route("/empathy-maps", func(r chi.Router) {
					r.Get("/", h.Entity.ListEmpathyMaps)
					r.Post("/", h.Entity.CreateEmpathyMap)
					r.Put("/{entityID}", h.Entity.UpdateEmpathyMap)
					r.Delete("/{entityID}", h.Entity.DeleteEmpathyMap)
				})

				r.Route("/personas", func(r chi.Router) {
					r.Get("/", h.Entity.ListPersonas)
					r.With(guard.RequirePersonaSlot).Post("/", h.Entity.CreatePersona)
					r.Put("/{entityID}", h.Entity.UpdatePersona)
					r.Delete("/{entityID}", h.Entity.DeletePersona)
				})

				r.Route("/interviews", func(r chi.Router) {
					r.Get("/", h.Entity.ListInterviews)
					r.Post("/", h.Entity.CreateInterview)
					r.Put("/{entityID}", h.Entity.UpdateInterview)
					r.Delete("/{entityID}", h.Entity.DeleteInterview)
				})

				r.Route("/observations", func(r chi.Router) {
					r.Get("/", h.Entity.ListObservations)
					r.Post("/", h.Entity.CreateObservation)
					r.Put("/{entityID}", h.Entity.UpdateObservation)
					r.Delete("/{entityID}", h.Entity.DeleteObservation)
				})

				r.Route("/pov-statements", func(r chi.Router) {
					r.Get("/", h.Entity.ListPovStatements)
					r.Post("/", h.Entity.CreatePovStatement)
					r.Put("/{entityID}", h.Entity.UpdatePovStatement)
					r.Delete("/{entityID}", h.Entity.DeletePovStatement)
				})

				r.Route("/hmw-questions", func(r chi.Router) {
					r.Get("/", h.Entity.ListHmwQuestions)
					r.Post("/", h.Entity.CreateHmwQuestion)
					r.Put("/{entityID}", h.Entity.UpdateHmwQuestion)
					r.Delete("/{entityID}", h.Entity.DeleteHmwQuestion)
				})

				r.Route("/ideas", func(r chi.Router) {
					r.Get("/", h.Entity.ListIdeas)
					r.Post("/", h.Entity.CreateIdea)
					r.Put("/{entityID}", h.Entity.UpdateIdea)
					r.Delete("/{entityID}", h.Entity.DeleteIdea)
				})

				r.Route("/prototypes", func(r chi.Router) {
					r.Get("/", h.Entity.ListPrototypes)
					r.Post("/", h.Entity.CreatePrototype)
					r.Put("/{entityID}", h.Entity.UpdatePrototype)
					r.Delete("/{entityID}", h.Entity.DeletePrototype)
				})

				r.Route("/test-plans", func(r chi.Router) {
					r.Get("/", h.Entity.ListTestPlans)
					r.Post("/", h.Entity.CreateTestPlan)
					r.Put("/{entityID}", h.Entity.UpdateTestPlan)
					r.Delete("/{entityID}", h.Entity.DeleteTestPlan)
					r.Get("/{entityID}/results", h.Entity.ListTestResults)
				})

				r.Route("/test-results", func(r chi.Router) {
					r.Post("/", h.Entity.CreateTestResult)
					r.Delete("/{entityID}", h.Entity.DeleteTestResult)
				})

				r.Route("/dvf-assessments", func(r chi.Router) {
					r.Get("/", h.Entity.ListDvfAssessments)
					r.Post("/", h.Entity.CreateDvfAssessment)
					r.Put("/{entityID}", h.Entity.UpdateDvfAssessment)
					r.Delete("/{entityID}", h.Entity.DeleteDvfAssessment)
				})

				r.Get("/ai-assets", h.Entity.ListAIAssets)
				r.Post("/generate-mvp", h.Assistant.GenerateMVP)

				// Team collaboration, scoped to the project
				r.Route("/team", func(r chi.Router) {
					r.Get("/members", h.Team.ListMembers)
					r.Put("/members/{userID}", h.Team.UpdateMemberRole)
					r.Delete("/members/{userID}", h.Team.RemoveMember)
					r.Get("/invites", h.Team.ListInvites)
					r.With(guard.RequireCollaboration).Post("/invites", h.Team.Invite)
				})
			})
		})

		// Invite acceptance is keyed by token, not project
		r.Post("/api/v1/invites/{token}/accept", h.Team.AcceptInvite)
		r.Post("/api/v1/invites/{token}/decline", h.Team.DeclineInvite)

		// Double Diamond engine
		r.Route("/api/v1/double-diamond", func(r chi.Router) {
			r.Get("/", h.DoubleDiamond.List)
			r.With(guard.RequireDoubleDiamondSlot).Post("/", h.DoubleDiamond.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.DoubleDiamond.Get)
				r.Delete("/", h.DoubleDiamond.Delete)
				r.Post("/generate/discover", h.DoubleDiamond.GenerateDiscover)
				r.Post("/generate/define", h.DoubleDiamond.GenerateDefine)
				r.Post("/generate/develop", h.DoubleDiamond.GenerateDevelop)
				r.Post("/generate/deliver", h.DoubleDiamond.GenerateDeliver)
				r.Post("/generate/dfv", h.DoubleDiamond.GenerateDFV)
				r.Post("/export", h.DoubleDiamond.Export)
			})
		})

		// Content library
		r.Route("/api/v1/library", func(r chi.Router) {
			r.Get("/", h.Library.List)
			r.Get("/{id}", h.Library.Get)
		})

		// AI assistant
		r.Post("/api/v1/assistant/chat", h.Assistant.Chat)

		// Billing
		r.Post("/api/v1/billing/checkout", h.Billing.CreateCheckout)

		// Admin surface
		r.Route("/api/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/dashboard", h.Admin.Dashboard)
			r.Get("/users", h.Admin.ListUsers)
			r.Get("/users/{id}/limits", h.Admin.GetCustomLimits)
			r.Put("/users/{id}/limits", h.Admin.SetCustomLimits)
			r.Get("/users/{id}/addons", h.Admin.ListUserAddons)
			r.Post("/users/{id}/addons", h.Admin.GrantAddon)
			r.Delete("/users/{id}/addons/{addonID}", h.Admin.RevokeAddon)

			r.Route("/library", func(r chi.Router) {
				r.Post("/", h.Library.Create)
				r.Put("/{id}", h.Library.Update)
				r.Delete("/{id}", h.Library.Delete)
			})
		})
	})

	return r
}
