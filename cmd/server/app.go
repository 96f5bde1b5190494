package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgo/missions/api/internal/config"
	"github.com/forgo/missions/api/internal/handler"
	"github.com/forgo/missions/api/internal/middleware"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/repository"
	"github.com/forgo/missions/api/internal/service"
	"github.com/forgo/missions/api/internal/translate"
)

// app holds the wired services behind the HTTP surface
type app struct {
	store   *repository.Store
	tokens  middleware.TokenValidator
	replays *middleware.ReplayCache

	missions        *service.MissionService
	recommendations *service.RecommendationService
	completions     *service.CompletionService
	users           *service.UserService
	categories      *service.CategoryService
}

// newApp wires services over store
func newApp(store *repository.Store, translator *translate.Translator, rec service.Recommender, tokens middleware.TokenValidator) *app {
	return &app{
		store:   store,
		tokens:  tokens,
		replays: middleware.NewReplayCache(middleware.ReplayConfig{}),
		missions: service.NewMissionService(service.MissionServiceConfig{
			MissionRepo:       store.Missions,
			LikeRepo:          store.Likes,
			ParticipationRepo: store.Participations,
			Translator:        translator,
		}),
		recommendations: service.NewRecommendationService(service.RecommendationServiceConfig{
			MissionRepo: store.Missions,
			UserRepo:    store.Users,
			Recommender: rec,
			Translator:  translator,
		}),
		completions: service.NewCompletionService(service.CompletionServiceConfig{
			UnitOfWork: store.UnitOfWork,
			Translator: translator,
		}),
		users: service.NewUserService(service.UserServiceConfig{
			UserRepo:   store.Users,
			Translator: translator,
		}),
		categories: service.NewCategoryService(store.Categories, translator),
	}
}

// routes builds the router with the global middleware stack
func (a *app) routes(cfg *config.Config) http.Handler {
	missionHandler := handler.NewMissionHandler(a.missions, a.recommendations, a.completions)
	userHandler := handler.NewUserHandler(a.users)
	categoryHandler := handler.NewCategoryHandler(a.categories)
	tabHandler := handler.NewTabHandler(model.DefaultTabs())
	healthHandler := handler.NewHealthHandler(a.store)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.Metrics,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", middleware.IdempotencyHeader},
			ExposedHeaders: []string{"X-Request-ID", "Idempotent-Replayed"},
			MaxAge:         300,
		}),
	)
	if cfg.RateLimit.Requests > 0 {
		r.Use(httprate.Limit(cfg.RateLimit.Requests, cfg.RateLimit.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				handler.WriteError(w, model.NewRateLimitError())
			}),
		))
	}
	r.Use(chimw.Compress(5))

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	auth := middleware.Auth(a.tokens)
	optionalAuth := middleware.OptionalAuth(a.tokens)
	idempotent := middleware.Idempotency(a.replays)

	r.Route("/v1", func(r chi.Router) {
		// Anonymous callers allowed
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/categories", categoryHandler.List)
			r.Get("/tabs", tabHandler.List)
			r.Get("/missions", missionHandler.ListMissions)
			r.Get("/missions/{missionId}", missionHandler.GetMission)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/missions/ai-recommend", missionHandler.Recommend)
			r.With(idempotent).Post("/missions/{missionId}/like", missionHandler.ToggleLike)
			r.With(idempotent).Post("/missions/{missionId}/participate", missionHandler.Participate)
			r.With(idempotent).Post("/missions/{missionId}/complete", missionHandler.Complete)

			r.Get("/users/me", userHandler.GetMe)
			r.Get("/users/me/preferences", userHandler.GetPreferences)
			r.Post("/users/me/preferences", userHandler.SetPreferences)
		})
	})

	return r
}

// newHTTPServer applies the configured timeouts
func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
}
