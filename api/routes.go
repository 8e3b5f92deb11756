package api

import (
	"github.com/gorilla/mux"

	"github.com/garnizeh/oppboard/internal/config"
	"github.com/garnizeh/oppboard/internal/jobs"
	"github.com/garnizeh/oppboard/pkg/models"
	"github.com/garnizeh/oppboard/pkg/repository"
)

// SetupRoutes builds the HTTP router over store. enq receives background jobs
// and may be nil.
func SetupRoutes(cfg *config.Config, version, buildTime string, store repository.Store, enq jobs.Enqueuer) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(store, store, cfg.JWTSecret, cfg.TokenDuration)
	oppHandler := NewOpportunityHandler(store, store, enq)
	savedHandler := NewSavedHandler(store, store)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")
	apiV1.HandleFunc("/me", authHandler.Me).Methods("GET")
	apiV1.HandleFunc("/me", authHandler.UpdateMe).Methods("PUT")

	// Browse and saved endpoints
	apiV1.HandleFunc("/opportunities", oppHandler.ListActive).Methods("GET")
	apiV1.HandleFunc("/opportunities/{id}", oppHandler.Get).Methods("GET")
	apiV1.HandleFunc("/saved", savedHandler.List).Methods("GET")
	apiV1.HandleFunc("/saved/{id}", savedHandler.Save).Methods("POST")
	apiV1.HandleFunc("/saved/{id}", savedHandler.Unsave).Methods("DELETE")

	// Provider endpoints
	provider := apiV1.PathPrefix("/provider").Subrouter()
	provider.Use(RequireRole(models.RoleProvider))
	provider.HandleFunc("/opportunities", oppHandler.ListMine).Methods("GET")
	provider.HandleFunc("/opportunities", oppHandler.Create).Methods("POST")
	provider.HandleFunc("/opportunities/{id}", oppHandler.Update).Methods("PUT")
	provider.HandleFunc("/opportunities/{id}/active", oppHandler.SetActive).Methods("PATCH")
	provider.HandleFunc("/opportunities/{id}", oppHandler.Delete).Methods("DELETE")

	return r
}
