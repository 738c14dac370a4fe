package handlers

import (
	"net/http"

	"github.com/aarambh-bootcamp/registration-api/internal/auth"
	"github.com/aarambh-bootcamp/registration-api/internal/config"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func RegisterRoutes(r *chi.Mux, cfg *config.Config, authHandler *auth.AuthHandler, configHandler *ConfigHandler, registrationHandler *RegistrationHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.ClientURL},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Initialize Huma API
	apiConfig := huma.DefaultConfig("Bootcamp Registration API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	api := humachi.New(r, apiConfig)

	withAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"bearerAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Post(api, "/admin/login", authHandler.HandleLogin)
	huma.Get(api, "/config", configHandler.HandleGetConfig)
	huma.Get(api, "/registration/status", registrationHandler.HandleStatus)
	huma.Post(api, "/registration", registrationHandler.HandleCreate, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
	})

	// Privileged routes
	huma.Put(api, "/config/form-fields", configHandler.HandleUpdateFormFields, withAuth)
	huma.Put(api, "/config/site-info", configHandler.HandleUpdateSiteInfo, withAuth)
	huma.Get(api, "/registration", registrationHandler.HandleList, withAuth)
	huma.Get(api, "/registration/stats/summary", registrationHandler.HandleStats, withAuth)
	huma.Get(api, "/registration/{id}", registrationHandler.HandleGet, withAuth)
	huma.Put(api, "/registration/{id}/status", registrationHandler.HandleUpdateStatus, withAuth)
	huma.Delete(api, "/registration/{id}", registrationHandler.HandleDelete, withAuth)
}
