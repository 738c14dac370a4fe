package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/aarambh-bootcamp/registration-api/internal/auth"
	"github.com/aarambh-bootcamp/registration-api/internal/config"
	"github.com/aarambh-bootcamp/registration-api/internal/database"
	"github.com/aarambh-bootcamp/registration-api/internal/handlers"
	"github.com/aarambh-bootcamp/registration-api/internal/notifier"
	"github.com/aarambh-bootcamp/registration-api/internal/store"
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, nil)))

	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	configs := store.NewConfigStore(db)
	regs := store.NewRegistrationStore(db)

	siteCfg, err := configs.Get(context.Background())
	if err != nil {
		slog.Error("failed to load site configuration", "error", err)
		os.Exit(1)
	}

	// Initialize Notifiers
	var notifiers []notifier.Notifier
	if email := notifier.NewEmailNotifier(cfg, siteCfg.SiteInfo.BootcampTitle); email != nil {
		notifiers = append(notifiers, email)
	} else {
		slog.Warn("SMTP not configured, confirmation emails disabled")
	}
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			slog.Warn("Discord notifier not initialized", "error", err)
		} else {
			notifiers = append(notifiers, notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID))
		}
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	if err := authHandler.EnsureAdmin(context.Background()); err != nil {
		slog.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}
	configHandler := handlers.NewConfigHandler(configs, authHandler)
	registrationHandler := handlers.NewRegistrationHandler(configs, regs, authHandler, notifiers...)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, authHandler, configHandler, registrationHandler)

	// Start Server
	slog.Info("starting server", "port", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
