package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/dysebot/dashboard/internal/config"
	"github.com/dysebot/dashboard/internal/discord"
	"github.com/dysebot/dashboard/internal/docstore"
	"github.com/dysebot/dashboard/internal/leaderboard"
	"github.com/dysebot/dashboard/internal/log"
	"github.com/dysebot/dashboard/internal/server"
	"github.com/dysebot/dashboard/internal/session"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// Dashboard is the assembled application
type Dashboard struct {
	config     config.Config
	httpServer *server.HTTPServer
	store      docstore.Store
}

// NewDashboard builds the application with all dependencies wired
func NewDashboard(ctx context.Context, cfg config.Config) (*Dashboard, error) {
	log.LogInfoWithFields("dashboard", "Building dashboard application", map[string]any{
		"addr":         cfg.Server.Addr,
		"dashboardURL": cfg.Server.DashboardURL,
		"storage":      string(cfg.Storage.Kind),
	})

	store, err := setupStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup storage: %w", err)
	}

	discordClient, err := discord.New(discord.Config{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: string(cfg.Discord.ClientSecret),
		RedirectURI:  cfg.Discord.RedirectURI,
		BotToken:     string(cfg.Discord.BotToken),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord client: %w", err)
	}

	var sessionStore session.Store
	if cfg.Session.File != "" {
		log.LogInfoWithFields("dashboard", "Using file-backed session store", map[string]any{
			"file": cfg.Session.File,
		})
		sessionStore = session.NewFileStore(cfg.Session.File)
	} else {
		sessionStore = session.NewMemoryStore()
	}
	controller := session.NewController(sessionStore, nil)

	router := server.NewRouter(server.RouterDeps{
		Discord:        discordClient,
		Store:          store,
		Leaderboard:    leaderboard.NewService(store),
		Controller:     controller,
		DashboardURL:   cfg.Server.DashboardURL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	return &Dashboard{
		config:     cfg,
		httpServer: server.NewHTTPServer(router, cfg.Server.Addr),
		store:      store,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled
// or the server fails, then shuts down gracefully
func (d *Dashboard) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return d.httpServer.Start()
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return d.httpServer.Stop(shutdownCtx)
	})

	err := group.Wait()

	if closeErr := d.store.Close(); closeErr != nil {
		log.LogError("Failed to close document store: %v", closeErr)
	}

	log.LogInfoWithFields("dashboard", "Application shutdown complete", nil)
	return err
}

func setupStorage(ctx context.Context, cfg config.Config) (docstore.Store, error) {
	switch cfg.Storage.Kind {
	case config.StorageKindFirestore:
		log.LogInfoWithFields("storage", "Using Firestore storage", map[string]any{
			"project":  cfg.Storage.GCPProject,
			"database": cfg.Storage.Database,
		})
		return docstore.NewFirestoreStore(ctx, cfg.Storage.GCPProject, cfg.Storage.Database)
	case config.StorageKindMemory, "":
		log.LogInfoWithFields("storage", "Using in-memory storage", nil)
		return docstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage kind: %q", cfg.Storage.Kind)
	}
}
