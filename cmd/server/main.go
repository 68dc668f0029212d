package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metromaps/internal/alert"
	"metromaps/internal/config"
	"metromaps/internal/handler"
	"metromaps/internal/hub"
	"metromaps/internal/repository/sqlite"
	"metromaps/internal/service"
	"metromaps/internal/watcher"
)

func main() {
	// Command line flags override config and environment
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	seed := flag.String("seed", "", "Map file imported when the database is empty")
	writeConfig := flag.String("write-config", "", `Write the effective config to this path ("default" for the per-user location) and exit`)
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting metro map editor...")

	if err := config.LoadDotEnv(config.DotEnvPaths()...); err != nil {
		log.Printf("Warning: %v", err)
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if *configPath != "" {
		cfg, path, err = config.LoadFromPath(*configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path != "" {
		log.Printf("Config loaded: %s", path)
	} else {
		log.Println("No config file found, using defaults")
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *seed != "" {
		cfg.Map.Seed = *seed
	}
	log.Println(cfg.Summary())

	if *writeConfig != "" {
		out := *writeConfig
		if out == "default" {
			out = config.DefaultConfigPath()
		}
		if err := cfg.Save(out); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.Printf("Config written: %s", out)
		return
	}

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go sseHub.Forward(ctx, eventChan)

	// Initialize services
	feed := alert.NewFeed(alert.Options{
		AgencyID:  cfg.Alerts.AgencyID,
		Language:  cfg.Alerts.Language,
		ActiveFor: cfg.Alerts.ActiveFor(),
	})
	mapSvc := service.NewMapService(repo, feed, eventBus)

	if err := mapSvc.Load(ctx); err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}
	if seeded, err := mapSvc.Seed(ctx, cfg.Map.Seed); err != nil {
		log.Fatalf("Failed to seed map: %v", err)
	} else if seeded {
		log.Printf("Seeded map from %s", cfg.Map.Seed)
	}

	// Re-import the seed file on change
	if cfg.Map.Watch && cfg.Map.Seed != "" {
		w := watcher.New(cfg.Map.Seed, func(ctx context.Context, path string) {
			if _, err := mapSvc.ImportFile(ctx, path); err != nil {
				log.Printf("Failed to reload %s: %v", path, err)
			}
		})
		go func() {
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	// Initialize HTTP handlers
	mapHandler := handler.NewMapHandler(mapSvc)
	router := handler.NewRouter(mapHandler, sseHub, handler.RouterOptions{
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// Create server. No write timeout: /events responses stay open.
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the hub first so open SSE streams end
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
