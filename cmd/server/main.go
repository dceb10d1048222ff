// Folio API server: portfolio CSV import and export over HTTP
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findosh/folio/internal/config"
	"github.com/findosh/folio/internal/handlers"
	"github.com/findosh/folio/internal/models"
	"github.com/findosh/folio/internal/services/auth"
	"github.com/findosh/folio/internal/services/backup"
	"github.com/findosh/folio/internal/services/exporter"
	"github.com/findosh/folio/internal/services/importer"
	"github.com/findosh/folio/internal/services/marketdata"
	"github.com/findosh/folio/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := cfg.NewLogger()

	storage.SetLogger(log)
	importer.SetLogger(log)
	exporter.SetLogger(log)
	marketdata.SetLogger(log)
	backup.SetLogger(log)

	// Initialize database
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(db)
	portfolioRepo := storage.NewPortfolioRepository(db)

	// Initialize services
	clock := models.SystemClock{}
	authService := auth.NewService(cfg, userRepo)
	prices := marketdata.NewService(marketdata.Config{
		Provider: marketdata.ParseProvider(cfg.MarketDataProvider),
		Clock:    clock,
	})

	h := handlers.New(handlers.Deps{
		Config:        cfg,
		Logger:        log,
		AuthService:   authService,
		PortfolioRepo: portfolioRepo,
		Prices:        prices,
		IDs:           models.UUIDGenerator{},
		Clock:         clock,
	})

	var scheduler *backup.Scheduler
	if cfg.BackupSchedule != "" {
		svc := backup.NewService(portfolioRepo, cfg.BackupDir, clock, prices)
		scheduler, err = backup.NewScheduler(svc, cfg.BackupSchedule)
		if err != nil {
			log.Fatalf("Failed to schedule backups: %v", err)
		}
		scheduler.Start()
		log.WithField("schedule", cfg.BackupSchedule).Info("backups scheduled")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("env", cfg.Environment).Infof("Folio server starting on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
