// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/pujaya/auction-backend/internal/config"
	"github.com/pujaya/auction-backend/internal/database"
	"github.com/pujaya/auction-backend/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed admin user and default categories
	if err := database.SeedInitialData(db); err != nil {
		log.Fatal("Failed to seed initial data:", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(db, cfg)

	// Start the lifecycle sweeps: hourly expiry of ended auctions, daily
	// purge of soft-deleted rows past the grace window.
	var scheduler *cron.Cron
	if cfg.Scheduler.Enabled {
		sweeps := router.NewSchedulerService(db, cfg)
		scheduler = cron.New()

		if _, err := scheduler.AddFunc(cfg.Scheduler.ExpiryCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			count, err := sweeps.RunExpirySweep(ctx)
			if err != nil {
				logrus.WithError(err).Error("Expiry sweep failed")
				return
			}
			logrus.WithField("expired", count).Info("Expiry sweep completed")
		}); err != nil {
			log.Fatal("Failed to schedule expiry sweep:", err)
		}

		if _, err := scheduler.AddFunc(cfg.Scheduler.PurgeCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			count, err := sweeps.RunPurgeSweep(ctx)
			if err != nil {
				logrus.WithError(err).Error("Purge sweep failed")
				return
			}
			logrus.WithField("purged", count).Info("Purge sweep completed")
		}); err != nil {
			log.Fatal("Failed to schedule purge sweep:", err)
		}

		scheduler.Start()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop scheduling new sweeps and wait for running ones
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
