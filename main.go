package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/event-registry/internal/api"
	"github.com/isdelr/event-registry/internal/config"
	"github.com/isdelr/event-registry/internal/logger"
	"github.com/isdelr/event-registry/internal/metrics"
	"github.com/isdelr/event-registry/internal/models"
	"github.com/isdelr/event-registry/internal/monitoring"
	"github.com/isdelr/event-registry/internal/services"
	"github.com/isdelr/event-registry/internal/store"
	"github.com/isdelr/event-registry/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Set up the event store
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	eventStore, err := store.Open(ctx, cfg.Datastore)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Datastore.Driver).Msg("Failed to open event store")
	}
	defer eventStore.Close()

	m := metrics.New()

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(eventStore, models.SampleEvents(), hub, m)

	// Set up and run the background store prober
	prober, err := monitoring.NewProber(eventStore, cfg.ProbeSchedule, m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up store prober")
	}
	go prober.Run()

	// Set up router
	router := api.NewRouter(eventService, api.Options{
		Hub:            hub,
		Health:         prober,
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("driver", cfg.Datastore.Driver).Msg("Events app listening")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	prober.Stop() // Stop the store prober
	hub.Stop()    // Disconnect websocket clients

	log.Info().Msg("Server exiting")
}
