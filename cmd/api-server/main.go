package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dishly/restaurant-api/internal/api"
	"github.com/dishly/restaurant-api/internal/config"
	"github.com/dishly/restaurant-api/internal/events"
	"github.com/dishly/restaurant-api/internal/store"
	"github.com/dishly/restaurant-api/internal/websocket"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	db, err := store.OpenPostgres(cfg.DSN(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Seed(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to seed database")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka publisher")
		}
		defer kafka.Close()
		publisher = kafka
	} else {
		logger.Info("KAFKA_BROKERS not set, event publishing disabled")
	}

	hub := websocket.NewHub(logger)

	handler := api.New(db, publisher, hub, logger, api.Config{
		UploadDir: cfg.UploadDir,
		ServerURL: cfg.ServerURL,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting restaurant API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server gracefully stopped")
}
