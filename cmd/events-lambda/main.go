// Command events-lambda serves the events API as an AWS Lambda function
// behind an API Gateway proxy integration.
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isdelr/event-registry/internal/api"
	"github.com/isdelr/event-registry/internal/config"
	"github.com/isdelr/event-registry/internal/lambdaproxy"
	"github.com/isdelr/event-registry/internal/logger"
	"github.com/isdelr/event-registry/internal/models"
	"github.com/isdelr/event-registry/internal/services"
	"github.com/isdelr/event-registry/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, "json")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	eventStore, err := store.Open(ctx, cfg.Datastore)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Datastore.Driver).Msg("Failed to open event store")
	}

	// No hub, prober or metrics: invocations are short-lived.
	eventService := services.NewEventService(eventStore, models.SampleEvents(), nil, nil)
	router := api.NewRouter(eventService, api.Options{AllowedOrigins: cfg.AllowedOrigins})

	lambda.Start(lambdaproxy.New(router).Handle)
}
