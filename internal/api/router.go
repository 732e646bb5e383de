package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/event-registry/internal/api/handlers"
	"github.com/isdelr/event-registry/internal/metrics"
	"github.com/isdelr/event-registry/internal/services"
	"github.com/isdelr/event-registry/internal/websocket"
)

// Options carries the optional collaborators of the router. Nil fields
// disable the routes that need them.
type Options struct {
	Hub            *websocket.Hub
	Health         handlers.HealthReporter
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(eventService services.EventServiceProvider, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Metrics))
	r.Use(jsonRecoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{handlers.SourceHeader},
		MaxAge:         300,
	}))

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(eventService)
	metaHandler := handlers.NewMetaHandler(opts.Health)

	r.Get("/", metaHandler.Root)
	r.Get("/version", metaHandler.Version)
	r.Get("/healthz", metaHandler.Health)

	r.Get("/events", eventHandler.GetAll)
	r.Post("/event", eventHandler.Create)
	r.Put("/event/like", eventHandler.Like)
	r.Delete("/event/like", eventHandler.Unlike)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	if opts.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(opts.Hub, eventService)
		r.Get("/ws", wsHandler.Serve)
	}

	return r
}
