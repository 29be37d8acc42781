package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/jonasmwansa/portfolio-backend/config"
	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/services"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Database database.Database
	Auth     *services.AuthService
	Contact  *services.ContactRelay
	Media    services.MediaStore
	Recorder *services.AnalyticsRecorder
	Config   map[string]string
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies) (Server, error) {
	if deps.Auth == nil {
		return Server{}, errors.New("auth service is required")
	}
	if deps.Contact == nil || deps.Media == nil {
		return Server{}, errors.New("contact relay and media store are required")
	}
	if deps.Recorder == nil {
		deps.Recorder = services.NewAnalyticsRecorder(deps.Database.AnalyticsRepo())
	}
	c := deps.Config

	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 60)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(middleware.StripSlashes)

	// Apply CORS middleware
	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	// Initialize all handlers
	handlers := initializeHandlers(deps)

	// Initialize middleware
	authMiddleware := newAuthMiddleware(deps.Auth)
	site := newSiteMiddleware(deps.Database.SiteSettingsRepo(), deps.Recorder)

	chiRouter.Get("/health", healthCheck(deps.Database, router.startupTime))
	if local, ok := deps.Media.(*services.LocalMediaStore); ok {
		chiRouter.Mount("/media", http.StripPrefix("/media", local.Handler()))
	}

	// Setup all route types
	setupPublicRoutes(chiRouter, handlers, site, config.GetInt(router.config, "CONTACT_RATE_PER_MINUTE", 5))
	setupDashboardRoutes(chiRouter, handlers, authMiddleware, config.GetInt(router.config, "LOGIN_RATE_PER_MINUTE", 10))

	return chiRouter
}

// HealthResponse reports liveness and database reachability.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

func healthCheck(db database.Database, startupTime time.Time) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "healthCheck").Logger())

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok", Database: "ok", Uptime: time.Since(startupTime).Round(time.Second).String()}
		status := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check could not reach the database")
			resp.Status, resp.Database = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
		responder.WriteJSONStatus(w, status, resp)
	}
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
