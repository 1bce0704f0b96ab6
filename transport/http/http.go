package http

import (
	"context"
	"errors"
	"expo/config"
	_ "expo/docs"
	"expo/infras/kafka"
	"expo/infras/otel"
	"expo/infras/postgres"
	"expo/internal/domains/exhibition/reminder"
	"expo/shared/constant"
	"expo/transport/http/middleware"
	"expo/transport/http/response"
	"expo/transport/http/router"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
	healthTimeout     = 2 * time.Second
)

// Dependencies are the long-lived clients the server checks on /health and
// releases on shutdown.
type Dependencies struct {
	DB    *postgres.Connection
	Redis *goRedis.Client
	Kafka kafka.Client
	Otel  otel.Otel
}

type HTTP struct {
	Config       *config.Config
	Router       router.Router
	Middleware   middleware.AppMiddleware
	Reminder     reminder.Reminder
	Dependencies Dependencies
	State        ServerState
	mux          *chi.Mux
	server       *http.Server
	once         sync.Once
}

func New(cfg *config.Config, r router.Router, appMiddleware middleware.AppMiddleware, rem reminder.Reminder, deps Dependencies) *HTTP {
	return &HTTP{
		Config:       cfg,
		Router:       r,
		Middleware:   appMiddleware,
		Reminder:     rem,
		Dependencies: deps,
	}
}

// Serve runs the server and its background jobs until SIGINT or SIGTERM.
func (h *HTTP) Serve() {
	h.setup()

	if err := h.Reminder.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start exhibition reminder")
	}

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})

	h.setupGracefulShutdown(done)

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// ServeHTTP lets the application run behind a serverless entrypoint.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()

	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.State = ServerStateReady
	})
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.Recoverer)
	h.mux.Use(h.Middleware.Tracing)

	if corsCfg := h.Config.App.CORS; corsCfg.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsCfg.AllowedOrigins,
			AllowedMethods:   corsCfg.AllowedMethods,
			AllowedHeaders:   corsCfg.AllowedHeaders,
			AllowCredentials: corsCfg.AllowCredentials,
			ExposedHeaders:   []string{constant.RequestHeaderContentDisposition},
			MaxAge:           corsCfg.MaxAgeSeconds,
		}))
	}

	h.mux.Use(h.Middleware.RateLimit())

	h.mux.Get("/health", h.health)
	h.mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h.Router.SetupRoutes(h.mux)
}

func (h *HTTP) health(w http.ResponseWriter, r *http.Request) {
	switch h.State {
	case ServerStateReady:
		if err := h.ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			response.WithUnhealthy(w)

			return
		}

		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if h.Dependencies.DB != nil {
		if err := h.Dependencies.DB.Ping(ctx); err != nil {
			return err //nolint:wrapcheck
		}
	}

	if h.Dependencies.Redis != nil {
		if err := h.Dependencies.Redis.Ping(ctx).Err(); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func (h *HTTP) setupGracefulShutdown(done chan struct{}) {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh, done)
}

func (h *HTTP) respondToSigterm(signals chan os.Signal, done chan struct{}) {
	<-signals

	defer close(done)

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		shutdownConfig := h.Config.Server.Shutdown

		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.State = ServerStateInGracePeriod

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

		log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

		h.State = ServerStateInCleanupPeriod

		time.Sleep(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server")
	}

	if err := h.Reminder.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to stop exhibition reminder")
	}

	h.release(ctx)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) release(ctx context.Context) {
	deps := h.Dependencies

	if deps.Kafka != nil {
		if err := deps.Kafka.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close kafka writer")
		}
	}

	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}

	if err := deps.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connections")
	}

	if deps.Otel != nil {
		if err := deps.Otel.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}
}
