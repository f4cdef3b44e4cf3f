// Package api implements app.Runner for the reputation API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/cherrygram/reputation-api/pkg/app/http"
	"github.com/cherrygram/reputation-api/pkg/config"
	"github.com/cherrygram/reputation-api/pkg/limiter"
	"github.com/cherrygram/reputation-api/pkg/notifier"
	"github.com/cherrygram/reputation-api/pkg/pgutil"
	"github.com/cherrygram/reputation-api/pkg/repstore"
	repservice "github.com/cherrygram/reputation-api/pkg/reputation/service"
)

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting reputation API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() { _ = db.Close() }()
	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	store := repstore.NewStore(db)

	n, err := notifier.NewTelegram(&cfg.Telegram, logger)
	if err != nil {
		return fmt.Errorf("create notifier: %w", err)
	}

	rl := limiter.New(limiter.Config{
		Requests:      cfg.RateLimit.Requests,
		Window:        cfg.RateLimit.Window,
		IdleTTL:       cfg.RateLimit.IdleTTL,
		SweepInterval: cfg.RateLimit.SweepInterval,
	})
	defer rl.Close()

	svc := repservice.NewService(store, n, logger, repservice.Config{
		NotifyTextTimeout:  cfg.Telegram.TextTimeout,
		NotifyPhotoTimeout: cfg.Telegram.PhotoTimeout,
	})

	router := s.setupRouter(repservice.NewLog(svc, logger), rl, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) setupRouter(svc repservice.Service, rl *limiter.Limiter, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	r.Use(apphttp.CORS(s.cfg.CORS.AllowedOrigins))
	r.Use(apphttp.RequestLogger(logger))

	repservice.RegisterRoutes(r, svc, limiter.Middleware(rl), logger)

	if s.cfg.Monitoring.Enabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
		logger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))
	}

	return r
}
