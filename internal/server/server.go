package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sales-inventory/internal/config"
	"sales-inventory/internal/database"
	"sales-inventory/internal/domain"
	custommiddleware "sales-inventory/internal/middleware"
	"sales-inventory/internal/repository"
	"sales-inventory/internal/service"
	"sales-inventory/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires services and handlers over store. db and redisClient are
// optional: without db the health check skips the database, and without
// redisClient rate limiting is off.
func NewServer(cfg *config.Config, logger *zap.Logger, store repository.Store, db database.Service, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS, cfg.Server.IsDevelopment()))

	s := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	router.Get("/health", s.health)

	guards := s.guards()
	reportOpts := service.ReportOptions{
		LowStockThreshold: cfg.Reports.LowStockThreshold,
		LowStockLimit:     cfg.Reports.LowStockLimit,
		TopSellersLimit:   cfg.Reports.TopSellersLimit,
	}

	transport.NewPartyHandler(service.NewCustomerService(store), domain.PartyCustomer, logger).RegisterRoutes(router, guards)
	transport.NewPartyHandler(service.NewSellerService(store), domain.PartySeller, logger).RegisterRoutes(router, guards)
	transport.NewProductHandler(service.NewProductService(store), logger).RegisterRoutes(router, guards)
	transport.NewSaleHandler(service.NewSaleService(store), logger).RegisterRoutes(router, guards)
	transport.NewPurchaseOrderHandler(service.NewPurchaseOrderService(store), logger).RegisterRoutes(router, guards)
	transport.NewReportHandler(service.NewReportService(store, reportOpts), logger).RegisterRoutes(router, guards)

	return s
}

func (s *Server) guards() transport.Guards {
	var g transport.Guards

	if s.config.JWT.Secret != "" {
		g.Auth = custommiddleware.AuthMiddleware(s.config.JWT.Secret, s.logger)
		g.Admin = custommiddleware.RequireAdmin(s.logger)
	} else {
		s.logger.Warn("JWT_SECRET is not set, mutating routes are unauthenticated")
	}

	if s.config.RateLimit.Enabled && s.redis != nil {
		g.RateLimit = custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: s.config.RateLimit.Requests,
			Window:            s.config.RateLimit.Window,
			KeyPrefix:         "ratelimit:stock",
		}, s.logger)
	}

	return g
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}

	if s.db != nil {
		dbHealth := s.db.Health(r.Context())
		body["database"] = dbHealth
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}

	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			// Rate limiting fails open, so Redis is not critical.
			body["redis"] = map[string]string{"status": "down", "error": err.Error()}
		} else {
			body["redis"] = map[string]string{"status": "up"}
		}
	}

	custommiddleware.RespondWithJSON(w, status, body)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
