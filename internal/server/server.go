package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"abs-store/internal/assistant"
	"abs-store/internal/config"
	custommiddleware "abs-store/internal/middleware"
	"abs-store/internal/repository"
	"abs-store/internal/service"
	"abs-store/internal/transport"
)

const (
	cartPruneInterval = 10 * time.Minute
	cartMaxIdle       = 24 * time.Hour
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	backend *Backend
	carts   service.CartService

	stop      chan struct{}
	closeOnce sync.Once
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, backend *Backend) *Server {
	// Initialize repositories
	productRepo := repository.NewProductRepository(backend.KV, logger)
	orderRepo := repository.NewOrderRepository(backend.KV, logger)
	settingsRepo := repository.NewSettingsRepository(backend.KV, logger)

	// Initialize services
	catalog := service.NewCatalogService(ctx, productRepo, logger)
	carts := service.NewCartService(catalog, logger)
	settings := service.NewSettingsService(ctx, settingsRepo, logger)
	orders := service.NewOrderService(ctx, orderRepo, carts, settings, service.OrderOptions{
		Locale: cfg.Shop.Locale,
	}, logger)
	admin := service.NewAdminService(settingsRepo, service.AdminOptions{
		JWTSecret:         cfg.JWT.Secret,
		TokenTTL:          time.Duration(cfg.JWT.AccessExpiry) * time.Minute,
		DefaultPassword:   cfg.Admin.DefaultPassword,
		MinPasswordLength: cfg.Admin.MinPasswordLength,
	}, logger)
	gateway := assistant.NewGateway(newGenerator(ctx, cfg, logger), settings, assistant.Config{
		ShopName:              cfg.Shop.Name,
		Location:              cfg.Shop.Location,
		Language:              cfg.Assistant.Language,
		Temperature:           cfg.Assistant.Temperature,
		FallbackNotConfigured: cfg.Assistant.FallbackNotConfigured,
		FallbackUnavailable:   cfg.Assistant.FallbackUnavailable,
		FallbackNoAnswer:      cfg.Assistant.FallbackNoAnswer,
	}, logger)

	handlers := routeHandlers{
		catalog:   transport.NewCatalogHandler(catalog, logger),
		cart:      transport.NewCartHandler(carts, logger),
		orders:    transport.NewOrderHandler(orders, logger),
		settings:  transport.NewSettingsHandler(settings, logger),
		admin:     transport.NewAdminHandler(admin, logger),
		assistant: transport.NewAssistantHandler(gateway, assistant.NewBusyGuard(), logger),

		authenticate: admin.Authenticate,
	}

	server := &Server{
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// No WriteTimeout: assistant replies are awaited without a deadline
		},
		config:  cfg,
		logger:  logger,
		backend: backend,
		carts:   carts,
		stop:    make(chan struct{}),
	}
	server.Handler = server.routes(handlers)

	go server.pruneCarts()

	return server
}

type routeHandlers struct {
	catalog   *transport.CatalogHandler
	cart      *transport.CartHandler
	orders    *transport.OrderHandler
	settings  *transport.SettingsHandler
	admin     *transport.AdminHandler
	assistant *transport.AssistantHandler

	authenticate custommiddleware.TokenValidator
}

func (s *Server) routes(h routeHandlers) http.Handler {
	cfg := s.config
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(custommiddleware.SessionMiddleware)

	router.Get("/health", s.health)

	h.catalog.RegisterRoutes(router)
	h.settings.RegisterRoutes(router)
	h.cart.RegisterRoutes(router)
	h.orders.RegisterRoutes(router)
	h.assistant.RegisterRoutes(router, s.rateLimiter("rl:assistant"))

	authMiddleware := custommiddleware.AuthMiddleware(h.authenticate, s.logger)

	router.Route("/api/admin", func(r chi.Router) {
		r.With(s.rateLimiter("rl:login")).Post("/login", h.admin.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(custommiddleware.RequireAdmin(s.logger))

			h.catalog.RegisterAdminRoutes(r)
			h.orders.RegisterAdminRoutes(r)
			h.settings.RegisterAdminRoutes(r)
			h.admin.RegisterAdminRoutes(r)
		})
	})

	return router
}

// rateLimiter returns the Redis limiter for a route group, or a pass-through without Redis
func (s *Server) rateLimiter(prefix string) func(http.Handler) http.Handler {
	if s.backend.Redis == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return custommiddleware.RateLimitMiddleware(s.backend.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: s.config.RateLimit.RequestsPerWindow,
		Window:            s.config.RateLimit.Window,
		KeyPrefix:         prefix,
	}, s.logger)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]interface{}{
		"status":  "ok",
		"backend": s.config.Store.Backend,
	}
	code := http.StatusOK

	if err := s.backend.KV.Ping(ctx); err != nil {
		s.logger.Warn("Store health check failed", zap.Error(err))
		status["status"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if s.backend.DB != nil {
		status["database"] = s.backend.DB.Health(ctx)
	}

	custommiddleware.RespondWithJSON(w, code, status)
}

func (s *Server) pruneCarts() {
	ticker := time.NewTicker(cartPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.carts.PruneIdle(cartMaxIdle)
		case <-s.stop:
			return
		}
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) assistant.Generator {
	generator, err := assistant.NewGeminiGenerator(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			logger.Warn("Assistant API key not set; replies will use the fallback text")
		} else {
			logger.Error("Failed to create assistant client", zap.Error(err))
		}
		return nil
	}
	return generator
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		err = s.backend.Close()
		if err != nil {
			s.logger.Error("Failed to close backend", zap.Error(err))
		}
	})

	_ = s.logger.Sync()
	return err
}
