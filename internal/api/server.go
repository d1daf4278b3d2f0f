package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ordersync/internal/api/handlers"
	"ordersync/internal/api/middleware"
	"ordersync/internal/config"
	"ordersync/internal/database"
	"ordersync/internal/logger"
	"ordersync/internal/notify"
	"ordersync/internal/services/shopify"
	"ordersync/internal/sync"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, notifier notify.Notifier) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Owned dependencies, injected top-down
	client := shopify.NewClient(cfg.ShopDomain, cfg.AdminToken, logger)
	reconciler := sync.NewReconciler(db.DB, logger)
	policy := sync.RetryPolicy{
		MaxAttempts: cfg.SyncMaxRetries,
		BaseDelay:   cfg.SyncBackoffBase,
		MaxDelay:    30 * time.Second,
	}
	orchestrator := sync.NewOrchestrator(client, reconciler, notifier, logger, policy, cfg.SyncRecordDelay, cfg.SyncPageDelay)

	orderHandler := handlers.NewOrderHandler(db.DB, logger)
	syncHandler := handlers.NewSyncHandler(orchestrator, logger)
	webhookHandler := handlers.NewWebhookHandler(reconciler, notifier, client, cfg.WebhookSecret, cfg.AppURL, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/orders", orderHandler.List)
		v1.POST("/sync", syncHandler.Trigger)

		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/orders-create", webhookHandler.OrdersCreate)
			webhooks.POST("/orders-edited", webhookHandler.OrdersEdited)
			webhooks.GET("", webhookHandler.List)
			webhooks.POST("/register", webhookHandler.Register)
			webhooks.DELETE("", webhookHandler.DeleteAll)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// Full syncs run in-request and can take minutes on large catalogs.
		WriteTimeout: 15 * time.Minute,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
