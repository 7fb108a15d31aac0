package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"katalog/internal/config"
	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
	log.Info("Server gracefully stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	// --- Product store ---
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Error closing product store")
		}
	}()

	if cfg.SeedDemo {
		seedProducts(ctx, store.Products)
	}

	// --- Optional RabbitMQ client for product events ---
	var mqClient *rabbitmq.Client
	if cfg.EventsEnabled() {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return err
		}
		defer mqClient.Close()
	}

	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	app := newApp(cfg, store.Products, publisher)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting server on port %s (store: %s)", cfg.AppPort, cfg.DBDriver)
		return app.Listen(cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		return app.Shutdown()
	})
	if mqClient != nil {
		g.Go(func() error {
			log.Info("Starting RabbitMQ consumer for product events...")
			return mqClient.ConsumeProductEvents(gctx, rabbitmq.LogProductEvent)
		})
	}
	return g.Wait()
}

// newApp builds the fiber application serving the product API under /api.
func newApp(cfg *config.Config, repo repositories.ProductRepository, publisher services.EventPublisher) *fiber.App {
	productService := services.NewProductService(repo, publisher).EnforceCategories(cfg.EnforceCategories)

	app := fiber.New(fiber.Config{
		AppName:               "katalog",
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins}))

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewProductHandler(productService).RegisterRoutes(api)

	// --- Health Check Endpoint ---
	handlers.NewHealthHandler(cfg.DBDriver, publisher != nil).RegisterRoutes(app)

	return app
}
