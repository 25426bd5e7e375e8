package main

import (
	"context"
	"log"

	"kitchen-dispatch/internal/config"
	"kitchen-dispatch/internal/modules/delivery"
	"kitchen-dispatch/internal/modules/kitchen"
	"kitchen-dispatch/internal/modules/orders"
	"kitchen-dispatch/pkg/platforms"
	"kitchen-dispatch/pkg/printing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	dispatcher := platforms.NewDispatcher(cfg, logger)
	printer := printing.NewEscposService()

	kitchenSvc := kitchen.NewService(kitchen.NewRepository(pool), dispatcher, printer)
	intakeSvc := orders.NewService(orders.NewRepository(pool))
	deliverySvc := delivery.NewService(delivery.NewRepository(pool), dispatcher, logger)

	kitchenHandler := kitchen.NewHandler(kitchenSvc)
	intakeHandler := orders.NewHandler(intakeSvc)
	deliveryHandler := delivery.NewHandler(deliverySvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	auth := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(jwt.RegisteredClaims)
		},
	})

	// Public surfaces: salon screens and platform webhooks.
	kitchenHandler.RegisterPublicRoutes(e.Group("/kitchen"))
	deliveryHandler.RegisterWebhookRoutes(e.Group("/delivery"))

	// Everything else requires a staff token.
	kitchenHandler.RegisterRoutes(e.Group("/kitchen", auth))
	deliveryHandler.RegisterRoutes(e.Group("/delivery", auth))
	intakeHandler.RegisterRoutes(e.Group("", auth))

	logger.Info("starting server", zap.String("port", cfg.ServerPort))
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	return zapcfg.Build()
}
