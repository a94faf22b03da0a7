package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/anamartins/controledoces-backend/api/controllers"
	"github.com/anamartins/controledoces-backend/api/routes"
	internalauth "github.com/anamartins/controledoces-backend/internal/auth"
	"github.com/anamartins/controledoces-backend/internal/customers"
	"github.com/anamartins/controledoces-backend/internal/dashboard"
	"github.com/anamartins/controledoces-backend/internal/products"
	"github.com/anamartins/controledoces-backend/internal/sales"
	"github.com/anamartins/controledoces-backend/internal/settlements"
	"github.com/anamartins/controledoces-backend/internal/suppliers"
	"github.com/anamartins/controledoces-backend/internal/users"
	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/db"
	"github.com/anamartins/controledoces-backend/pkg/logger"
	"github.com/anamartins/controledoces-backend/pkg/metrics"
	"github.com/anamartins/controledoces-backend/pkg/migrate"
	"github.com/anamartins/controledoces-backend/pkg/redis"
)

const shutdownGrace = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Options{ServiceName: "controledoces-api"})
		boot.Error(context.Background(), "failed to load configuration", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "controledoces-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "fatal error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPMetrics()

	deps := routes.Dependencies{
		Logger:    logg,
		Metrics:   httpMetrics,
		JWTConfig: cfg.JWT,
		ReplayTTL: cfg.Redis.ReplayTTL,
	}

	// Proxy mode needs no database of its own.
	if cfg.CloudProxy.Enabled() {
		proxy, err := controllers.NewCloudProxyController(cfg.CloudProxy, logg)
		if err != nil {
			return err
		}
		deps.Health = controllers.NewHealthController(nil)
		deps.CloudProxy = proxy
		logg.Info(logg.WithField(ctx, "upstream", cfg.CloudProxy.URL), "starting in cloud proxy mode")
		return serve(ctx, cfg, logg, routes.New(deps))
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Warn(ctx, "failed to close database connection")
		}
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
		return err
	}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		deps.IdempotencyStore = redisClient
	}

	conn := client.DB()

	usersRepo, err := users.NewRepository(conn)
	if err != nil {
		return err
	}
	suppliersRepo, err := suppliers.NewRepository(conn)
	if err != nil {
		return err
	}
	customersRepo, err := customers.NewRepository(conn)
	if err != nil {
		return err
	}
	productsRepo, err := products.NewRepository(conn)
	if err != nil {
		return err
	}
	salesRepo, err := sales.NewRepository(conn)
	if err != nil {
		return err
	}
	settlementsRepo, err := settlements.NewRepository(conn)
	if err != nil {
		return err
	}
	dashboardRepo, err := dashboard.NewRepository(conn)
	if err != nil {
		return err
	}

	if cfg.FeatureFlags.SeedAdmin {
		if err := internalauth.EnsureDefaultAdmin(ctx, usersRepo, cfg.Password, logg); err != nil {
			return err
		}
	}

	engine, err := settlements.NewEngine(conn)
	if err != nil {
		return err
	}

	authSvc, err := internalauth.NewService(usersRepo, cfg.JWT, cfg.Password, logg)
	if err != nil {
		return err
	}
	suppliersSvc, err := suppliers.NewService(suppliersRepo, logg)
	if err != nil {
		return err
	}
	customersSvc, err := customers.NewService(customersRepo, logg)
	if err != nil {
		return err
	}
	productsSvc, err := products.NewService(productsRepo, logg)
	if err != nil {
		return err
	}
	salesSvc, err := sales.NewService(client, salesRepo, productsSvc, engine, logg)
	if err != nil {
		return err
	}
	settlementsSvc, err := settlements.NewService(settlementsRepo, logg)
	if err != nil {
		return err
	}
	dashboardSvc, err := dashboard.NewService(dashboardRepo, settlementsSvc, settlementsRepo, logg)
	if err != nil {
		return err
	}

	deps.Health = controllers.NewHealthController(client)
	if deps.Auth, err = controllers.NewAuthController(authSvc, logg); err != nil {
		return err
	}
	if deps.Suppliers, err = controllers.NewSuppliersController(suppliersSvc, logg); err != nil {
		return err
	}
	if deps.Customers, err = controllers.NewCustomersController(customersSvc, logg); err != nil {
		return err
	}
	if deps.Products, err = controllers.NewProductsController(productsSvc, logg); err != nil {
		return err
	}
	if deps.Sales, err = controllers.NewSalesController(salesSvc, logg); err != nil {
		return err
	}
	if deps.Settlements, err = controllers.NewSettlementsController(settlementsSvc, logg); err != nil {
		return err
	}
	if deps.Dashboard, err = controllers.NewDashboardController(dashboardSvc, logg); err != nil {
		return err
	}

	return serve(ctx, cfg, logg, routes.New(deps))
}

func serve(ctx context.Context, cfg *config.Config, logg *logger.Logger, handler http.Handler) error {
	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
