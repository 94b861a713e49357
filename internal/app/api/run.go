package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cartsmemory "github.com/secondspine/bookstore/internal/domains/carts/adapters/memory"
	cartspostgres "github.com/secondspine/bookstore/internal/domains/carts/adapters/persistence/postgres"
	cartsapp "github.com/secondspine/bookstore/internal/domains/carts/application"
	cartsports "github.com/secondspine/bookstore/internal/domains/carts/ports"
	catalogmemory "github.com/secondspine/bookstore/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/secondspine/bookstore/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/secondspine/bookstore/internal/domains/catalog/application"
	catalogports "github.com/secondspine/bookstore/internal/domains/catalog/ports"
	customersmemory "github.com/secondspine/bookstore/internal/domains/customers/adapters/memory"
	customerspostgres "github.com/secondspine/bookstore/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/secondspine/bookstore/internal/domains/customers/application"
	customersports "github.com/secondspine/bookstore/internal/domains/customers/ports"
	ordersrabbit "github.com/secondspine/bookstore/internal/domains/orders/adapters/events/rabbitmq"
	ordersmemory "github.com/secondspine/bookstore/internal/domains/orders/adapters/memory"
	ordersobs "github.com/secondspine/bookstore/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/secondspine/bookstore/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/secondspine/bookstore/internal/domains/orders/application"
	ordersports "github.com/secondspine/bookstore/internal/domains/orders/ports"
	"github.com/secondspine/bookstore/internal/platform/memtx"
	"github.com/secondspine/bookstore/internal/platform/migrations"
	platformobservability "github.com/secondspine/bookstore/internal/platform/observability"
	platformpostgres "github.com/secondspine/bookstore/internal/platform/postgres"
	"github.com/secondspine/bookstore/internal/transport/rest"
)

// repositories bundles per-context persistence plus the unit-of-work runner.
type repositories struct {
	orders    ordersports.Repository
	carts     cartsports.Repository
	customers customersports.Repository
	books     catalogports.Repository
	tx        ordersports.TxRunner
	cleanup   func()
}

// Run boots the bookstore HTTP API with observability, repositories, and the
// event publisher wired.
func Run(ctx context.Context) error {
	const serviceName = "bookstore-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	repos := buildRepositories(ctx, cfg, logger)
	defer repos.cleanup()

	orderOpts := []ordersapp.Option{ordersapp.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		publisher, err := ordersrabbit.NewPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Warn("order events disabled, broker unavailable", slog.String("error", err.Error()))
		} else {
			defer publisher.Close()
			orderOpts = append(orderOpts, ordersapp.WithEventPublisher(publisher))
			logger.Info("order events enabled")
		}
	}

	coreOrderService := ordersapp.NewService(repos.orders, repos.carts, repos.customers, repos.books, repos.tx, orderOpts...)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	services := rest.Services{
		Orders:    orderService,
		Catalog:   catalogapp.NewService(repos.books, catalogapp.WithLogger(logger)),
		Carts:     cartsapp.NewService(repos.carts, repos.books),
		Customers: customersapp.NewService(repos.customers),
	}

	router := rest.NewRouter(serviceName, services)
	addr := ":" + cfg.Port
	logger.Info("bookstore API listening",
		slog.String("addr", addr), slog.String("environment", cfg.Environment))
	if err := router.Run(addr); err != nil {
		logger.Error("bookstore API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildRepositories wires postgres-backed adapters when a DSN is configured
// and falls back to in-memory ones otherwise. Both variants share the same
// unit-of-work contract.
func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) repositories {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories()
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories()
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate schema, falling back to memory", slog.String("error", err.Error()))
		platformpostgres.Close(db, logger)
		return memoryRepositories()
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		orders:    orderspostgres.NewRepository(db),
		carts:     cartspostgres.NewRepository(db),
		customers: customerspostgres.NewRepository(db),
		books:     catalogpostgres.NewRepository(db),
		tx:        platformpostgres.NewTxRunner(db),
		cleanup:   func() { platformpostgres.Close(db, logger) },
	}
}

func memoryRepositories() repositories {
	orders := ordersmemory.NewRepository()
	carts := cartsmemory.NewRepository()
	customers := customersmemory.NewRepository()
	books := catalogmemory.NewRepository()
	return repositories{
		orders:    orders,
		carts:     carts,
		customers: customers,
		books:     books,
		tx:        memtx.NewRunner(orders, carts, customers, books),
		cleanup:   func() {},
	}
}
