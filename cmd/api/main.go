package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/accounts"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/httpx"
	kafkax "github.com/example/storefront/internal/kafka"
	"github.com/example/storefront/internal/orders"
	"github.com/example/storefront/internal/postgres"
	"github.com/example/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	prodCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, logger)
	prodCreated.Start(ctx)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024, logger)
	prodStatus.Start(ctx)

	// Repos & handlers
	ordersRepo := &orders.Repo{DB: db}
	api := &httpx.API{
		Accounts: &httpx.AccountsHandler{Store: &accounts.Repo{DB: db}, Log: logger},
		Catalog:  &httpx.CatalogHandler{Store: &catalog.Repo{DB: db}, Log: logger},
		Cart: &httpx.CartHandler{
			Store:    &cart.Repo{DB: db},
			Checkout: ordersRepo,
			Producer: prodCreated,
			Redis:    rdb,
			Service:  cfg.ServiceName,
			Log:      logger,
		},
		Orders: &httpx.OrdersHandler{
			Store:    ordersRepo,
			Producer: prodStatus,
			Redis:    rdb,
			Service:  cfg.ServiceName,
			Log:      logger,
		},
		Authn: auth.Authenticate(&auth.RedisTokenStore{RDB: rdb}),
	}

	router := httpx.NewRouter(logger)
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodCreated.Close()
	prodStatus.Close()
	cancel()
	prodCreated.WaitClosed()
	prodStatus.WaitClosed()
}
