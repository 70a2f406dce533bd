package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/shipping"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[storefront-service] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	dsn := db.GetDSN()
	if err := db.RunMigrations(dsn, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database := db.MustOpen()
	defer database.Close()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		logger.Fatalf("db pool: %v", err)
	}
	defer pool.Close()

	// The catalog is read-mostly; load it once and serve from memory.
	products, err := catalog.NewRepository(database).LoadAll(ctx)
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	cat := catalog.New(products)
	logger.Printf("catalog loaded: %d products", cat.Len())

	cartRepo := cart.NewRepository(database)
	shippingRepo := shipping.NewRepository(database)
	orderRepo := order.NewRepository(database)
	discountRepo := discount.NewPostgresRepository(pool)
	sequenceRepo := sequence.NewRepository(database)
	dedupRepo := dedup.NewRepository(database)

	// --- AMQP ---
	rabbitConn := events.MustDialRabbit()
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn, sequenceRepo)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}

	completedHandler := events.OrderCompletedHandler(database, orderRepo, discountRepo, dedupRepo, logger)
	if err := events.StartConsumer(ctx, rabbitConn, events.OrderCompletedQueue, completedHandler, logger); err != nil {
		logger.Fatalf("start consumer: %v", err)
	}

	// --- HTTP ---
	placement := order.NewPlacementService(orderRepo, cartRepo, shippingRepo, publisher, cfg.TaxRate, logger)

	h := httpapi.NewHandler(httpapi.Deps{
		Catalog:        cat,
		Sessions:       session.NewManager(),
		Validator:      discount.NewValidator(discountRepo),
		Carts:          cartRepo,
		Shipping:       shippingRepo,
		Orders:         orderRepo,
		Placement:      placement,
		RecommendLimit: cfg.RecommendLimit,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(h),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-sigCtx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
	cancel()
}
