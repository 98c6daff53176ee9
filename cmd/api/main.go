package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"onova-storefront/internal/cartstore"
	"onova-storefront/internal/config"
	"onova-storefront/internal/content"
	"onova-storefront/internal/db"
	"onova-storefront/internal/httpserver"
	cartsvc "onova-storefront/internal/service/cart"
	catalogsvc "onova-storefront/internal/service/catalog"
	"onova-storefront/internal/service/stock"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("init cart store: %v", err)
	}
	defer cleanup()

	contentClient, err := content.NewClient(cfg.ContentAPIHost, cfg.ContentAPIToken, logger)
	if err != nil {
		logger.Fatalf("init content client: %v", err)
	}

	catalogService := catalogsvc.New(contentClient, cfg.ContentAPIHost, logger)
	cartService := cartsvc.New(store, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog: catalogService,
		Cart:    cartService,
		Stock:   stock.NewTracker(),
		Store:   store,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (cart store: %s)", cfg.HTTPAddr, cfg.CartStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// buildStore picks the snapshot backend from CART_STORE. The returned
// cleanup closes whatever connection the backend holds.
func buildStore(ctx context.Context, cfg config.Config) (cartstore.Store, func(), error) {
	switch strings.ToLower(cfg.CartStore) {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		return cartstore.NewRedis(client, cfg.CartTTL), func() { _ = client.Close() }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, err
		}
		return cartstore.NewPostgres(pool), pool.Close, nil
	case "memory":
		return cartstore.NewMemory(), func() {}, nil
	default:
		return nil, nil, errors.New("unknown CART_STORE: " + cfg.CartStore)
	}
}
