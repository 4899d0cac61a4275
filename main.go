package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journeycompass/internal/app"
	"journeycompass/internal/catalog"
	intconfig "journeycompass/internal/config"
	"journeycompass/internal/gateway"
	router "journeycompass/internal/http"
	h "journeycompass/internal/http/handlers"
	"journeycompass/internal/http/middleware"
	"journeycompass/internal/services"
	"journeycompass/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	log := utils.NewLogger(env.AppEnv)
	defer func() { _ = log.Sync() }()

	if err := env.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	store, err := app.OpenStore(ctx, env, log)
	if err != nil {
		log.Fatal("failed to open document store", zap.Error(err))
	}
	defer store.Close()

	fallback, err := catalog.Load(env.CatalogPath)
	if err != nil {
		log.Fatal("failed to load bus catalog", zap.String("path", env.CatalogPath), zap.Error(err))
	}

	notifier, closeNotifier := app.BuildNotifier(env, log)
	defer closeNotifier()

	repo := store.Repo(log)
	ledger := services.LedgerService{Repo: repo, Locker: store.Locker, LockKey: env.StoreKey, Log: log}
	catalogSvc := services.CatalogService{Repo: repo, Locker: store.Locker, LockKey: env.StoreKey, Log: log}
	inventory := services.InventoryService{Repo: repo}

	if _, err := catalogSvc.SeedIfEmpty(ctx, fallback); err != nil {
		log.Warn("catalog seed skipped", zap.Error(err))
	}

	sessions := middleware.Sessions{Secret: []byte(env.JWTSecret), TTL: env.SessionTTL}

	r := router.NewRouter(env, router.Deps{
		Auth: h.AuthHandler{
			OTP:      gateway.NewOTPClient(env.OTPWebhookURL, env.WebhookTimeout),
			Sessions: sessions,
			Log:      log,
		},
		Buses: h.BusHandler{Catalog: catalogSvc, Inventory: inventory, Fallback: fallback},
		Bookings: h.BookingHandler{
			Bookings: services.BookingService{
				Ledger:        ledger,
				Catalog:       catalogSvc,
				Fallback:      fallback,
				Notifier:      notifier,
				Log:           log,
				NotifyTimeout: env.WebhookTimeout,
			},
			Ledger: ledger,
			Docs:   services.DocsService{Ledger: ledger, Catalog: catalogSvc, Fallback: fallback, Log: log},
		},
		Sessions: sessions,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr), zap.String("store", env.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
		return
	}

	log.Info("server stopped")
}
