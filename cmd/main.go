package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meetsync/meeting-service/config"
	"github.com/meetsync/meeting-service/internal/payments"
	"github.com/meetsync/meeting-service/internal/postgres"
	"github.com/meetsync/meeting-service/internal/security"
	"github.com/meetsync/meeting-service/internal/service"
	httpx "github.com/meetsync/meeting-service/internal/transport/http"
	"github.com/meetsync/meeting-service/internal/transport/ws"
	"github.com/meetsync/meeting-service/internal/videosdk"
	"github.com/meetsync/meeting-service/internal/waitingroom"
	"github.com/meetsync/meeting-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting meeting-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	// --- redis waiting room ---
	rdb := waitingroom.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = rdb.Close() }()
	store := waitingroom.NewRedisStore(rdb)

	// --- repos ---
	userRepo := postgres.NewUserRepository(db.Pool)
	roomRepo := postgres.NewRoomRepository(db.Pool)
	companyRepo := postgres.NewCompanyRepository(db.Pool)
	subRepo := postgres.NewSubscriptionRepository(db.Pool)

	// --- external clients ---
	video := videosdk.NewClient(cfg.VideoSDK.APIKey, cfg.VideoSDK.APISecret, cfg.VideoSDK.BaseURL)
	checkout := payments.NewStripeCheckout(cfg.Stripe.SecretKey, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWTTTL())

	// --- services ---
	authSvc := service.NewAuthService(userRepo, tokens, security.BcryptConfig{})
	roomSvc := service.NewRoomService(roomRepo, userRepo, video)
	companySvc := service.NewCompanyService(companyRepo)
	subSvc := service.NewSubscriptionService(subRepo, checkout, nil)

	// --- WS hub & admission server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, store)

	// --- HTTP ---
	handler := httpx.NewHandler(authSvc, roomSvc, companySvc, subSvc)
	router := httpx.NewRouter(handler, tokens, companySvc, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
