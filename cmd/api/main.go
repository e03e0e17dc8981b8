package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/oakmount/accounts-api/internal/adapters/httpapi"
	memuserrepo "github.com/oakmount/accounts-api/internal/adapters/memory/userrepo"
	postgres "github.com/oakmount/accounts-api/internal/adapters/postgres"
	pguserrepo "github.com/oakmount/accounts-api/internal/adapters/postgres/userrepo"
	"github.com/oakmount/accounts-api/internal/app/users"
	"github.com/oakmount/accounts-api/internal/platform/auth"
	platformclock "github.com/oakmount/accounts-api/internal/platform/clock"
	"github.com/oakmount/accounts-api/internal/platform/config"
	"github.com/oakmount/accounts-api/internal/platform/logger"
	userrepoport "github.com/oakmount/accounts-api/internal/ports/out/userrepo"
)

func main() {
	// Local development loads settings from a .env file; in real deployments
	// the file is absent and this is a no-op.
	_ = godotenv.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal("invalid config", zap.Error(err))
	}

	// Auth configuration:
	// - Production: AUTH_MODE=jwt verifies HS256 bearer tokens against JWT_SECRET
	// - Local dev: AUTH_MODE=dev bypasses verification and uses X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject, zlog)
	default:
		authMW = httpapi.NewAuthMiddleware(auth.NewTokenVerifier(cfg.JWTSecret), zlog)
	}

	clk := platformclock.NewSystemClock()

	var (
		userRepo userrepoport.Repository
		cleanup  func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			zlog.Fatal("connect postgres", zap.Error(err))
		}
		zlog.Info("connected to postgres")
		cleanup = pool.Close
		userRepo = pguserrepo.NewRepo(pool)
	default:
		userRepo = memuserrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	userSvc := users.NewService(userRepo, clk)
	api := httpapi.NewServer(userSvc, zlog)
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("api listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
