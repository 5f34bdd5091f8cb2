// The auth server owns sessions and token issuance: credential sign-in,
// session validation with token mint, and token validation against the
// session store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	carveauth "github.com/carve-stack/carveauth"
	"github.com/carve-stack/carveauth/httpapi"
	"github.com/carve-stack/carveauth/internal/config"
	"github.com/carve-stack/carveauth/internal/logger"
	"github.com/carve-stack/carveauth/pgstore"
)

func main() {
	logger.Init()

	cfg, err := config.Load("3001")
	if err != nil {
		logger.Fatal("configuration invalid", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis unreachable", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
	}

	users, cleanup, err := userProvider(ctx, cfg)
	if err != nil {
		logger.Fatal("user provider init failed", map[string]any{"error": err.Error()})
	}
	defer cleanup()

	engine, err := carveauth.New().
		WithSecret(cfg.JWTSecret).
		WithRedis(rdb).
		WithUserProvider(users).
		Build()
	if err != nil {
		logger.Fatal("engine init failed", map[string]any{"error": err.Error()})
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.CORS(cfg.CORSOrigin))
	httpapi.NewHandler(engine).Register(router)

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", map[string]any{"error": err.Error()})
		}
	}()
	logger.Info("auth server started", map[string]any{"port": cfg.AppPort})

	<-ctx.Done()
	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
	logger.Info("auth server stopped cleanly", nil)
}

// userProvider selects Postgres when DATABASE_URL is set, otherwise an
// in-memory provider for local development.
func userProvider(ctx context.Context, cfg config.Config) (carveauth.UserProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory user provider", nil)
		return carveauth.NewMemoryUserProvider(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pgstore.New(pool), pool.Close, nil
}
