// The API server fronts business routes. Every request passes through the
// authentication context resolver; routes decide for themselves whether an
// anonymous context is acceptable.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carve-stack/carveauth/httpapi"
	"github.com/carve-stack/carveauth/internal/config"
	"github.com/carve-stack/carveauth/internal/logger"
	"github.com/carve-stack/carveauth/middleware"
	"github.com/carve-stack/carveauth/token"
)

func main() {
	logger.Init()

	cfg, err := config.Load("3002")
	if err != nil {
		logger.Fatal("configuration invalid", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Same secret as the auth server; used only for the local pre-check.
	tokens, err := token.NewManager(token.Config{Secret: cfg.JWTSecret})
	if err != nil {
		logger.Fatal("token manager init failed", map[string]any{"error": err.Error()})
	}

	resolver := middleware.NewResolver(tokens, httpapi.NewClient(cfg.AuthServerURL, cfg.ValidateTimeout))

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API Server OK"))
	})
	mux.Handle("/api/me", middleware.RequireAuth(http.HandlerFunc(me)))
	mux.HandleFunc("/api/status", status)

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: resolver.Handler(mux)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", map[string]any{"error": err.Error()})
		}
	}()
	logger.Info("api server started", map[string]any{
		"port":        cfg.AppPort,
		"auth_server": cfg.AuthServerURL,
	})

	<-ctx.Done()
	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
	logger.Info("api server stopped cleanly", nil)
}

// me returns the authenticated identity. RequireAuth guarantees a context.
func me(w http.ResponseWriter, r *http.Request) {
	auth, _ := middleware.FromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user":    auth.User,
		"session": auth.Session,
	})
}

// status works for everyone and reports whether the caller is known.
func status(w http.ResponseWriter, r *http.Request) {
	_, authenticated := middleware.FromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"authenticated": authenticated})
}
