package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/karmamapper/karmamapper/backend-go/internal/api"
	"github.com/karmamapper/karmamapper/backend-go/internal/auth"
	"github.com/karmamapper/karmamapper/backend-go/internal/bridge"
	"github.com/karmamapper/karmamapper/backend-go/internal/config"
	"github.com/karmamapper/karmamapper/backend-go/internal/editor"
	"github.com/karmamapper/karmamapper/backend-go/internal/shape"
	"github.com/karmamapper/karmamapper/backend-go/internal/store"
)

func main() {
	tokenSubject := flag.String("issue-token", "", "print a bridge token for `subject` and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	if *tokenSubject != "" {
		if err := issueToken(os.Stdout, cfg.BridgeSecret, *tokenSubject); err != nil {
			slog.Error("issue token", "error", err)
			os.Exit(1)
		}
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open scene store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	factory := shape.NewFactory(logger)
	shape.RegisterBuiltins(factory)

	hub := bridge.NewHub(cfg.FrameRate, logger)
	ed := editor.New(factory, st,
		editor.WithLogger(logger),
		editor.WithHost(hub),
		editor.WithCanvasSize(float64(cfg.CanvasWidth), float64(cfg.CanvasHeight)),
	)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx, ed)
		close(hubDone)
	}()

	authService := auth.NewService(cfg.BridgeSecret)
	if !authService.Enabled() {
		slog.Warn("BRIDGE_SECRET not set, editor bridge is open")
	}

	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(authService.Middleware)
	api.NewHandler(st, logger).Routes(apiRouter)

	// WebSocket endpoint
	r.Handle("/ws/editor", bridge.NewHandler(hub, authService, cfg.OriginPatterns()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the frame loop first so clients are released
		cancel()
		<-hubDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "frameRate", cfg.FrameRate)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore uses Postgres when DATABASE_URL is set and the save directory
// otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		fs, err := store.NewFileStore(cfg.SaveDir)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("scene store", "kind", "file", "dir", fs.Dir())
		return fs, func() {}, nil
	}

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	pg := store.NewPGStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	slog.Info("scene store", "kind", "postgres")
	return pg, pool.Close, nil
}
