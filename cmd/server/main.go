package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/sudoku-rooms-backend/internal/config"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/httpapi"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/hub"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/puzzle"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/results"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := results.NewGormStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	seed := cfg.PoolSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("generating puzzle pools", zap.Int("per_difficulty", cfg.PoolSize))
	src := puzzle.NewSource(seed, cfg.PoolSize)

	h := hub.NewHub(ctx, src, logger)
	handler := httpapi.SetupRoutes(h, src, store, logger, cfg.CORSAllow)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
