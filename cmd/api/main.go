package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/soulnest/soulnest/backend/internal/config"
	"github.com/soulnest/soulnest/backend/internal/handler"
	"github.com/soulnest/soulnest/backend/internal/logging"
	"github.com/soulnest/soulnest/backend/internal/service/chat"
	"github.com/soulnest/soulnest/backend/internal/service/journal"
	"github.com/soulnest/soulnest/backend/internal/service/mood"
	"github.com/soulnest/soulnest/backend/internal/store"
	"github.com/soulnest/soulnest/backend/internal/store/memory"
	"github.com/soulnest/soulnest/backend/internal/store/mongo"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("soulnest: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment", zap.Error(envErr))
	}

	db, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Warn("failed to close document store", zap.Error(err))
		}
	}()

	router := handler.NewRouter(handler.Services{
		Store:   db,
		Chat:    chat.NewService(db, chat.CannedReply{}),
		Mood:    mood.NewService(db),
		Journal: journal.NewService(db),
	}, cfg.CORS.AllowedOrigins, logger)

	return startServer(ctx, cfg.Server, router, logger)
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (store.DocumentStore, error) {
	if cfg.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory document store, data will not survive a restart")
		return memory.New(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	db, err := mongo.Open(connectCtx, mongo.Config{URL: cfg.URL, Database: cfg.Database}, logger)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(connectCtx); err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return db, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("SoulNest backend listening", zap.String("addr", addr))
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
