package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campusverify/internal/cache"
	"campusverify/internal/config"
	"campusverify/internal/db"
	"campusverify/internal/handlers"
	"campusverify/internal/logging"
	"campusverify/internal/router"
	"campusverify/internal/store"
	"campusverify/internal/usecase"
	"campusverify/internal/verification"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	database, err := db.Init(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	userStore := store.NewUserStore(database, logger)
	extractor := verification.NewVisionExtractor(cfg.GoogleCredentialsFile, cfg.OCRTimeout, logger)
	verifier := verification.NewVerifier(extractor, userStore, logger)
	uc := usecase.NewVerificationUseCase(userStore, cache.NewRedisCache(redisClient), verifier, logger)
	h := handlers.New(uc, cfg.FrontendBaseURL, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.New(h, cfg.JWTSecret, cfg.AdminKey, logger),
	}

	logger.Info("campusverify listening", zap.String("addr", server.Addr))
	if err := serve(server, 15*time.Second, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// serve runs the HTTP server until an error or a shutdown signal, then
// drains in-flight requests within the timeout.
func serve(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}
