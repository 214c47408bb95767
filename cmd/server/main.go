package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signaling/internal/config"
	"signaling/internal/handlers"
	"signaling/internal/managers"
	"signaling/internal/routers"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg := config.Load()

	registry := managers.NewRoomRegistry(logger)
	links := managers.NewCallLinkStore(cfg.RedisAddr, cfg.FrontendURL, cfg.CallLinkTTL, logger)
	defer links.Close()

	h := handlers.NewHandlers(cfg, registry, links, logger)
	router := routers.NewRouter(h, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("signaling service listening",
			zap.String("addr", srv.Addr),
			zap.String("instance", registry.InstanceID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	registry.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
