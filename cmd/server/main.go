package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatwire/internal/config"
	"chatwire/internal/gateway"
	"chatwire/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("config").Fatalf("cannot start: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.JSON = cfg.LogJSON || cfg.IsProduction()
	logCfg.FilePath = cfg.LogFile
	logger.Init(logCfg)
	log := logger.New("server")

	gw := gateway.NewServer(gateway.OptionsFromConfig(cfg), nil)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           gw.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("gateway listening on %s (env: %s)", cfg.Addr(), cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Infof("shutdown signal received, cleaning up")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	gw.Shutdown()
	log.Infof("graceful shutdown complete")
}
