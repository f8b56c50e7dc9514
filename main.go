package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conversor/internal/config"
	"conversor/internal/container"
	"conversor/internal/errors"
	"conversor/internal/lifecycle"
	"conversor/internal/logger"
	"conversor/internal/session"

	"github.com/joho/godotenv"
)

func run() error {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("[Startup] No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		return err
	}

	logCloser, err := logger.Setup(appConfig.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		return err
	}
	if err := appContainer.Init(ctx); err != nil {
		return err
	}
	defer appContainer.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	purgerDone := session.StartPurger(ctx, appContainer.Store, appConfig.Session.PurgeInterval)

	host := "127.0.0.1"
	if appConfig.IsCloud {
		host = "0.0.0.0"
	}
	addr := net.JoinHostPort(host, fmt.Sprint(appConfig.Server.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           appContainer.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !appConfig.IsCloud {
		go lifecycle.MonitorIdle(ctx, appContainer.Tracker, appConfig.Lifecycle.IdleTimeout, appConfig.Lifecycle.CheckInterval, cancel)
		if appConfig.Lifecycle.OpenBrowser {
			go func() {
				if err := lifecycle.WaitReady(ctx, addr); err != nil {
					return
				}
				if err := lifecycle.OpenBrowser("http://" + addr); err != nil {
					logger.Warnf("[Startup] %v", err)
				}
			}()
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("[Startup] Serving on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
	case <-ctx.Done():
		logger.Infof("[Shutdown] Stopping server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	cancel()
	<-purgerDone
	logger.Infof("[Shutdown] Done")
	return nil
}

func main() {
	if err := run(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
