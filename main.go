package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"csvexplorer/internal"
	"csvexplorer/internal/config"
	"csvexplorer/internal/container"
	"csvexplorer/ui"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists
	envErr := godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		return err
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level), os.Stderr)
	if envErr != nil {
		logger.Debug("[Main] No .env file found, using system environment variables")
	}
	if appConfig.UsingDevSecret() {
		logger.Warn("[Main] Using the built-in development session secret; set EXPLORER_SESSION_SECRET in production")
	}

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		return err
	}

	server, err := ui.NewServer(ui.Options{
		Explorer:       appContainer.Explorer,
		Gatherer:       appContainer.Registry,
		SessionSecret:  appConfig.Session.Secret,
		CookieName:     appConfig.Session.CookieName,
		SessionTTL:     appConfig.Session.TTL,
		MaxUploadBytes: appConfig.Data.MaxUploadBytes,
		GinMode:        appConfig.Server.GinMode,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	httpServer := server.HTTPServer(appConfig.Addr(), appConfig.Server.ReadTimeout, appConfig.Server.WriteTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("[Main] Starting CSV Explorer on http://localhost%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return appContainer.RunJanitor(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("[Main] Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return appContainer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
