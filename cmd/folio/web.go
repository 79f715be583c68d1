package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/folio/internal/client"
	"github.com/alfredjeanlab/folio/internal/config"
	"github.com/alfredjeanlab/folio/internal/session"
	"github.com/alfredjeanlab/folio/internal/web"
)

var webCmd = &cobra.Command{
	Use:               "web",
	Short:             "Start the browser viewer",
	GroupID:           "viewers",
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)
		secure, _ := cmd.Flags().GetBool("secure-cookie")

		serviceURL := cfg.APIURL
		if cmd.Flags().Changed("api-url") {
			serviceURL = apiURL
		}

		publisher, err := openPublisher(cfg, logger)
		if err != nil {
			return err
		}

		resolver := client.NewHTTPClient(serviceURL, "")
		registry := session.NewRegistry(resolver, publisher)
		registry.StartReaper(&session.ReaperConfig{
			IdleTTL: cfg.SessionTTL,
			OnExpire: func(id string) {
				logger.Debug("session expired", "session", id)
			},
		})

		viewer := web.New(registry, web.Options{
			SecureCookie: secure,
			AdminToken:   cfg.AuthToken,
			SessionTTL:   cfg.SessionTTL,
		})
		httpServer := &http.Server{
			Addr:              cfg.WebAddr,
			Handler:           viewer.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("viewer listening", "addr", cfg.WebAddr, "service", serviceURL)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("viewer server error", "err", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("viewer shutdown error", "err", err)
		}
		registry.Stop()
		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}

		logger.Info("shutdown complete", "sessions", registry.Len())
		return nil
	},
}

func init() {
	webCmd.Flags().Bool("secure-cookie", false, "mark the session cookie Secure (serve behind HTTPS)")
}
