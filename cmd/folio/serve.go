package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/alfredjeanlab/folio/internal/config"
	"github.com/alfredjeanlab/folio/internal/events"
	"github.com/alfredjeanlab/folio/internal/hooks"
	"github.com/alfredjeanlab/folio/internal/server"
	"github.com/alfredjeanlab/folio/internal/store"
	foliosync "github.com/alfredjeanlab/folio/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:               "serve",
	Short:             "Start the portfolio service",
	GroupID:           "system",
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}

		publisher, err := openPublisher(cfg, logger)
		if err != nil {
			st.Close()
			return err
		}

		portfolioServer := server.NewPortfolioServer(st, publisher, server.WithDefaultViewLimit(cfg.ViewLimit))
		grpcServer, healthServer := server.NewGRPCServer(cfg.AuthToken)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			publisher.Close()
			st.Close()
			return err
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		httpServer := &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: portfolioServer.NewHTTPHandler(server.HTTPOptions{
				AuthToken:     cfg.AuthToken,
				AllowedOrigin: cfg.AllowedOrigin,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		scheduler := startSync(cmd.Context(), cfg, st, logger)

		healthCtx, stopHealth := context.WithCancel(context.Background())
		go trackStoreHealth(healthCtx, portfolioServer, healthServer, 15*time.Second, logger)

		stopHooks := startHooks(cfg, logger)

		if cfg.AuthToken == "" {
			logger.Warn("admin routes are open (FOLIO_AUTH_TOKEN not set)")
		}
		logger.Info("folio service started",
			"http_addr", cfg.HTTPAddr,
			"grpc_addr", cfg.GRPCAddr,
			"view_limit", cfg.ViewLimit,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		stopHealth()
		healthServer.Shutdown()

		if stopHooks != nil {
			stopHooks()
			logger.Info("hooks subscriber stopped")
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// trackStoreHealth flips the gRPC serving status whenever the store stops or
// starts answering pings.
func trackStoreHealth(ctx context.Context, ps *server.PortfolioServer, hs *health.Server, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		pingCtx, cancel := context.WithTimeout(ctx, every/2)
		err := ps.Ping(pingCtx)
		cancel()
		if ok := err == nil; ok != serving {
			serving = ok
			status := healthpb.HealthCheckResponse_SERVING
			if !ok {
				status = healthpb.HealthCheckResponse_NOT_SERVING
				logger.Warn("store ping failed", "err", err)
			}
			hs.SetServingStatus("", status)
			hs.SetServingStatus(server.PortfolioServiceName, status)
		}
	}
}

// startHooks runs the event hooks subscriber when both a hooks file and NATS
// are configured. The returned func stops it; nil means hooks are off.
func startHooks(cfg *config.Config, logger *slog.Logger) func() {
	if cfg.HooksFile == "" {
		return nil
	}
	if cfg.NATSURL == "" {
		logger.Warn("hooks disabled: FOLIO_HOOKS_FILE needs FOLIO_NATS_URL")
		return nil
	}
	list, err := hooks.LoadFile(cfg.HooksFile)
	if err != nil {
		logger.Error("failed to load hooks", "err", err)
		return nil
	}
	sub, err := events.NewNATSSubscriber(cfg.NATSURL)
	if err != nil {
		logger.Error("failed to create hooks subscriber", "err", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := hooks.NewHandler(list, logger).StartSubscriber(ctx, sub); err != nil {
			logger.Error("hooks subscriber error", "err", err)
		}
		sub.Close()
	}()
	return func() {
		cancel()
		<-done
	}
}

// startSync builds the configured export destinations and starts the
// scheduler. It returns nil when sync is disabled or no destination could be
// created.
func startSync(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) *foliosync.Scheduler {
	if !cfg.Sync.Enabled() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var dests []foliosync.Destination
	if cfg.Sync.S3Bucket != "" {
		s3Dest, err := foliosync.NewS3Destination(ctx,
			cfg.Sync.S3Bucket,
			cfg.Sync.S3Key,
			cfg.Sync.S3Region,
			cfg.Sync.S3Endpoint,
		)
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync S3 destination enabled", "bucket", cfg.Sync.S3Bucket, "key", cfg.Sync.S3Key)
		}
	}
	if cfg.Sync.GitRepo != "" {
		dests = append(dests, foliosync.NewGitDestination(cfg.Sync.GitRepo, cfg.Sync.GitFile, cfg.Sync.GitBranch))
		logger.Info("sync git destination enabled", "repo", cfg.Sync.GitRepo, "file", cfg.Sync.GitFile)
	}
	if len(dests) == 0 {
		return nil
	}

	scheduler := foliosync.NewScheduler(st, dests, cfg.Sync.Interval, logger)
	scheduler.Start()
	logger.Info("sync scheduler started", "interval", cfg.Sync.Interval)
	return scheduler
}
