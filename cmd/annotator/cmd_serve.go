package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/layered-annotator/internal/codec"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

type serveOpts struct {
	listen  string
	metrics string
	dbPath  string
}

func newServeCmd(g *globalOpts) *cobra.Command {
	opts := &serveOpts{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve annotator.v1.Annotator over gRPC and metrics over HTTP",
		Long: `Starts the gRPC service and, unless --metrics is empty, a Prometheus
endpoint at /metrics. Each request runs on its own session. With a database
configured, every session and report is persisted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "gRPC listen address (default from config)")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "metrics listen address (default from config)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite file for sessions and reports (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, g *globalOpts, opts *serveOpts) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	listenAddr := cfg.ListenAddr
	if cmd.Flags().Changed("listen") {
		listenAddr = opts.listen
	}
	metricsAddr := cfg.MetricsAddr
	if cmd.Flags().Changed("metrics") {
		metricsAddr = opts.metrics
	}
	dbPath := cfg.DBPath
	if opts.dbPath != "" {
		dbPath = opts.dbPath
	}

	var store *state.Store
	if dbPath != "" {
		if store, err = state.NewStore(dbPath); err != nil {
			return err
		}
		defer store.Close()
	}

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	gs := codec.NewGRPCServer(codec.NewServer(cfg.Orchestrator(), store, logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("grpc listening", zap.String("addr", lis.Addr().String()), zap.String("db", dbPath))
		return gs.Serve(lis)
	})

	var metricsSrv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		eg.Go(func() error {
			logger.Info("metrics listening", zap.String("addr", metricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		gs.GracefulStop()
		if metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		}
		return nil
	})

	return eg.Wait()
}
