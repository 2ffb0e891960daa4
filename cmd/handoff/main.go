package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andriiyaremenko/handoff"
	"github.com/andriiyaremenko/handoff/console"
	"github.com/andriiyaremenko/handoff/internal/config"
	"github.com/andriiyaremenko/handoff/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// A second interrupt kills the process.
	context.AfterFunc(ctx, cancel)

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// Flags override the HANDOFF_* environment variables.
// A malformed variable fails the command instead of being ignored.
func newRootCommand() *cobra.Command {
	cfg, loadErr := config.Load()
	if loadErr != nil {
		cfg = config.Default()
	}

	cmd := &cobra.Command{
		Use:          "handoff",
		Short:        "Transform numbers read from the terminal through a three-stage handoff pipeline",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if loadErr != nil {
				return loadErr
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Pipeline.Transform, "transform", cfg.Pipeline.Transform, `transform to apply: square, double or identity; "double,square" chains them`)
	flags.StringVar(&cfg.Pipeline.Number, "number", cfg.Pipeline.Number, "value type: int or float")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level: debug, info, warn or error")
	flags.BoolVar(&cfg.Logging.Development, "log-dev", cfg.Logging.Development, "human readable logs")
	flags.StringVar(&cfg.Metrics.Address, "metrics-addr", cfg.Metrics.Address, "serve Prometheus metrics on this address")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development

	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	opts := []handoff.Option{
		handoff.WithLogger(logger),
		handoff.WithMetrics(handoff.NewMetrics(reg)),
	}

	if cfg.Metrics.Address != "" {
		srv := serveMetrics(cfg.Metrics.Address, reg, logger)
		defer shutdown(srv, logger)
	}

	switch cfg.Pipeline.Number {
	case "float":
		return session(ctx, cfg.Pipeline.Transform, console.New(in, out, console.Float), opts...)
	default:
		return session(ctx, cfg.Pipeline.Transform, console.New(in, out, console.Int), opts...)
	}
}

func session[T handoff.Number](ctx context.Context, transformName string, c *console.Console[T], opts ...handoff.Option) error {
	transform, err := handoff.ParseTransform[T](transformName)
	if err != nil {
		return err
	}

	defer c.Close()

	return handoff.New(transform, handoff.Sink[T](c), opts...).Run(ctx, c)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	logger.Info("serving metrics", zap.String("addr", addr))

	return srv
}

func shutdown(srv *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", zap.Error(err))
	}
}
