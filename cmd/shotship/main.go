package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	pflag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/shotship"
	"github.com/bft-labs/shotship/internal/cliconfig"
	"github.com/bft-labs/shotship/internal/metrics"
	"github.com/bft-labs/shotship/internal/spool"
	"github.com/bft-labs/shotship/pkg/log"
	sender "github.com/bft-labs/shotship/pkg/shotship"
)

const helpDescription = `
Ship geotagged detection shots to an ingestion service without blocking the
camera pipeline.

Highlights:
  - Posting never waits on the network; a single worker uploads in the background.
  - A bounded queue drops the oldest shot when the service falls behind.
  - Failed uploads are logged and dropped, never retried.
  - Runs a demo driver by default, or watches a spool directory for images.
`

var exampleUsage = strings.TrimSpace(`
  shotship --service-url http://ingest.local:8080 --demo 20
  shotship --spool-dir /var/spool/shots --metrics-addr :9100
  shotship --config $HOME/.shotship/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return sender.Version
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "shotship",
		Short:         "Ship detection shots to an ingestion service",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file; flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.shotship/config.toml)")
	root.Flags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "base URL of the ingestion service")
	root.Flags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "maximum number of queued shots")

	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout for one upload")
	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "TCP connect timeout")
	root.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "timeout waiting for response headers")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "how long to wait for the queue to drain on exit")

	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (disabled if empty)")
	root.Flags().StringVar(&cfg.SpoolDir, "spool-dir", cfg.SpoolDir, "watch this directory for *.jpg files instead of running the demo")

	root.Flags().IntVar(&cfg.DemoCount, "demo", cfg.DemoCount, "number of demo shots to post")
	root.Flags().DurationVar(&cfg.DemoInterval, "demo-interval", cfg.DemoInterval, "pause between demo shots")
	root.Flags().IntVar(&cfg.DemoImageBytes, "demo-image-bytes", cfg.DemoImageBytes, "size of each random demo image")
	root.Flags().DurationVar(&cfg.Settle, "settle", cfg.Settle, "wait after the last demo shot before stopping")

	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shotship: %v\n", err)
		os.Exit(1)
	}
}

func run(parent context.Context, cfg cliconfig.Config) error {
	if parent == nil {
		parent = context.Background()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	zl := log.NewConsoleLogger(os.Stderr, level)
	logger := log.NewZerologAdapterWithLogger(zl)

	zl.Info().Interface("config", cfg).Interface("modules", sender.ModuleVersions()).Msg("configuration")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	s, err := shotship.GetInstanceConfig(shotship.Config{
		Capacity:        cfg.QueueSize,
		ServiceURL:      cfg.ServiceURL,
		ConnectTimeout:  cfg.ConnectTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		HTTPTimeout:     cfg.HTTPTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	},
		sender.WithLogger(logger),
		sender.WithEventHandler(collector),
	)
	if err != nil {
		return fmt.Errorf("create sender: %w", err)
	}
	if err := metrics.RegisterQueueDepth(reg, s.QueueLen); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	sigCtx, stopSignals := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	// done ends the run: a signal, the demo finishing, or a component failing.
	ctx, done := context.WithCancel(sigCtx)
	defer done()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			logger.Info("serving metrics", log.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if cfg.SpoolMode() {
		w := spool.New(spool.Config{Dir: cfg.SpoolDir}, s, logger)
		g.Go(func() error {
			defer done()
			return w.Run(gctx)
		})
	} else {
		g.Go(func() error {
			defer done()
			return runDemo(gctx, s, demoConfig{
				count:      cfg.DemoCount,
				interval:   cfg.DemoInterval,
				imageBytes: cfg.DemoImageBytes,
				settle:     cfg.Settle,
			}, logger)
		})
	}

	runErr := g.Wait()
	if sigCtx.Err() != nil {
		logger.Info("received signal, stopping")
	}

	stopErr := s.Stop()
	zl.Info().Interface("stats", s.Stats()).Msg("final stats")

	if stopErr != nil {
		stopErr = fmt.Errorf("stop sender: %w", stopErr)
	}
	return multierr.Append(runErr, stopErr)
}
