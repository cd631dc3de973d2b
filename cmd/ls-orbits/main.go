// Command ls-orbits evaluates Keplerian orbits for direct-imaging astrometry.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/internal/config"
	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/telemetry"
	"github.com/litescript/ls-orbits/internal/version"
)

// app carries the state shared by every subcommand.
type app struct {
	// Persistent flags
	logLevel     string
	logFormat    string
	configPath   string
	metricsOut   string
	metricsAddr  string
	traceMode    string
	otlpEndpoint string
	workers      int

	log      *logging.Logger
	cfg      *config.Config
	metrics  *metrics.Collector
	shutdown func(context.Context) error
	server   *http.Server
}

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ls-orbits",
		Short: "Keplerian orbits for direct-imaging astrometry",
		Long: `
Evaluate bound two-body orbits as seen on the sky: offsets, position angle,
separation, proper motion anomaly, radial velocity and acceleration, plus
orbital image warping.

Orbits come from inline element flags or from a TOML file (--config) with
one [[orbit]] table per element set.

Examples:
  # Where is the companion 100 days after the reference epoch?
  ls-orbits solve --a 10 --e 0.1 --i 30 --omega 120 --node 45 --tau 0.25 --mass 1.2 --plx 50 --deg --t 100

  # Ephemeris table for every orbit in a file
  ls-orbits --config orbits.toml ephem --start 0 --end 3650 --n 20

  # Interactive plot
  ls-orbits --config orbits.toml plot
`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&a.configPath, "config", "", "TOML file with [[orbit]] element sets")
	pf.StringVar(&a.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile on exit")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	pf.StringVar(&a.traceMode, "trace", "", "Trace exporter (stdout, otlp)")
	pf.StringVar(&a.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint (default localhost:4317)")
	pf.IntVar(&a.workers, "workers", 0, "Worker goroutines for batch evaluation (0 = GOMAXPROCS)")

	root.AddCommand(
		newSolveCmd(a),
		newEphemCmd(a),
		newPlotCmd(a),
		newWarpCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.log = logging.NewWithConfig(logging.Config{
		Level:  logging.ParseLevel(a.logLevel),
		Format: a.logFormat,
		Output: cmd.ErrOrStderr(),
	})

	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.log.Debug("Loaded %d orbits from %s", len(cfg.Orbits), a.configPath)
	} else {
		a.cfg = config.DefaultConfig()
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	a.metrics = collector

	if a.metricsAddr != "" {
		if err := a.serveMetrics(); err != nil {
			return err
		}
	}

	shutdown, err := telemetry.Init(cmd.Context(), telemetry.Config{
		Exporter: a.traceMode,
		Endpoint: a.otlpEndpoint,
		Output:   cmd.ErrOrStderr(),
	}, a.log)
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) serveMetrics() error {
	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.metricsAddr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Metrics server failed: %v", err)
		}
	}()
	a.log.Info("Serving metrics on %s/metrics", ln.Addr())
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	telemetry.Shutdown(ctx, a.shutdown, a.log)

	if a.server != nil {
		sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_ = a.server.Shutdown(sctx)
	}

	if a.metricsOut != "" {
		if err := a.metrics.WriteTextfile(a.metricsOut); err != nil {
			return err
		}
		a.log.Debug("Wrote metrics to %s", a.metricsOut)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ls-orbits v%s\n", version.Version)
			return err
		},
	}
}
