// Command ossim is the scheduler simulator itself: ossim <policy> opens
// the listening socket and runs the tick loop until terminated, per
// spec.md §6.4.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ossim/ossim/internal/config"
	"github.com/ossim/ossim/internal/metrics"
	"github.com/ossim/ossim/internal/obslog"
	"github.com/ossim/ossim/internal/policy"
	"github.com/ossim/ossim/internal/scheduler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		socketPath  string
		tickMs      uint32
		configPath  string
		metricsAddr string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "ossim <policy>",
		Short: "Single-CPU process-scheduling simulator",
		Long: "ossim drives a simulated clock against connected application\n" +
			"processes, dispatching simulated CPU time under a selectable\n" +
			"scheduling policy: " + joinNames(policy.Names()) + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := obslog.New(logLevel)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("socket") {
				cfg.SocketPath = socketPath
			}
			if cmd.Flags().Changed("tick-ms") {
				cfg.TickMs = tickMs
			}

			pol, err := policy.Get(args[0], cfg.RRQuantumMs, cfg.MLFQQuantaMs)
			if err != nil {
				log.PolicyNotFound(args[0], policy.Names())
				return err
			}

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)

			if metricsAddr != "" {
				go serveMetrics(metricsAddr, reg, log)
			}

			sched, err := scheduler.New(cfg, pol, log, m)
			if err != nil {
				return fmt.Errorf("setting up scheduler socket: %w", err)
			}
			defer sched.Close()

			fmt.Printf("Scheduler server listening on %s with policy %s...\n", cfg.SocketPath, pol.Name())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return sched.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&socketPath, "socket", config.DefaultSocketPath, "path to the scheduler's Unix-domain socket")
	cmd.Flags().Uint32Var(&tickMs, "tick-ms", config.DefaultTickMs, "simulated clock tick size, in milliseconds")
	cmd.Flags().StringVar(&configPath, "config", "", "optional TOML file overriding the compiled-in defaults")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled if unset)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func serveMetrics(addr string, reg *prometheus.Registry, log *obslog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics server stopped")
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
