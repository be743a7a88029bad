// mlfqsim runs a workload through the three-tier MLFQ scheduler on a
// simulated uniprocessor and prints what the scheduler decided.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mlfq/internal/job"
	"mlfq/internal/kernel"
	"mlfq/internal/sched"
)

var (
	configPath   string
	workloadPath string
	csvPath      string
	metricsAddr  string
	verbose      bool
	quiet        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mlfqsim",
		Short: "Simulate a three-tier MLFQ CPU scheduler",
		Long: `mlfqsim admits the threads of a workload into L1 (SRTN), L2 (priority)
and L3 (round robin), ages waiting threads and preempts on every tick.

Examples:
  # Run the built-in demo workload
  mlfqsim

  # Run a workload with a custom config and keep a CSV trace
  mlfqsim --config config.yml --workload workload.yml --csv trace.csv
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSimulation,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "Scheduler config file (missing file = defaults)")
	rootCmd.PersistentFlags().StringVarP(&workloadPath, "workload", "w", "", "Workload file (default: built-in demo)")
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "Write every scheduler event to this CSV file")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")

	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and workload files without running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, w, err := loadInputs()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config: %+v\n", cfg)
			for _, s := range w.Threads {
				tier, ok := sched.TierFor(s.Priority)
				if !ok {
					fmt.Fprintf(out, "%-12s priority %d is out of range and will be rejected\n", s.Name, s.Priority)
					continue
				}
				fmt.Fprintf(out, "%-12s priority %3d -> %s\n", s.Name, s.Priority, tier)
			}
			return nil
		},
	}
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	cfg, w, err := loadInputs()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := sched.NewMetrics(reg)
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	var reporter *kernel.Reporter
	if quiet {
		reporter = kernel.NewReporter(nil)
	} else {
		reporter = kernel.NewReporter(cmd.OutOrStdout())
	}
	if csvPath != "" {
		if err := reporter.EnableCSVLogging(csvPath); err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			log.Error("closing csv", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	k := kernel.New(cfg, w,
		kernel.WithLogger(log),
		kernel.WithMetrics(metrics),
		kernel.WithReporter(reporter))
	sum, err := k.Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout())
	if werr := sum.WriteTable(cmd.OutOrStdout()); werr != nil {
		return werr
	}
	return err
}

func loadInputs() (sched.Config, job.Workload, error) {
	cfg, err := sched.Load(configPath)
	if err != nil {
		return cfg, job.Workload{}, err
	}
	if workloadPath == "" {
		return cfg, demoWorkload(), nil
	}
	w, err := job.LoadWorkload(workloadPath)
	return cfg, w, err
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zc.Build()
}

// demoWorkload exercises every tier, SRTN preemption and aging.
func demoWorkload() job.Workload {
	long := job.CPUBound("batch", 40, 2500)
	shortA := job.CPUBound("srtn-a", 120, 300)
	shortA.Arrival = 10
	shortB := job.CPUBound("srtn-b", 120, 120)
	shortB.Arrival = 20
	return job.Workload{Threads: []job.Spec{
		long,
		job.CPUBound("rr-1", 30, 400),
		job.CPUBound("rr-2", 30, 400),
		job.Interactive("editor", 90, 20, 200, 10),
		job.Interactive("shell", 60, 40, 150, 8),
		shortA,
		shortB,
	}}
}
