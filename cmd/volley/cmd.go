package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/volleyload/volley/internal/config"
	"github.com/volleyload/volley/internal/hooks"
	"github.com/volleyload/volley/internal/logging"
	"github.com/volleyload/volley/internal/machine"
	"github.com/volleyload/volley/pkg/engine"
	"github.com/volleyload/volley/pkg/metrics"
	"github.com/volleyload/volley/pkg/netutil"
	"github.com/volleyload/volley/pkg/protocols"
	"github.com/volleyload/volley/pkg/protocols/loadhttp"
	"github.com/volleyload/volley/pkg/protocols/script"
	"github.com/volleyload/volley/pkg/report"
)

var (
	// These variables are populated by ldflags during build
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// newRootCmd creates the root command with all flags bound to a fresh
// Config so tests can build and inspect it in isolation.
func newRootCmd() *cobra.Command {
	cfg := config.New()
	var cfgFile, targetsFile string

	rootCmd := &cobra.Command{
		Use:   "volley",
		Short: "A rate-paced HTTP load tester with a live terminal dashboard",
		Long: `Volley fires HTTP GET traffic at a target URL at a fixed query rate
and renders a live dashboard: progress, counters, latency percentiles,
an error-code histogram and a p99-over-time chart.

Examples:
  # 25 seconds at 10 qps with 10 workers
  volley --url https://api.example.com/health

  # heavier, shorter
  volley -u https://api.example.com -q 200 -c 50 -d 10

  # CI/Docker mode (no TUI)
  volley -u https://api.example.com --headless`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				if err := config.LoadFile(cfgFile, cfg, cmd.Flags().Changed); err != nil {
					return err
				}
			}
			if targetsFile != "" {
				fmt.Fprintln(os.Stderr, "warning: --file multi-URL input is not yet supported, flag ignored")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	rootCmd.Flags().IntVarP(&cfg.DurationSeconds, "duration", "d", cfg.DurationSeconds, "Test duration in seconds")
	rootCmd.Flags().IntVarP(&cfg.Concurrency, "concurrency", "c", cfg.Concurrency, "Number of parallel workers")
	rootCmd.Flags().IntVarP(&cfg.QPS, "qps", "q", cfg.QPS, "Target queries per second")
	rootCmd.Flags().StringVarP(&cfg.URL, "url", "u", "", "Target HTTP(S) URL")
	rootCmd.Flags().StringVarP(&targetsFile, "file", "f", "", "Reserved for future multi-URL input")
	rootCmd.Flags().DurationVarP(&cfg.Timeout, "timeout", "t", 0, "Per-request timeout (0 uses the client default)")
	rootCmd.Flags().BoolVarP(&cfg.Insecure, "insecure", "k", false, "Skip TLS certificate verification")
	rootCmd.Flags().BoolVar(&cfg.Headless, "headless", false, "Run without the TUI (useful for CI/Docker)")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "Append structured logs to this file")
	rootCmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", "", "Write summary.json under this directory")
	rootCmd.Flags().StringVarP(&cfg.ScriptPath, "script", "s", "", "Path to a Starlark script supplying requests")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "YAML config file supplying flag defaults")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "volley version %s (commit: %s, built: %s)\n", version, commit, buildDate)
		},
	}
}

// run wires the attacker, engine, prober and renderer together and
// executes the test.
func run(cfg *config.Config) error {
	log, closer, err := logging.New(cfg.LogFile, cfg.Headless)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	var attacker protocols.Attacker
	if cfg.ScriptPath != "" {
		attacker, err = script.NewAttacker(cfg.ScriptPath, cfg.Timeout, cfg.Insecure)
		if err != nil {
			return err
		}
	} else {
		if err := netutil.PreflightDNS(cfg.URL); err != nil {
			return err
		}
		attacker = loadhttp.NewAttacker(cfg.URL, cfg.Timeout, cfg.Insecure)
	}

	if err := netutil.CheckUlimitWarning(cfg.Concurrency); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	h := hooks.NewHookRunner()
	if err := h.RunPreHook(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var final metrics.Snapshot
	if cfg.Headless {
		final, err = runHeadless(ctx, cfg, attacker, log)
	} else {
		final, err = runDashboard(ctx, cfg, attacker, log)
	}
	if err != nil {
		_ = h.RunPostHook(cfg, 1)
		return err
	}

	if cfg.OutputDir != "" {
		path, err := report.WriteSummary(cfg.OutputDir, final)
		if err != nil {
			_ = h.RunPostHook(cfg, 1)
			return fmt.Errorf("failed to write summary: %w", err)
		}
		fmt.Printf("Summary saved to: %s\n", path)
	}

	return h.RunPostHook(cfg, 0)
}

func runHeadless(ctx context.Context, cfg *config.Config, attacker protocols.Attacker, log zerolog.Logger) (metrics.Snapshot, error) {
	target := cfg.URL
	if cfg.ScriptPath != "" {
		target = cfg.ScriptPath
	}
	fmt.Print(report.StartBanner(target, cfg.QPS, cfg.Concurrency, cfg.Duration()))

	eng := engine.New(attacker, cfg.Concurrency, cfg.QPS, cfg.Duration(),
		engine.WithProber(machine.NewProber()),
		engine.WithLogger(log))

	rep := eng.Run(ctx)
	final := rep.Snapshot(cfg.Duration(), machine.Details{})
	final.Final = true

	fmt.Print(report.GenerateTextReport(final))
	return final, nil
}

func runDashboard(ctx context.Context, cfg *config.Config, attacker protocols.Attacker, log zerolog.Logger) (metrics.Snapshot, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(report.NewModel(cancel), tea.WithAltScreen())

	eng := engine.New(attacker, cfg.Concurrency, cfg.QPS, cfg.Duration(),
		engine.WithRenderer(report.NewRenderer(p)),
		engine.WithProber(machine.NewProber()),
		engine.WithLogger(log))

	type result struct{ rep *metrics.Report }
	done := make(chan result, 1)
	go func() {
		done <- result{rep: eng.Run(runCtx)}
	}()

	if _, err := p.Run(); err != nil {
		// Terminal failure: stop the pipeline before reporting.
		cancel()
		<-done
		return metrics.Snapshot{}, fmt.Errorf("terminal error: %w", err)
	}

	res := <-done
	final := res.rep.Snapshot(cfg.Duration(), machine.Details{})
	final.Final = true

	fmt.Print(report.GenerateTextReport(final))
	return final, nil
}
