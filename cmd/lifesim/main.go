package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpgo/lifesim/internal/calculation"
	"github.com/rpgo/lifesim/internal/config"
	"github.com/rpgo/lifesim/internal/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lifesim",
		Short: "Stochastic life-finance simulator",
		Long: `lifesim projects savings, income, expenditure and debt year by year
across a simulated life, with random life events biased by a luck factor.

It runs single projections, income x capital sensitivity sweeps, and an
HTTP API serving both.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newSimulateCmd(),
		newSensitivityCmd(),
		newExampleConfigCmd(),
	)
	return rootCmd
}

// runtimeEnv is what every command needs after flag and config resolution.
type runtimeEnv struct {
	cfg    config.Config
	logger *slog.Logger
}

func loadRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if !logging.ValidLevel(level) {
			return nil, fmt.Errorf("unknown log level %q", level)
		}
		cfg.Server.LogLevel = level
	}
	return &runtimeEnv{
		cfg:    cfg,
		logger: logging.NewLogger(cfg.Server.LogLevel, cmd.ErrOrStderr()),
	}, nil
}

func (env *runtimeEnv) engine() *calculation.Engine {
	e := calculation.NewEngineWithAssumptions(env.cfg.Assumptions)
	e.SetLogger(logging.NewAdapter(env.logger))
	return e
}

func (env *runtimeEnv) analyzer(e *calculation.Engine) *calculation.SensitivityAnalyzer {
	sa := calculation.NewSensitivityAnalyzer(e)
	sa.Workers = env.cfg.Server.Workers
	sa.MaxWork = env.cfg.Server.MaxWork
	sa.SetLogger(logging.NewAdapter(env.logger))
	return sa
}
