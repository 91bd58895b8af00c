package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samdwyer/sortie/internal/config"
	"github.com/samdwyer/sortie/internal/game"
	applog "github.com/samdwyer/sortie/internal/log"
	"github.com/samdwyer/sortie/internal/telemetry"
	"github.com/samdwyer/sortie/internal/ui"
)

type runFlags struct {
	configPath string
	team       int
	times      int
	opts       game.Options
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sortie",
		Short:         "Run map and event sorties against the game server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newVariantsCmd())
	return root
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the available variants",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range game.Variants() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:       "run <variant>",
		Short:     "Run a variant one or more times",
		Args:      cobra.ExactArgs(1),
		ValidArgs: game.Variants(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := game.Lookup(args[0]); err != nil {
				return err
			}
			return runVariant(cmd.Context(), args[0], f)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	flags.IntVarP(&f.team, "team", "t", 1, "party number")
	flags.IntVarP(&f.times, "times", "n", 1, "number of runs")
	flags.IntVar(&f.opts.Episode, "episode", 0, "episode of a regular map")
	flags.IntVar(&f.opts.Field, "field", 0, "field of a regular map")
	flags.BoolVar(&f.opts.Sakura, "sakura", false, "stop regular maps after one step")
	flags.IntVar(&f.opts.Layer, "layer", 0, "event floor override")
	return cmd
}

func runVariant(parent context.Context, variant string, f runFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applog.Configure(applog.Config{Level: cfg.Log.Level, Console: cfg.Log.Console})
	logger := applog.WithComponent("cli")

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.Tracing())
		if err != nil {
			logger.Warn().Err(err).Msg("telemetry setup failed, running without tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn().Err(err).Msg("telemetry shutdown failed")
				}
			}()
		}
	}
	if addr := cfg.Telemetry.MetricsAddr; addr != "" {
		go func() {
			if err := telemetry.ServeMetrics(addr); err != nil {
				logger.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
			}
		}()
	}

	a, err := newApp(cfg, variant, f, ui.NewPrinter(os.Stdout))
	if err != nil {
		return err
	}
	defer a.close()
	return a.repeat(ctx, f.times)
}
