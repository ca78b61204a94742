// Program algsolve classifies and solves equations and systems of
// polynomial equations, computes Gröbner bases and simplifies
// expressions. Without a subcommand it starts an interactive session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"zappem.net/pub/math/algsolve/config"
	"zappem.net/pub/math/algsolve/solve"
	"zappem.net/pub/math/algsolve/store"
)

// app holds what every command needs.
type app struct {
	cfg   config.Config
	log   *slog.Logger
	cache *store.Store
	disp  *solve.Dispatcher
}

var (
	configPath string
	logLevel   string
	state      app
)

var rootCmd = &cobra.Command{
	Use:           "algsolve",
	Short:         "Exact equation and polynomial system solver",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return state.setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return state.close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl(cmd.Context(), &state, os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	rootCmd.AddCommand(solveCmd, basisCmd, simplifyCmd, replCmd)
}

func (a *app) setup() error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log = cfg.NewLogger(os.Stderr)
	if cfg.Cache.Path != "" || cfg.Cache.InMemory {
		s, err := store.Open(store.Config{
			Path:     cfg.Cache.Path,
			InMemory: cfg.Cache.InMemory,
			TTL:      cfg.Cache.TTL,
			Logger:   a.log,
		})
		if err != nil {
			return err
		}
		a.cache = s
	}
	opts := solve.Options{
		Groebner: cfg.GroebnerOptions(a.log),
		Logger:   a.log,
		Workers:  cfg.Workers,
	}
	if a.cache != nil {
		opts.Cache = a.cache
	}
	a.disp = solve.New(opts)
	return nil
}

func (a *app) close() error {
	if a.cache == nil {
		return nil
	}
	err := a.cache.Close()
	a.cache = nil
	return err
}

// deadline bounds one solve or basis computation.
func (a *app) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Groebner.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Groebner.Timeout)
	}
	return context.WithCancel(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "algsolve: %v\n", err)
		state.close()
		os.Exit(1)
	}
}
