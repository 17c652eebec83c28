// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/stabmass/config"
	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/stability"
	"github.com/katalvlaran/stabmass/store"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	dbPath     string
	params     []float64

	cfg    *config.Config
	logger *slog.Logger
	geo    *geometry.Context
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

// setup configures logging, loads the job and builds its geometry.
func (a *app) setup(cmd *cobra.Command) error {
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLevel(a.logLevel)}))

	if a.configPath == "" {
		a.cfg = config.DefaultConfig()
	} else {
		cfg, err := config.LoadFromFile(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if len(a.params) > 0 {
		a.cfg.Stability.Params = a.params
	}
	if a.dbPath != "" {
		a.cfg.Store.Path = a.dbPath
	}

	geo, err := a.cfg.Context()
	if err != nil {
		return fmt.Errorf("build geometry: %w", err)
	}
	a.geo = geo
	a.logger.Debug("job loaded",
		slog.String("config", a.configPath),
		slog.String("geometry", geo.String()),
		slog.Int("objects", len(a.cfg.Objects)))

	return nil
}

// object resolves a job object by name, falling back to a line bundle whose
// divisor is the argument itself ("2H", "0").
func (a *app) object(name string) (derived.Object, error) {
	objs, err := a.cfg.BuildObjects(a.geo)
	if err != nil {
		return nil, err
	}
	if o, ok := objs[name]; ok {
		return o, nil
	}
	l, err := derived.LineBundleOf(a.geo, name)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a job object nor a divisor: %w", name, err)
	}

	return l, nil
}

func (a *app) condition() (*stability.Condition, error) {
	return a.cfg.Condition(a.geo)
}

func (a *app) openStore() (*store.DB, error) {
	db, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", a.cfg.Store.Path, err)
	}

	return db, nil
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Bridgeland stability conditions: masses, HN filtrations and mass surfaces",
		Long: `Stabmass evaluates central charges, Harder–Narasimhan filtrations and
masses of derived objects on local P1, local P2 and K3 surfaces.

A YAML job (--config) names the geometry, the stability parameters and the
objects; without one the built-in local P2 job is used. Object arguments are
job names or divisor expressions such as "2H".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Job file path (YAML)")
	pf.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.dbPath, "db", "", "SQLite database path (overrides store.path)")
	pf.Float64SliceVar(&a.params, "params", nil, "Stability parameters (overrides stability.params)")

	cmd.AddCommand(
		massCmd(a),
		hnCmd(a),
		rhomCmd(a),
		sampleCmd(a),
		curveCmd(a),
		runsCmd(a),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
