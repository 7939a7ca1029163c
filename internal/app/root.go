package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/components"
	"github.com/blackwell-systems/catlaunch/internal/config"
	"github.com/blackwell-systems/catlaunch/internal/logging"
	"github.com/blackwell-systems/catlaunch/internal/store"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

var (
	dbPath   string
	dataDir  string
	logLevel string

	// cfg is resolved once per invocation by loadConfig.
	cfg *config.Config

	// RootCmd is the root command for catlaunch
	RootCmd = &cobra.Command{
		Use:   "catlaunch",
		Short: "Manage installed mods, soundpacks, tilesets, and settings for Cataclysm variants",
		Long: `catlaunch tracks which mods, soundpacks, and tilesets are installed for each
Cataclysm game variant, remembers the selected font and color theme, and can
restore a variant to its factory state.

Supported variants:
  • DarkDaysAhead (dda)
  • BrightNights (bn)
  • TheLastGeneration (tlg)

Quick Start:
  1. catlaunch init
  2. catlaunch mods add aftershock --variant dda
  3. catlaunch settings set --theme ~/themes/base_colors-dark.json

Examples:
  # List installed tilesets
  catlaunch tilesets list --variant bn

  # Wipe user data (saves are kept) and clear all records
  catlaunch reset --variant tlg

  # Keep the color theme applied in the background
  catlaunch watch --daemon`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "catlaunch: installation state for Cataclysm game variants")
			fmt.Fprintln(out)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "Run 'catlaunch init' to get started.")
			} else {
				fmt.Fprintln(out, "Tip: Run 'catlaunch variants' to see supported variants.")
			}
			fmt.Fprintln(out, "Run 'catlaunch --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: <data-dir>/catlaunch.db)")
	RootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "launcher data directory (default: $XDG_DATA_HOME/catlaunch)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(initCmd)
	for _, kind := range components.Kinds() {
		RootCmd.AddCommand(newComponentCmd(kind))
	}
	RootCmd.AddCommand(settingsCmd)
	RootCmd.AddCommand(fontsCmd)
	RootCmd.AddCommand(themesCmd)
	RootCmd.AddCommand(resetCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(variantsCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the environment, applies flag overrides, and sets up
// logging.
func loadConfig() error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	if dataDir != "" {
		c.DataDir = dataDir
		if os.Getenv("CATLAUNCH_DB") == "" {
			c.DBPath = filepath.Join(dataDir, config.DBFileName)
		}
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}

	logging.Init(c.LogLevel, c.LogFormat, os.Stderr)
	cfg = c
	return nil
}

// openStore opens the database in cfg without touching the schema.
func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	st, err := store.New(cfg.DBPath, store.Options{
		MaxOpenConns: cfg.MaxOpenConns,
		Workers:      cfg.Workers,
		BusyTimeout:  cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

func userLayout() variant.Layout {
	return variant.NewLayout(cfg.DataDir)
}

// resolveVariant accepts a variant id, a built-in short name, or a user
// alias from the config directory.
func resolveVariant(name string) (variant.Variant, error) {
	if name == "" {
		return "", fmt.Errorf("--variant is required")
	}
	var aliases *config.AliasConfig
	if dir, err := config.Dir(); err == nil {
		aliases, err = config.LoadAliases(dir)
		if err != nil {
			return "", fmt.Errorf("failed to load aliases: %w", err)
		}
	}
	return aliases.Resolve(name)
}

// withStore opens the store, runs fn, and closes the store.
func withStore(ctx context.Context, fn func(ctx context.Context, st *store.Store) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}
