package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/store"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the launcher database and per-variant data directories",
	Long: `Create the catlaunch database and the user data directory of every
supported variant. Running init again is safe: existing tables and
directories are left as they are.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		if err := st.CreateSchema(ctx); err != nil {
			return fmt.Errorf("failed to create database schema: %w", err)
		}
		fmt.Fprintf(out, "✓ Database ready: %s\n", cfg.DBPath)

		l := userLayout()
		for _, v := range variant.All() {
			dir, err := l.UserGameDataDir(v)
			if err != nil {
				return err
			}
			if _, err := l.UserConfigDir(v); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ %s: %s\n", v.Name(), dir)
		}
		return nil
	})
}
