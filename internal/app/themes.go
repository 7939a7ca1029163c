package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/output"
	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/store"
)

var (
	themesDir string

	themesCmd = &cobra.Command{
		Use:   "themes",
		Short: "List color themes available in a directory",
		Long: `List the base_colors-<id>.json files in a directory. The currently
selected theme is marked with '*'.`,
		Example: `  catlaunch themes --dir ~/cdda/data/raw/color_themes`,
		Args:    cobra.NoArgs,
		RunE:    runThemes,
	}
)

func init() {
	themesCmd.Flags().StringVar(&themesDir, "dir", "", "directory containing color theme files")
	themesCmd.MarkFlagRequired("dir")
}

func runThemes(cmd *cobra.Command, args []string) error {
	themes, err := settings.ListThemes(themesDir)
	if err != nil {
		return err
	}

	var selected *settings.ColorTheme
	err = withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		s, err := settings.NewRepository(st, nil).Get(ctx)
		if err != nil {
			return err
		}
		selected = s.ColorTheme
		return nil
	})
	if err != nil {
		// The list is still useful without a database.
		slog.Debug("could not load selected theme", "error", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderThemeTable(themes, selected))
	return nil
}
