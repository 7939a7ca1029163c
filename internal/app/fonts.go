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
	fontsDir string

	fontsCmd = &cobra.Command{
		Use:   "fonts",
		Short: "List fonts available in a directory",
		Long: `List the TrueType and OpenType fonts below a directory, searched
recursively. Files that cannot be parsed are skipped. The currently selected
font is marked with '*'.`,
		Example: `  catlaunch fonts --dir /usr/share/fonts/truetype`,
		Args:    cobra.NoArgs,
		RunE:    runFonts,
	}
)

func init() {
	fontsCmd.Flags().StringVar(&fontsDir, "dir", "", "directory containing font files")
	fontsCmd.MarkFlagRequired("dir")
}

func runFonts(cmd *cobra.Command, args []string) error {
	fonts, err := settings.ListFonts(fontsDir)
	if err != nil {
		return err
	}

	var selected *settings.Font
	err = withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		s, err := settings.NewRepository(st, nil).Get(ctx)
		if err != nil {
			return err
		}
		selected = s.Font
		return nil
	})
	if err != nil {
		slog.Debug("could not load selected font", "error", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderFontTable(fonts, selected))
	return nil
}
