package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/output"
	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/store"
)

var (
	settingsFont       string
	settingsTheme      string
	settingsClearFont  bool
	settingsClearTheme bool

	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Show or change the launcher font and color theme",
	}

	settingsShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the saved font and color theme",
		Long: `Show the saved font and color theme. A font file that no longer exists
or cannot be parsed, and a theme path that is not a base_colors-<id>.json
file, are shown as the game default.`,
		Args: cobra.NoArgs,
		RunE: runSettingsShow,
	}

	settingsSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Change the font and/or color theme",
		Long: `Change the launcher settings. Flags that are not given keep their current
value. The selected font is written to every variant's fonts.json for each
typeface category the variant supports, and the selected color theme is
copied into every variant's config directory as base_colors.json. Clearing
either removes the corresponding file.`,
		Example: `  catlaunch settings set --font ~/fonts/Terminus.ttf
  catlaunch settings set --theme ~/themes/base_colors-solarized.json
  catlaunch settings set --clear-theme`,
		Args: cobra.NoArgs,
		RunE: runSettingsSet,
	}
)

func init() {
	settingsSetCmd.Flags().StringVar(&settingsFont, "font", "", "path to a TrueType/OpenType font file")
	settingsSetCmd.Flags().StringVar(&settingsTheme, "theme", "", "path to a base_colors-<id>.json theme file")
	settingsSetCmd.Flags().BoolVar(&settingsClearFont, "clear-font", false, "use the game default font")
	settingsSetCmd.Flags().BoolVar(&settingsClearTheme, "clear-theme", false, "use the game default colors")
	settingsSetCmd.MarkFlagsMutuallyExclusive("font", "clear-font")
	settingsSetCmd.MarkFlagsMutuallyExclusive("theme", "clear-theme")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		s, err := settings.NewRepository(st, nil).Get(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output.RenderSettings(s))
		return nil
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsFont == "" && settingsTheme == "" && !settingsClearFont && !settingsClearTheme {
		return fmt.Errorf("nothing to change: pass --font, --theme, --clear-font, or --clear-theme")
	}

	var font *settings.Font
	if settingsFont != "" {
		path, err := filepath.Abs(settingsFont)
		if err != nil {
			return err
		}
		f, err := settings.SFNTParser{}.ParseFont(path)
		if err != nil {
			return fmt.Errorf("invalid font %s: %w", settingsFont, err)
		}
		font = &f
	}

	var theme *settings.ColorTheme
	if settingsTheme != "" {
		path, err := filepath.Abs(settingsTheme)
		if err != nil {
			return err
		}
		t, ok := settings.ThemeFromPath(path)
		if !ok {
			return fmt.Errorf("invalid theme %s: file must be named base_colors-<id>.json", settingsTheme)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("invalid theme %s: %w", settingsTheme, err)
		}
		theme = &t
	}

	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		repo := settings.NewRepository(st, nil)
		current, err := repo.Get(ctx)
		if err != nil {
			return err
		}

		next := current
		switch {
		case font != nil:
			next.Font = font
		case settingsClearFont:
			next.Font = nil
		}
		switch {
		case theme != nil:
			next.ColorTheme = theme
		case settingsClearTheme:
			next.ColorTheme = nil
		}

		if err := settings.NewSyncer(userLayout(), repo).Update(ctx, next); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Settings saved")
		fmt.Fprint(cmd.OutOrStdout(), output.RenderSettings(next))
		return nil
	})
}
