// Package output renders catlaunch results for the terminal: installed
// component lists, the current settings, color themes, variants, and the
// master reset report. It also provides a spinner for long steps.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/catlaunch/internal/components"
	"github.com/blackwell-systems/catlaunch/internal/reset"
	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderComponentList renders the installed ids of one kind for a variant.
func RenderComponentList(kind components.Kind, v variant.Variant, ids []string) string {
	if len(ids) == 0 {
		return fmt.Sprintf("No %s installed for %s.\n", kind.Plural, v.Name())
	}

	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s for %s (%d)\n", capitalize(kind.Plural), v.Name(), len(sorted)))
	sb.WriteString(strings.Repeat("─", 40))
	sb.WriteString("\n")
	for _, id := range sorted {
		sb.WriteString("  ")
		sb.WriteString(id)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderStatus renders a single installed/not-installed line.
func RenderStatus(kind components.Kind, id string, v variant.Variant, installed bool) string {
	state := colorize(colorRed, "not installed")
	if installed {
		state = colorize(colorGreen, "installed")
	}
	return fmt.Sprintf("%s %s (%s): %s\n", kind.Name, id, v.ID(), state)
}

// RenderSettings renders the current launcher settings.
func RenderSettings(s settings.Settings) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-13s ", "Font:"))
	if s.Font == nil {
		sb.WriteString(colorize(colorGray, "(game default)"))
	} else {
		sb.WriteString(fmt.Sprintf("%s  %s", s.Font.Name, colorize(colorGray, s.Font.Path)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-13s ", "Color theme:"))
	if s.ColorTheme == nil {
		sb.WriteString(colorize(colorGray, "(game default)"))
	} else {
		sb.WriteString(fmt.Sprintf("%s  %s", s.ColorTheme.Name, colorize(colorGray, s.ColorTheme.Path)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderThemeTable renders the color themes found in a directory. The
// selected theme, if any, is marked.
func RenderThemeTable(themes []settings.ColorTheme, selected *settings.ColorTheme) string {
	if len(themes) == 0 {
		return "No color themes found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %-24s %s\n", "Theme", "Path"))
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")
	for _, theme := range themes {
		mark := " "
		if selected != nil && selected.Path == theme.Path {
			mark = colorize(colorGreen, "*")
		}
		sb.WriteString(fmt.Sprintf("%s %-24s %s\n", mark, truncate(theme.Name, 24), theme.Path))
	}
	return sb.String()
}

// RenderFontTable renders the fonts found in a directory. The selected font,
// if any, is marked.
func RenderFontTable(fonts []settings.Font, selected *settings.Font) string {
	if len(fonts) == 0 {
		return "No fonts found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %-32s %s\n", "Font", "Path"))
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")
	for _, font := range fonts {
		mark := " "
		if selected != nil && selected.Path == font.Path {
			mark = colorize(colorGreen, "*")
		}
		sb.WriteString(fmt.Sprintf("%s %-32s %s\n", mark, truncate(font.Name, 32), font.Path))
	}
	return sb.String()
}

// RenderVariantTable renders the supported game variants and their user
// data directories. Nothing is created on disk.
func RenderVariantTable(layout variant.Layout) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-22s %-26s %s\n", "Variant", "Name", "User data"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")
	for _, v := range variant.All() {
		dir, err := layout.UserGameDataPath(v)
		if err != nil {
			dir = colorize(colorRed, err.Error())
		}
		sb.WriteString(fmt.Sprintf("%-22s %-26s %s\n", v.ID(), v.Name(), dir))
	}
	return sb.String()
}

// RenderResetReport summarizes a completed master reset.
func RenderResetReport(r reset.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Reset %s (run %s)\n", r.Variant.Name(), r.RunID))
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")

	if len(r.Removed) == 0 {
		sb.WriteString("  No user data to remove.\n")
	} else {
		for _, path := range r.Removed {
			sb.WriteString("  ")
			sb.WriteString(colorize(colorRed, "removed"))
			sb.WriteString(" ")
			sb.WriteString(path)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nFreed %s from %s\n", humanize.Bytes(uint64(max(r.FreedBytes, 0))), r.DataDir))
	sb.WriteString("Installed components cleared, settings restored to defaults.\n")
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
