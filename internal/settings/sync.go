package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// ThemeFileName is the file the game reads its colors from inside a
// variant's config directory.
const ThemeFileName = "base_colors.json"

// FontsFileName is the per-variant file mapping typeface categories to
// font files.
const FontsFileName = "fonts.json"

// Syncer keeps the per-variant config directories in line with the saved
// settings.
type Syncer struct {
	layout variant.Layout
	repo   *Repository
}

// NewSyncer returns a Syncer writing below layout and reading from repo.
func NewSyncer(layout variant.Layout, repo *Repository) *Syncer {
	return &Syncer{layout: layout, repo: repo}
}

// Update propagates s to every variant and then saves it.
func (sy *Syncer) Update(ctx context.Context, s Settings) error {
	if err := sy.sync(ctx, s); err != nil {
		return err
	}
	return sy.repo.Save(ctx, s)
}

// Reapply loads the saved settings and propagates them again.
func (sy *Syncer) Reapply(ctx context.Context) error {
	s, err := sy.repo.Get(ctx)
	if err != nil {
		return err
	}
	return sy.sync(ctx, s)
}

func (sy *Syncer) sync(ctx context.Context, s Settings) error {
	if err := sy.SyncFont(ctx, s); err != nil {
		return err
	}
	return sy.SyncColorTheme(ctx, s)
}

// SyncFont points every typeface category a variant supports at the
// selected font by writing the variant's fonts.json. With no font selected
// the file is removed.
func (sy *Syncer) SyncFont(ctx context.Context, s Settings) error {
	for _, v := range variant.All() {
		configDir, err := sy.layout.UserConfigDir(v)
		if err != nil {
			return fmt.Errorf("failed to get config directory for %s: %w", v, err)
		}
		target := filepath.Join(configDir, FontsFileName)

		if s.Font == nil {
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove fonts file: %w", err)
			}
			continue
		}

		categories := make(map[string][]string)
		for _, category := range v.TypefaceCategories() {
			categories[category] = []string{s.Font.Path}
		}
		content, err := json.MarshalIndent(categories, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode fonts file: %w", err)
		}

		changed, err := writeIfChanged(target, append(content, '\n'))
		if err != nil {
			return fmt.Errorf("failed to write fonts file: %w", err)
		}
		if changed {
			slog.DebugContext(ctx, "fonts written", "variant", v, "path", target)
		}
	}
	return nil
}

// SyncColorTheme copies the selected theme to each variant's
// base_colors.json, or removes that file when no theme is selected so the
// game falls back to its defaults. Files that already match are left alone.
func (sy *Syncer) SyncColorTheme(ctx context.Context, s Settings) error {
	var content []byte
	if s.ColorTheme != nil {
		data, err := os.ReadFile(s.ColorTheme.Path)
		if err != nil {
			return fmt.Errorf("failed to read color theme %s: %w", s.ColorTheme.ID, err)
		}
		content = data
	}

	for _, v := range variant.All() {
		configDir, err := sy.layout.UserConfigDir(v)
		if err != nil {
			return fmt.Errorf("failed to get config directory for %s: %w", v, err)
		}
		target := filepath.Join(configDir, ThemeFileName)

		if content == nil {
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove color theme file: %w", err)
			}
			continue
		}

		changed, err := writeIfChanged(target, content)
		if err != nil {
			return fmt.Errorf("failed to copy color theme file: %w", err)
		}
		if changed {
			slog.DebugContext(ctx, "color theme written", "variant", v, "path", target)
		}
	}
	return nil
}

func writeIfChanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return false, err
	}
	return true, nil
}
