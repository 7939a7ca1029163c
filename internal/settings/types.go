package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	themePrefix = "base_colors-"
	themeSuffix = ".json"
)

// Font is a font file chosen by the user.
type Font struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ColorTheme is a color theme file shipped with the game.
type ColorTheme struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Settings holds the user's launcher preferences. A nil field means the
// game default is used.
type Settings struct {
	Font       *Font       `json:"font"`
	ColorTheme *ColorTheme `json:"color_theme"`
}

// Default returns settings with nothing selected.
func Default() Settings {
	return Settings{}
}

// ThemeFromPath derives a theme from a file named base_colors-<id>.json.
// Only the name is inspected; the file is never opened. The id may be
// empty. It returns false for any other file name.
func ThemeFromPath(path string) (ColorTheme, bool) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, themePrefix) || !strings.HasSuffix(name, themeSuffix) {
		return ColorTheme{}, false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, themePrefix), themeSuffix)
	return ColorTheme{ID: id, Name: id, Path: path}, true
}

// ListThemes returns the color themes found in dir, sorted by name.
func ListThemes(dir string) ([]ColorTheme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme directory: %w", err)
	}

	var themes []ColorTheme
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if theme, ok := ThemeFromPath(filepath.Join(dir, entry.Name())); ok {
			themes = append(themes, theme)
		}
	}

	sort.Slice(themes, func(i, j int) bool {
		return themes[i].Name < themes[j].Name
	})
	return themes, nil
}
