package variant

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout resolves per-variant directories below a launcher data directory.
type Layout struct {
	DataDir string
}

// NewLayout returns a Layout rooted at dataDir.
func NewLayout(dataDir string) Layout {
	return Layout{DataDir: dataDir}
}

// UserGameDataPath returns <data>/UserData/<variant> without touching the
// filesystem.
func (l Layout) UserGameDataPath(v Variant) (string, error) {
	if !v.Valid() {
		return "", fmt.Errorf("unknown game variant %q", v)
	}
	if l.DataDir == "" {
		return "", fmt.Errorf("data directory is not configured")
	}
	return filepath.Join(l.DataDir, "UserData", v.ID()), nil
}

// UserGameDataDir returns <data>/UserData/<variant>, creating it if needed.
func (l Layout) UserGameDataDir(v Variant) (string, error) {
	dir, err := l.UserGameDataPath(v)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user game data directory: %w", err)
	}
	return dir, nil
}

// UserConfigDir returns the variant's config directory inside its user data
// directory, creating it if needed.
func (l Layout) UserConfigDir(v Variant) (string, error) {
	dataDir, err := l.UserGameDataDir(v)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dataDir, "config")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user config directory: %w", err)
	}
	return dir, nil
}
