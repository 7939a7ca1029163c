// Package settings persists the launcher's font and color theme choices
// and propagates the theme into each variant's config directory.
package settings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/catlaunch/internal/store"
)

// Repository stores Settings in the singleton settings and color_settings
// rows.
type Repository struct {
	bridge *store.Bridge
	fonts  FontParser
}

// NewRepository returns a repository backed by st. A nil parser uses
// SFNTParser.
func NewRepository(st *store.Store, fonts FontParser) *Repository {
	if fonts == nil {
		fonts = SFNTParser{}
	}
	return &Repository{bridge: st.Bridge(), fonts: fonts}
}

type storedPaths struct {
	font  sql.NullString
	theme sql.NullString
}

// Get loads the saved settings. References that no longer resolve are
// reported as absent: a missing or unreadable font file yields a nil Font,
// and a theme path that is not a theme file name yields a nil ColorTheme.
// Only store failures make Get fail.
func (r *Repository) Get(ctx context.Context) (Settings, error) {
	paths, err := store.Execute(ctx, r.bridge, func(ctx context.Context, conn *sql.Conn) (storedPaths, error) {
		var p storedPaths

		err := conn.QueryRowContext(ctx, "SELECT font_path FROM settings WHERE _id = 1").Scan(&p.font)
		if err != nil && err != sql.ErrNoRows {
			return p, store.Classify(err)
		}

		err = conn.QueryRowContext(ctx, "SELECT theme_path FROM color_settings WHERE _id = 1").Scan(&p.theme)
		if err != nil && err != sql.ErrNoRows {
			return p, store.Classify(err)
		}

		return p, nil
	})
	if err != nil {
		return Settings{}, &Error{Op: "get", Err: err}
	}

	var s Settings

	if paths.font.Valid && paths.font.String != "" {
		font, err := r.fonts.ParseFont(paths.font.String)
		if err != nil {
			slog.DebugContext(ctx, "stored font no longer resolves", "path", paths.font.String, "error", err)
		} else {
			s.Font = &font
		}
	}

	if paths.theme.Valid && paths.theme.String != "" {
		if theme, ok := ThemeFromPath(paths.theme.String); ok {
			s.ColorTheme = &theme
		} else {
			slog.DebugContext(ctx, "stored theme path is not a theme file", "path", paths.theme.String)
		}
	}

	return s, nil
}

// Save replaces both rows in one transaction. A nil Font or ColorTheme
// clears the stored value. On any failure nothing is changed.
func (r *Repository) Save(ctx context.Context, s Settings) error {
	var fontPath, themePath sql.NullString
	if s.Font != nil {
		fontPath = sql.NullString{String: s.Font.Path, Valid: true}
	}
	if s.ColorTheme != nil {
		themePath = sql.NullString{String: s.ColorTheme.Path, Valid: true}
	}

	_, err := store.Execute(ctx, r.bridge, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return struct{}{}, fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO settings (_id, font_path) VALUES (1, ?)", fontPath); err != nil {
			return struct{}{}, store.Classify(err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO color_settings (_id, theme_path) VALUES (1, ?)", themePath); err != nil {
			return struct{}{}, store.Classify(err)
		}

		if err := tx.Commit(); err != nil {
			return struct{}{}, fmt.Errorf("commit: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return &Error{Op: "save", Err: err}
	}

	slog.DebugContext(ctx, "settings saved", "font", fontPath.String, "theme", themePath.String)
	return nil
}
