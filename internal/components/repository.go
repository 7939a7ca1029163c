package components

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blackwell-systems/catlaunch/internal/store"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// Installed is the capability every component repository offers.
type Installed interface {
	Add(ctx context.Context, id string, v variant.Variant) error
	Delete(ctx context.Context, id string, v variant.Variant) error
	DeleteAll(ctx context.Context, v variant.Variant) error
	IsInstalled(ctx context.Context, id string, v variant.Variant) (bool, error)
}

// Repository is the SQLite-backed Installed implementation for one Kind.
// It keeps no state besides the store handle.
type Repository struct {
	kind   Kind
	bridge *store.Bridge

	insertSQL    string
	deleteSQL    string
	deleteAllSQL string
	existsSQL    string
	listSQL      string
}

var _ Installed = (*Repository)(nil)

// New returns a repository for kind backed by st.
func New(kind Kind, st *store.Store) *Repository {
	return &Repository{
		kind:         kind,
		bridge:       st.Bridge(),
		insertSQL:    fmt.Sprintf("INSERT OR IGNORE INTO %s (%s, game_variant) VALUES (?, ?)", kind.Table, kind.IDColumn),
		deleteSQL:    fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND game_variant = ?", kind.Table, kind.IDColumn),
		deleteAllSQL: fmt.Sprintf("DELETE FROM %s WHERE game_variant = ?", kind.Table),
		existsSQL:    fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ? AND game_variant = ?)", kind.Table, kind.IDColumn),
		listSQL:      fmt.Sprintf("SELECT %s FROM %s WHERE game_variant = ? ORDER BY %s", kind.IDColumn, kind.Table, kind.IDColumn),
	}
}

// Add records id as installed for v. Adding an installed id is a no-op.
func (r *Repository) Add(ctx context.Context, id string, v variant.Variant) error {
	if err := validate(id, v); err != nil {
		return r.fail(OpAdd, id, v, err)
	}

	_, err := store.Execute(ctx, r.bridge, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		_, err := conn.ExecContext(ctx, r.insertSQL, id, v.ID())
		return struct{}{}, store.Classify(err)
	})
	if err != nil {
		return r.fail(OpAdd, id, v, err)
	}

	slog.DebugContext(ctx, "component added", "kind", r.kind.Name, "id", id, "variant", v)
	return nil
}

// Delete removes exactly one record. It fails with ErrNotFound when no row
// matched, which includes losing a race against a concurrent Delete.
func (r *Repository) Delete(ctx context.Context, id string, v variant.Variant) error {
	if err := validate(id, v); err != nil {
		return r.fail(OpDelete, id, v, err)
	}

	affected, err := store.Execute(ctx, r.bridge, func(ctx context.Context, conn *sql.Conn) (int64, error) {
		result, err := conn.ExecContext(ctx, r.deleteSQL, id, v.ID())
		if err != nil {
			return 0, store.Classify(err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return r.fail(OpDelete, id, v, err)
	}

	if affected == 0 {
		return r.fail(OpDelete, id, v, ErrNotFound)
	}

	slog.DebugContext(ctx, "component deleted", "kind", r.kind.Name, "id", id, "variant", v)
	return nil
}

// DeleteAll removes every record for v. It succeeds when there are none.
func (r *Repository) DeleteAll(ctx context.Context, v variant.Variant) error {
	if !v.Valid() {
		return r.fail(OpDeleteAll, "", v, fmt.Errorf("unknown game variant %q", v))
	}

	affected, err := store.Execute(ctx, r.bridge, func(ctx context.Context, conn *sql.Conn) (int64, error) {
		result, err := conn.ExecContext(ctx, r.deleteAllSQL, v.ID())
		if err != nil {
			return 0, store.Classify(err)
		}
		// Only used for logging; a driver that cannot report it is not a failure.
		rows, _ := result.RowsAffected()
		return rows, nil
	})
	if err != nil {
		return r.fail(OpDeleteAll, "", v, err)
	}

	slog.DebugContext(ctx, "components cleared", "kind", r.kind.Plural, "variant", v, "rows", affected)
	return nil
}

// IsInstalled reports whether id is recorded as installed for v.
func (r *Repository) IsInstalled(ctx context.Context, id string, v variant.Variant) (bool, error) {
	if err := validate(id, v); err != nil {
		return false, r.fail(OpIsInstalled, id, v, err)
	}

	exists, err := store.Execute(ctx, r.bridge, func(ctx context.Context, conn *sql.Conn) (bool, error) {
		var exists bool
		err := conn.QueryRowContext(ctx, r.existsSQL, id, v.ID()).Scan(&exists)
		return exists, store.Classify(err)
	})
	if err != nil {
		return false, r.fail(OpIsInstalled, id, v, err)
	}
	return exists, nil
}

// List returns the ids installed for v, sorted.
func (r *Repository) List(ctx context.Context, v variant.Variant) ([]string, error) {
	if !v.Valid() {
		return nil, r.fail(OpList, "", v, fmt.Errorf("unknown game variant %q", v))
	}

	ids, err := store.Execute(ctx, r.bridge, func(ctx context.Context, conn *sql.Conn) ([]string, error) {
		rows, err := conn.QueryContext(ctx, r.listSQL, v.ID())
		if err != nil {
			return nil, store.Classify(err)
		}
		defer rows.Close()

		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, fmt.Errorf("failed to scan %s row: %w", r.kind.Name, err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating %s: %w", r.kind.Plural, err)
		}
		return ids, nil
	})
	if err != nil {
		return nil, r.fail(OpList, "", v, err)
	}
	return ids, nil
}

func (r *Repository) fail(op, id string, v variant.Variant, err error) error {
	return &Error{Kind: r.kind, Op: op, ID: id, Variant: v, Err: err}
}

func validate(id string, v variant.Variant) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("component id is required")
	}
	if !v.Valid() {
		return fmt.Errorf("unknown game variant %q", v)
	}
	return nil
}
