// Package reset restores a game variant to its factory state: user data is
// wiped (except saves), installed-component records are dropped, and the
// launcher settings go back to defaults.
package reset

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// protectedDir is never removed from a user data directory.
const protectedDir = "save"

// FS is the filesystem surface the purge phase needs. WalkDir is only used
// to size entries before they are removed.
type FS interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Remove(name string) error
	RemoveAll(path string) error
	WalkDir(root string, fn fs.WalkDirFunc) error
}

type osFS struct{}

func (osFS) ReadDir(name string) ([]fs.DirEntry, error)   { return os.ReadDir(name) }
func (osFS) Remove(name string) error                     { return os.Remove(name) }
func (osFS) RemoveAll(path string) error                  { return os.RemoveAll(path) }
func (osFS) WalkDir(root string, fn fs.WalkDirFunc) error { return filepath.WalkDir(root, fn) }

// OSFS returns the real filesystem.
func OSFS() FS {
	return osFS{}
}

// DataDirs resolves a variant's user game data directory.
type DataDirs interface {
	UserGameDataDir(v variant.Variant) (string, error)
}

// Purger drops every installed-component record of a variant.
type Purger interface {
	DeleteAll(ctx context.Context, v variant.Variant) error
}

// SettingsSaver persists a full settings value.
type SettingsSaver interface {
	Save(ctx context.Context, s settings.Settings) error
}

// Deps are the collaborators of an Orchestrator. FS defaults to the real
// filesystem.
type Deps struct {
	Dirs       DataDirs
	FS         FS
	Mods       Purger
	Soundpacks Purger
	Tilesets   Purger
	Settings   SettingsSaver
}

// Orchestrator runs master resets.
type Orchestrator struct {
	deps Deps
}

// Report describes what a successful reset removed.
type Report struct {
	RunID      string
	Variant    variant.Variant
	DataDir    string
	Removed    []string
	FreedBytes int64
}

// New validates deps and returns an Orchestrator.
func New(deps Deps) (*Orchestrator, error) {
	if deps.Dirs == nil {
		return nil, fmt.Errorf("data directory resolver is required")
	}
	if deps.Mods == nil || deps.Soundpacks == nil || deps.Tilesets == nil {
		return nil, fmt.Errorf("all component repositories are required")
	}
	if deps.Settings == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if deps.FS == nil {
		deps.FS = OSFS()
	}
	return &Orchestrator{deps: deps}, nil
}

// MasterReset wipes v's user data directory except the save directory,
// then clears mods, soundpacks, and tilesets, then saves default settings.
//
// The repository calls are issued strictly one after another. Running
// them concurrently against the same SQLite file has deadlocked in the
// past; the order is kept as is (filesystem, mods, soundpacks, tilesets,
// settings) although it has not been verified against every store
// configuration.
//
// Nothing is rolled back: on error, whatever was already removed stays
// removed. Every step is idempotent, so running the reset again after
// fixing the cause finishes the job.
func (o *Orchestrator) MasterReset(ctx context.Context, v variant.Variant) (Report, error) {
	report := Report{RunID: uuid.NewString(), Variant: v}
	log := slog.Default().With("reset_id", report.RunID, "variant", v.ID())

	dataDir, err := o.deps.Dirs.UserGameDataDir(v)
	if err != nil {
		return report, &Error{Step: StepUserDataDir, Err: err}
	}
	report.DataDir = dataDir

	log.InfoContext(ctx, "purging user data", "dir", dataDir)
	if err := o.purgeDataDir(dataDir, &report); err != nil {
		log.ErrorContext(ctx, "master reset aborted", "error", err)
		return report, err
	}

	steps := []struct {
		step Step
		run  func() error
	}{
		{StepDeleteMods, func() error { return o.deps.Mods.DeleteAll(ctx, v) }},
		{StepDeleteSoundpacks, func() error { return o.deps.Soundpacks.DeleteAll(ctx, v) }},
		{StepDeleteTilesets, func() error { return o.deps.Tilesets.DeleteAll(ctx, v) }},
		{StepResetSettings, func() error { return o.deps.Settings.Save(ctx, settings.Default()) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			rerr := &Error{Step: s.step, Err: err}
			log.ErrorContext(ctx, "master reset aborted", "step", string(s.step), "error", err)
			return report, rerr
		}
		log.DebugContext(ctx, "reset step done", "step", string(s.step))
	}

	log.InfoContext(ctx, "master reset complete", "removed", len(report.Removed), "freed_bytes", report.FreedBytes)
	return report, nil
}

func (o *Orchestrator) purgeDataDir(dir string, report *Report) error {
	entries, err := o.deps.FS.ReadDir(dir)
	if err != nil {
		return &Error{Step: StepReadDir, Path: dir, Err: err}
	}

	for _, entry := range entries {
		if isProtected(entry) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		size := o.diskUsage(path)

		if entry.IsDir() {
			err = o.deps.FS.RemoveAll(path)
		} else {
			err = o.deps.FS.Remove(path)
		}
		if err != nil {
			return &Error{Step: StepRemoveEntry, Path: path, Err: err}
		}

		report.Removed = append(report.Removed, path)
		report.FreedBytes += size
	}
	return nil
}

func isProtected(entry fs.DirEntry) bool {
	return entry.IsDir() && strings.EqualFold(entry.Name(), protectedDir)
}

// diskUsage is best effort: unreadable entries count as zero.
func (o *Orchestrator) diskUsage(path string) int64 {
	var total int64
	_ = o.deps.FS.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
