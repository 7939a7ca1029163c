package reset

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/catlaunch/internal/components"
	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/store"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// recorder logs every repository call in order and can fail one step.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (r *recorder) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	if name == r.failOn {
		return errors.New(name + " exploded")
	}
	return nil
}

type recPurger struct {
	name string
	rec  *recorder
}

func (p recPurger) DeleteAll(ctx context.Context, v variant.Variant) error {
	return p.rec.record(p.name)
}

type recSettings struct {
	rec   *recorder
	saved *settings.Settings
}

func (s *recSettings) Save(ctx context.Context, st settings.Settings) error {
	if err := s.rec.record("settings"); err != nil {
		return err
	}
	s.saved = &st
	return nil
}

type failingFS struct {
	FS
	failPath string
}

func (f failingFS) RemoveAll(path string) error {
	if filepath.Base(path) == f.failPath {
		return fs.ErrPermission
	}
	return f.FS.RemoveAll(path)
}

func (f failingFS) Remove(path string) error {
	if filepath.Base(path) == f.failPath {
		return fs.ErrPermission
	}
	return f.FS.Remove(path)
}

// unsizableFS records which entries were sized and fails every walk.
type unsizableFS struct {
	FS
	walked []string
}

func (f *unsizableFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	f.walked = append(f.walked, filepath.Base(root))
	return fn(root, nil, fs.ErrPermission)
}

func mkfile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
}

func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func newRecordingOrchestrator(t *testing.T, layout variant.Layout, fsys FS, rec *recorder) (*Orchestrator, *recSettings) {
	t.Helper()
	st := &recSettings{rec: rec}
	o, err := New(Deps{
		Dirs:       layout,
		FS:         fsys,
		Mods:       recPurger{"mods", rec},
		Soundpacks: recPurger{"soundpacks", rec},
		Tilesets:   recPurger{"tilesets", rec},
		Settings:   st,
	})
	require.NoError(t, err)
	return o, st
}

func TestMasterReset_EndToEnd(t *testing.T) {
	ctx := context.Background()
	layout := variant.NewLayout(t.TempDir())

	db, err := store.New(filepath.Join(t.TempDir(), "reset.db"), store.DefaultOptions())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.CreateSchema(ctx))

	mods := components.New(components.Mods, db)
	soundpacks := components.New(components.Soundpacks, db)
	tilesets := components.New(components.Tilesets, db)
	settingsRepo := settings.NewRepository(db, nil)

	v := variant.BrightNights
	dataDir, err := layout.UserGameDataDir(v)
	require.NoError(t, err)
	mkfile(t, filepath.Join(dataDir, "A"))
	mkfile(t, filepath.Join(dataDir, "B"))
	mkfile(t, filepath.Join(dataDir, "save", "x"))

	require.NoError(t, mods.Add(ctx, "magiclysm", v))
	require.NoError(t, mods.Add(ctx, "magiclysm", variant.DarkDaysAhead))
	require.NoError(t, settingsRepo.Save(ctx, settings.Settings{
		ColorTheme: &settings.ColorTheme{ID: "amber", Name: "amber", Path: "/t/base_colors-amber.json"},
	}))

	o, err := New(Deps{Dirs: layout, Mods: mods, Soundpacks: soundpacks, Tilesets: tilesets, Settings: settingsRepo})
	require.NoError(t, err)

	report, err := o.MasterReset(ctx, v)
	require.NoError(t, err)

	assert.Equal(t, []string{"save/x"}, listTree(t, dataDir))
	assert.Len(t, report.Removed, 2)
	assert.Equal(t, int64(8), report.FreedBytes)
	assert.NotEmpty(t, report.RunID)

	ids, err := mods.List(ctx, v)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Other variants are untouched.
	ok, err := mods.IsInstalled(ctx, "magiclysm", variant.DarkDaysAhead)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := settingsRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), got)

	// Running it again converges.
	_, err = o.MasterReset(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, []string{"save/x"}, listTree(t, dataDir))
}

func TestMasterReset_StrictOrder(t *testing.T) {
	rec := &recorder{}
	o, saved := newRecordingOrchestrator(t, variant.NewLayout(t.TempDir()), OSFS(), rec)

	_, err := o.MasterReset(context.Background(), variant.DarkDaysAhead)
	require.NoError(t, err)

	assert.Equal(t, []string{"mods", "soundpacks", "tilesets", "settings"}, rec.calls)
	require.NotNil(t, saved.saved)
	assert.Equal(t, settings.Default(), *saved.saved)
}

func TestMasterReset_StopsAtFirstRepositoryFailure(t *testing.T) {
	rec := &recorder{failOn: "soundpacks"}
	o, saved := newRecordingOrchestrator(t, variant.NewLayout(t.TempDir()), OSFS(), rec)

	_, err := o.MasterReset(context.Background(), variant.TheLastGeneration)
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, StepDeleteSoundpacks, rerr.Step)
	assert.Contains(t, err.Error(), "failed to delete installed soundpacks")

	// Mods already cleared, nothing after the failing step ran.
	assert.Equal(t, []string{"mods", "soundpacks"}, rec.calls)
	assert.Nil(t, saved.saved)
}

func TestMasterReset_SettingsFailure(t *testing.T) {
	rec := &recorder{failOn: "settings"}
	o, _ := newRecordingOrchestrator(t, variant.NewLayout(t.TempDir()), OSFS(), rec)

	_, err := o.MasterReset(context.Background(), variant.BrightNights)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, StepResetSettings, rerr.Step)
	assert.Equal(t, []string{"mods", "soundpacks", "tilesets", "settings"}, rec.calls)
}

func TestMasterReset_RemovalFailureAbortsBeforeStore(t *testing.T) {
	layout := variant.NewLayout(t.TempDir())
	dataDir, err := layout.UserGameDataDir(variant.BrightNights)
	require.NoError(t, err)
	mkfile(t, filepath.Join(dataDir, "locked", "file"))

	rec := &recorder{}
	o, _ := newRecordingOrchestrator(t, layout, failingFS{FS: OSFS(), failPath: "locked"}, rec)

	_, err = o.MasterReset(context.Background(), variant.BrightNights)
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, StepRemoveEntry, rerr.Step)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Empty(t, rec.calls)
}

func TestMasterReset_SaveProtection(t *testing.T) {
	layout := variant.NewLayout(t.TempDir())
	dataDir, err := layout.UserGameDataDir(variant.DarkDaysAhead)
	require.NoError(t, err)

	mkfile(t, filepath.Join(dataDir, "SAVE", "world", "map.sav"))
	mkfile(t, filepath.Join(dataDir, "config", "options.json"))
	mkfile(t, filepath.Join(dataDir, "mods", "m", "modinfo.json"))

	o, _ := newRecordingOrchestrator(t, layout, OSFS(), &recorder{})
	_, err = o.MasterReset(context.Background(), variant.DarkDaysAhead)
	require.NoError(t, err)

	assert.Equal(t, []string{"SAVE/world/map.sav"}, listTree(t, dataDir))
}

func TestMasterReset_SaveFileIsNotProtected(t *testing.T) {
	layout := variant.NewLayout(t.TempDir())
	dataDir, err := layout.UserGameDataDir(variant.DarkDaysAhead)
	require.NoError(t, err)
	mkfile(t, filepath.Join(dataDir, "save"))

	o, _ := newRecordingOrchestrator(t, layout, OSFS(), &recorder{})
	_, err = o.MasterReset(context.Background(), variant.DarkDaysAhead)
	require.NoError(t, err)

	assert.Empty(t, listTree(t, dataDir))
}

func TestMasterReset_UnknownVariant(t *testing.T) {
	rec := &recorder{}
	o, _ := newRecordingOrchestrator(t, variant.NewLayout(t.TempDir()), OSFS(), rec)

	_, err := o.MasterReset(context.Background(), variant.Variant("Nope"))
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, StepUserDataDir, rerr.Step)
	assert.Empty(t, rec.calls)
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	rec := &recorder{}
	_, err = New(Deps{
		Dirs:       variant.NewLayout(t.TempDir()),
		Mods:       recPurger{"mods", rec},
		Soundpacks: recPurger{"soundpacks", rec},
		Tilesets:   recPurger{"tilesets", rec},
	})
	assert.Error(t, err)
}

func TestMasterReset_SizesThroughInjectedFS(t *testing.T) {
	layout := variant.NewLayout(t.TempDir())
	dataDir, err := layout.UserGameDataDir(variant.TheLastGeneration)
	require.NoError(t, err)
	mkfile(t, filepath.Join(dataDir, "memorial", "a.txt"))
	mkfile(t, filepath.Join(dataDir, "debug.log"))
	mkfile(t, filepath.Join(dataDir, "save", "w", "x.sav"))

	fsys := &unsizableFS{FS: OSFS()}
	rec := &recorder{}
	o, _ := newRecordingOrchestrator(t, layout, fsys, rec)

	report, err := o.MasterReset(context.Background(), variant.TheLastGeneration)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"memorial", "debug.log"}, fsys.walked)
	assert.Len(t, report.Removed, 2)
	assert.Zero(t, report.FreedBytes)
	assert.Equal(t, []string{"save/w/x.sav"}, listTree(t, dataDir))
}
