package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/blackwell-systems/catlaunch/internal/store"
)

// stubFonts resolves any existing file to a Font named after its base name.
type stubFonts struct{}

func (stubFonts) ParseFont(path string) (Font, error) {
	if _, err := os.Stat(path); err != nil {
		return Font{}, err
	}
	return Font{Name: filepath.Base(path), Path: path}, nil
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "settings.db"), store.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, st.CreateSchema(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestGet_DefaultsOnFirstAccess(t *testing.T) {
	repo := NewRepository(setupTestStore(t), stubFonts{})

	s, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestSaveThenGet(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(setupTestStore(t), stubFonts{})
	ctx := context.Background()

	fontPath := writeFile(t, filepath.Join(dir, "Terminus.ttf"), []byte("font"))
	themePath := writeFile(t, filepath.Join(dir, "base_colors-solarized.json"), []byte("{}"))

	require.NoError(t, repo.Save(ctx, Settings{
		Font:       &Font{Name: "Terminus", Path: fontPath},
		ColorTheme: &ColorTheme{ID: "solarized", Name: "solarized", Path: themePath},
	}))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, s.Font)
	require.NotNil(t, s.ColorTheme)
	assert.Equal(t, fontPath, s.Font.Path)
	assert.Equal(t, "solarized", s.ColorTheme.ID)
	assert.Equal(t, themePath, s.ColorTheme.Path)
}

func TestSave_FullReplaceClearsTheme(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(setupTestStore(t), stubFonts{})
	ctx := context.Background()

	fontPath := writeFile(t, filepath.Join(dir, "a.ttf"), []byte("font"))
	themePath := filepath.Join(dir, "base_colors-dark.json")

	require.NoError(t, repo.Save(ctx, Settings{
		Font:       &Font{Name: "a", Path: fontPath},
		ColorTheme: &ColorTheme{ID: "dark", Name: "dark", Path: themePath},
	}))
	require.NoError(t, repo.Save(ctx, Settings{Font: &Font{Name: "a", Path: fontPath}}))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.ColorTheme)
	require.NotNil(t, s.Font)
	assert.Equal(t, fontPath, s.Font.Path)
}

func TestGet_MissingFontDegradesToAbsent(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(setupTestStore(t), SFNTParser{})
	ctx := context.Background()

	themePath := filepath.Join(dir, "base_colors-amber.json")
	require.NoError(t, repo.Save(ctx, Settings{
		Font:       &Font{Name: "gone", Path: filepath.Join(dir, "gone.ttf")},
		ColorTheme: &ColorTheme{ID: "amber", Name: "amber", Path: themePath},
	}))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.Font)
	require.NotNil(t, s.ColorTheme)
	assert.Equal(t, "amber", s.ColorTheme.ID)
}

func TestGet_MalformedFontDegradesToAbsent(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(setupTestStore(t), SFNTParser{})
	ctx := context.Background()

	bad := writeFile(t, filepath.Join(dir, "broken.ttf"), []byte("definitely not a font"))
	require.NoError(t, repo.Save(ctx, Settings{Font: &Font{Name: "broken", Path: bad}}))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.Font)
}

func TestGet_BadThemeNameDegradesToAbsent(t *testing.T) {
	repo := NewRepository(setupTestStore(t), stubFonts{})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, Settings{
		ColorTheme: &ColorTheme{ID: "x", Name: "x", Path: "/themes/colors.json"},
	}))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.ColorTheme)
}

func TestSave_RollsBackOnFailure(t *testing.T) {
	st := setupTestStore(t)
	repo := NewRepository(st, stubFonts{})
	ctx := context.Background()
	dir := t.TempDir()

	oldFont := writeFile(t, filepath.Join(dir, "old.ttf"), []byte("old"))
	newFont := writeFile(t, filepath.Join(dir, "new.ttf"), []byte("new"))
	require.NoError(t, repo.Save(ctx, Settings{Font: &Font{Name: "old", Path: oldFont}}))

	// Break the second statement of the transaction.
	_, err := st.DB().Exec("DROP TABLE color_settings")
	require.NoError(t, err)

	err = repo.Save(ctx, Settings{Font: &Font{Name: "new", Path: newFont}})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotInitialized)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "save", serr.Op)

	var stored string
	require.NoError(t, st.DB().QueryRow("SELECT font_path FROM settings WHERE _id = 1").Scan(&stored))
	assert.Equal(t, oldFont, stored)
}

func TestSave_IsSingleton(t *testing.T) {
	st := setupTestStore(t)
	repo := NewRepository(st, stubFonts{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, Default()))
	}

	var n int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM settings").Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM color_settings").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestGet_StoreFailureIsError(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "closed.db"), store.DefaultOptions())
	require.NoError(t, err)
	repo := NewRepository(st, nil)
	require.NoError(t, st.Close())

	_, err = repo.Get(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsInfra(err))
}

func TestSFNTParser(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF)

	font, err := SFNTParser{}.ParseFont(path)
	require.NoError(t, err)
	assert.Contains(t, font.Name, "Go")
	assert.Equal(t, path, font.Path)

	bad := writeFile(t, filepath.Join(dir, "bad.ttf"), []byte("nope"))
	_, err = SFNTParser{}.ParseFont(bad)
	assert.ErrorIs(t, err, ErrParse)

	_, err = SFNTParser{}.ParseFont(filepath.Join(dir, "missing.ttf"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrParse))
}
