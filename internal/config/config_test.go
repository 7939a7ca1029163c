package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/catlaunch/internal/variant"
)

func TestLoad_Defaults(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("CATLAUNCH_DATA_DIR", "")
	t.Setenv("CATLAUNCH_DB", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataHome, "catlaunch"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dataHome, "catlaunch", "catlaunch.db"), cfg.DBPath)
	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.BusyTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CATLAUNCH_DATA_DIR", "/srv/cat")
	t.Setenv("CATLAUNCH_DB", "/tmp/cat.db")
	t.Setenv("CATLAUNCH_DB_MAX_CONNS", "2")
	t.Setenv("CATLAUNCH_DB_WORKERS", "1")
	t.Setenv("CATLAUNCH_DB_BUSY_TIMEOUT", "250ms")
	t.Setenv("CATLAUNCH_LOG_FORMAT", "json")
	t.Setenv("CATLAUNCH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/cat", cfg.DataDir)
	assert.Equal(t, "/tmp/cat.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.MaxOpenConns)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.BusyTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"CATLAUNCH_DB_WORKERS":   "0",
		"CATLAUNCH_DB_MAX_CONNS": "-3",
		"CATLAUNCH_LOG_FORMAT":   "xml",
		"CATLAUNCH_LOG_LEVEL":    "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("CATLAUNCH_DATA_DIR", t.TempDir())
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}

	t.Run("unparseable", func(t *testing.T) {
		t.Setenv("CATLAUNCH_DATA_DIR", t.TempDir())
		t.Setenv("CATLAUNCH_DB_WORKERS", "many")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDir_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cfg", "catlaunch"), dir)
}

func TestLoadAliases_FileNotFound(t *testing.T) {
	cfg, err := LoadAliases(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Aliases)
}

func TestLoadAliases_ParsesAndSkips(t *testing.T) {
	dir := t.TempDir()
	content := `# variant shortcuts
cdda = DarkDaysAhead
Nights=bn

=DarkDaysAhead
broken line
old=Cataclysm
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aliases"), []byte(content), 0644))

	cfg, err := LoadAliases(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]variant.Variant{
		"cdda":   variant.DarkDaysAhead,
		"nights": variant.BrightNights,
	}, cfg.Aliases)
}

func TestAliasConfig_Resolve(t *testing.T) {
	cfg := &AliasConfig{Aliases: map[string]variant.Variant{"stable": variant.DarkDaysAhead}}

	v, err := cfg.Resolve("Stable")
	require.NoError(t, err)
	assert.Equal(t, variant.DarkDaysAhead, v)

	v, err = cfg.Resolve("tlg")
	require.NoError(t, err)
	assert.Equal(t, variant.TheLastGeneration, v)

	_, err = cfg.Resolve("nope")
	assert.Error(t, err)

	var nilCfg *AliasConfig
	v, err = nilCfg.Resolve("BrightNights")
	require.NoError(t, err)
	assert.Equal(t, variant.BrightNights, v)
}
