package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	tempHome(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "olympeda-out", c.OutputDir)
	assert.Equal(t, "png", c.ChartFormat)
	assert.Equal(t, "India", c.FocusTeam)
	assert.Equal(t, 10, c.TopN)
	assert.Equal(t, 5, c.AthletesTopN)
	assert.Equal(t, []float64{2, 12, 30, 54}, c.RejectedHeights)
	assert.Equal(t, "No Medal", c.MedalSentinel)
	assert.InDelta(t, 12.0, c.ChartWidthIn, 1e-9)
	assert.False(t, c.ExportXLSX)
}

func TestEnvOverridesFile(t *testing.T) {
	home := tempHome(t)
	dir := filepath.Join(home, ".olympeda")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("focus_team: Kenya\ntop_n: 7\nchart_format: svg\n"), 0o644))
	t.Setenv("OLYMPEDA_FOCUS_TEAM", "Norway")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Norway", c.FocusTeam)
	assert.Equal(t, 7, c.TopN)
	assert.Equal(t, "svg", c.ChartFormat)
}

func TestEnvNumbers(t *testing.T) {
	tempHome(t)
	t.Setenv("OLYMPEDA_TOP_N", "3")
	t.Setenv("OLYMPEDA_EXPORT_JSON", "true")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, c.TopN)
	assert.True(t, c.ExportJSON)
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	tempHome(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	tempHome(t)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("focus_team", "Japan"))
	require.NoError(t, c.Set("rejected_heights", "54, 2,30"))
	require.NoError(t, c.Set("export_xlsx", "true"))
	require.NoError(t, Save(c, ""))

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Japan", again.FocusTeam)
	assert.Equal(t, []float64{2, 30, 54}, again.RejectedHeights)
	assert.True(t, again.ExportXLSX)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, Save(again, path))
	custom, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Japan", custom.FocusTeam)
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{}
	assert.Error(t, c.Set("top_n", "-1"))
	assert.Error(t, c.Set("top_n", "ten"))
	assert.Error(t, c.Set("chart_format", "gif"))
	assert.Error(t, c.Set("chart_width_in", "0"))
	assert.Error(t, c.Set("rejected_heights", "2,x"))
	assert.Error(t, c.Set("medal_sentinel", " "))
	assert.Error(t, c.Set("export_json", "maybe"))
	assert.Error(t, c.Set("api_key", "x"))
}

func TestGetRoundTripsEveryKey(t *testing.T) {
	tempHome(t)
	c, err := Load("")
	require.NoError(t, err)
	for _, k := range Keys {
		v, err := c.Get(k)
		require.NoError(t, err, k)
		require.NoError(t, c.Set(k, v), k)
	}
	_, err = c.Get("nope")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OLYMPEDA_DOTENV_PROBE=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("OLYMPEDA_DOTENV_PROBE") })
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("OLYMPEDA_DOTENV_PROBE"))
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	home := tempHome(t)
	t.Setenv("OLYMPEDA_FOCUS_TEAM", "Norway")

	c, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "India", c.FocusTeam, "defaults without a file")

	path := filepath.Join(home, "custom.yaml")
	c, err = LoadFile(path)
	require.NoError(t, err, "a missing explicit file yields defaults")
	assert.Equal(t, "India", c.FocusTeam)

	require.NoError(t, os.WriteFile(path, []byte("focus_team: Kenya\n"), 0o644))
	c, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Kenya", c.FocusTeam)

	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Norway", c.FocusTeam)
}
