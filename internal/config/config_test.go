package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dataset.DefaultSourceURL, c.SourceURL)
	assert.Equal(t, 30, c.HTTPTimeoutSec)
	assert.Equal(t, 1, c.RetryMaxAttempts)
	assert.Equal(t, ":8501", c.ListenAddr)
	assert.Equal(t, 8, c.DefaultBins)
	assert.Equal(t, 960, c.ChartWidth)
	assert.Equal(t, 540, c.ChartHeight)
	assert.Equal(t, 10.0, c.ChartRateLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("default_bins: 12\nlisten_addr: \":9000\"\n"), 0o644))
	t.Setenv("AUTOMPG_LISTEN_ADDR", ":7000")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 12, c.DefaultBins)
	assert.Equal(t, ":7000", c.ListenAddr)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("default_bins: 1\n"), 0o644))
	_, err := Load(p)
	assert.ErrorContains(t, err, "default_bins")
}

func TestSaveAndReload(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("retry_max_attempts", "3"))
	require.NoError(t, c.Set("log_format", "JSON"))
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".autompg", "config.yaml"))
	require.NoError(t, err)

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, again.RetryMaxAttempts)
	assert.Equal(t, "json", again.LogFormat)
}

func TestSet_Rejects(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.ErrorContains(t, c.Set("nope", "1"), "unknown key")
	assert.ErrorContains(t, c.Set("chart_width", "wide"), "invalid int")
	assert.Error(t, c.Set("log_level", "chatty"))
	assert.Error(t, c.Set("retry_max_attempts", "0"))
}

func TestKeysCoverStruct(t *testing.T) {
	c := &Global{}
	for _, k := range Keys() {
		err := c.Set(k, "1")
		if err != nil {
			assert.NotContains(t, err.Error(), "unknown key", k)
		}
	}
}

func TestLoaderOptions(t *testing.T) {
	c := &Global{SourceURL: "x", HTTPTimeoutSec: 5, RetryMaxAttempts: 2, RetryBaseDelayMs: 10, RetryMaxDelayMs: 20}
	o := c.LoaderOptions()
	assert.Equal(t, "x", o.Source)
	assert.Equal(t, 5*time.Second, o.HTTPTimeout)
	assert.Equal(t, 2, o.RetryMaxAttempts)
	assert.Equal(t, 10*time.Millisecond, o.RetryBaseDelay)
	assert.Equal(t, 20*time.Millisecond, o.RetryMaxDelay)
}

func TestDefaultsIgnoreEnv(t *testing.T) {
	t.Setenv("AUTOMPG_DEFAULT_BINS", "20")
	c := Defaults()
	assert.Equal(t, 8, c.DefaultBins)
	assert.NoError(t, c.Validate())
}
