package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 10*time.Second, cfg.CDP.Timeout)
		assert.Empty(t, cfg.CDP.URL)
		assert.Empty(t, cfg.UserAgent)
		assert.Empty(t, cfg.Browser.Path)
		assert.Equal(t, "rebel://newtab", cfg.Browser.StartURL)
	})
	t.Run("overrides", func(t *testing.T) {
		t.Setenv("REBEL_LOG_LEVEL", "debug")
		t.Setenv("REBEL_LOG_CATEGORY_FILTER", "^Theme")
		t.Setenv("REBEL_CDP_URL", "ws://127.0.0.1:9222/devtools/page/1")
		t.Setenv("REBEL_CDP_TIMEOUT", "3s")
		t.Setenv("REBEL_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
		t.Setenv("REBEL_BROWSER_PATH", "/opt/rebel/rebel")
		t.Setenv("REBEL_BROWSER_ARGS", "--headless,--disable-gpu")
		t.Setenv("REBEL_BROWSER_START_URL", "rebel://settings")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "^Theme", cfg.Log.CategoryFilter)
		assert.Equal(t, "ws://127.0.0.1:9222/devtools/page/1", cfg.CDP.URL)
		assert.Equal(t, 3*time.Second, cfg.CDP.Timeout)
		assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", cfg.UserAgent)
		assert.Equal(t, "/opt/rebel/rebel", cfg.Browser.Path)
		assert.Equal(t, []string{"--headless", "--disable-gpu"}, cfg.Browser.Args)
		assert.Equal(t, "rebel://settings", cfg.Browser.StartURL)
	})
	t.Run("invalid", func(t *testing.T) {
		t.Setenv("REBEL_CDP_TIMEOUT", "soon")

		_, err := Load()
		require.Error(t, err)
		assert.Equal(t, Default(), LoadOrDefault())
	})
}
