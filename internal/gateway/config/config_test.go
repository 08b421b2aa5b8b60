package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "APP_ENV", "PUBLIC_URL", "GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL",
	"SUGGEST_TIMEOUT", "LLM_RPS", "LLM_BURST", "LLM_RETRIES", "HUB_URL",
	"FRAME_VERIFY", "FRAME_STATE_SECRET", "HTTP_RPS", "HTTP_BURST",
	"SUGGESTION_CACHE_TTL", "SUGGESTION_CACHE_MAX_BYTES", "SUGGESTION_STORE_PG_DSN",
	"NOTHING_LIKED_IMAGE", "UNAVAILABLE_IMAGE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Port)
	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "http://localhost:3000", cfg.PublicURL)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 10*time.Second, cfg.Gemini.Timeout)
	assert.True(t, cfg.Frame.Verify)
	assert.Equal(t, localHubURL, cfg.Frame.HubURL)
	assert.Equal(t, localDebuggerURL, cfg.Frame.DebuggerURL)
	assert.Equal(t, 6*time.Hour, cfg.Suggestion.CacheTTL)
	assert.Equal(t, 256<<10, cfg.Suggestion.CacheMaxBytes)
}

func TestLoadEnvAndOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("SUGGEST_TIMEOUT", "3s")
	t.Setenv("FRAME_VERIFY", "off")
	t.Setenv("HUB_URL", "https://hub.example.com")

	cfg, err := Load(Overrides{Port: ":9090", PublicURL: "https://frames.example.com/"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "https://frames.example.com", cfg.PublicURL)
	assert.Equal(t, "legacy-key", cfg.Gemini.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Gemini.Timeout)
	assert.False(t, cfg.Frame.Verify)
	assert.Empty(t, cfg.Frame.DebuggerURL)
}

func TestLoadGeminiKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "new")
	t.Setenv("API_KEY", "old")
	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.Gemini.APIKey)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUGGEST_TIMEOUT", "soon")
	t.Setenv("HTTP_BURST", "-1")
	_, err := Load(Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUGGEST_TIMEOUT")
	assert.Contains(t, err.Error(), "HTTP_BURST")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")

	cfg.Gemini.Model = fakeModel
	assert.NoError(t, cfg.Validate())

	cfg.Env = "production"
	cfg.Frame.Verify = false
	assert.ErrorContains(t, cfg.Validate(), "FRAME_VERIFY=off")

	cfg.Frame.Verify = true
	cfg.Frame.HubURL = ""
	assert.ErrorContains(t, cfg.Validate(), "HUB_URL")
}
