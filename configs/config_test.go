package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, "auto", cfg.APIEnvelope)
	assert.Equal(t, "ko", cfg.Locale)
	assert.Equal(t, 8, cfg.MaxCommentDepth)
	assert.Equal(t, cfg.S3Endpoint, cfg.S3PublicURL)
	assert.False(t, cfg.TrustedProxy)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com/v1")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("REDIS_HOST", "redis-session")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("TRUSTED_PROXY", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, "redis-session:6379", cfg.RedisAddr())
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.True(t, cfg.S3UseSSL)
	assert.True(t, cfg.TrustedProxy)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"relative api url": {"API_URL", "/api"},
		"envelope mode":    {"API_ENVELOPE", "sometimes"},
		"session store":    {"SESSION_STORE", "cookie"},
		"image sink":       {"IMAGE_SINK", "ftp"},
		"locale":           {"UI_LOCALE", "fr"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestStringHidesSecrets(t *testing.T) {
	t.Setenv("S3_SECRET_KEY", "very-secret")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "very-secret")
	assert.NotContains(t, s, "hunter2")
}
