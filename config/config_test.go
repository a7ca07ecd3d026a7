package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func validEnv() map[string]string {
	return map[string]string{
		EnvBlogID:       "123",
		EnvClientID:     "client",
		EnvClientSecret: "secret",
		EnvRefreshToken: "refresh",
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(envMap(validEnv()))
	require.NoError(t, err)

	assert.Equal(t, "123", cfg.Blog.BlogID)
	assert.True(t, cfg.Blog.PublishImmediately)
	assert.False(t, cfg.IsDraft())
	assert.Equal(t, DefaultSimilarityThreshold, cfg.Freshness.SimilarityThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.Freshness.Cooldown)
	assert.Equal(t, 30*24*time.Hour, cfg.Freshness.Lookback)
	assert.Equal(t, GeneratorTemplate, cfg.Generation.Kind)
	assert.Equal(t, "Asia/Kolkata", cfg.Blog.Location.String())
	assert.Equal(t, DefaultLockTTL, cfg.Lock.TTL)
	assert.Empty(t, cfg.Archive.Bucket)
}

func TestLoadFromMissingRequired(t *testing.T) {
	env := validEnv()
	delete(env, EnvClientSecret)
	env[EnvRefreshToken] = "   "

	_, err := LoadFrom(envMap(env))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{EnvClientSecret, EnvRefreshToken}, verr.Fields())
	assert.Contains(t, err.Error(), "CLIENT_SECRET")
	assert.Contains(t, err.Error(), "REFRESH_TOKEN")
}

func TestLoadFromOverrides(t *testing.T) {
	env := validEnv()
	env[EnvPublishImmediately] = "FALSE"
	env[EnvSimilarity] = "0.65"
	env[EnvCooldownDays] = "3"
	env[EnvLookbackDays] = "14"
	env[EnvS3Prefix] = "/blog/archive/"
	env[EnvTimezone] = "UTC"

	cfg, err := LoadFrom(envMap(env))
	require.NoError(t, err)

	assert.True(t, cfg.IsDraft())
	assert.Equal(t, 0.65, cfg.Freshness.SimilarityThreshold)
	assert.Equal(t, 3*24*time.Hour, cfg.Freshness.Cooldown)
	assert.Equal(t, 14*24*time.Hour, cfg.Freshness.Lookback)
	assert.Equal(t, "blog/archive/", cfg.Archive.Prefix)
	assert.Equal(t, time.UTC, cfg.Blog.Location)
}

func TestLoadFromMalformedValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"threshold not a number", EnvSimilarity, "high"},
		{"threshold out of range", EnvSimilarity, "1.5"},
		{"negative cooldown", EnvCooldownDays, "-1"},
		{"zero lookback", EnvLookbackDays, "0"},
		{"unknown timezone", EnvTimezone, "Mars/Olympus"},
		{"unknown generator", EnvGenerator, "gpt"},
		{"cohere without key", EnvGenerator, "cohere"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := validEnv()
			env[c.key] = c.value

			_, err := LoadFrom(envMap(env))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("LoadFrom with %s=%q: err = %v; want ErrInvalid", c.key, c.value, err)
			}
		})
	}
}
