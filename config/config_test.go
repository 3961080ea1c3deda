package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Parse([]byte("gemini_model: \"\"\n"))
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.YouTube.MaxComments)
	assert.Equal(t, 100, cfg.YouTube.PageSize)
	assert.Equal(t, 2, cfg.Credits.SignupGrant)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, 1500*time.Millisecond, cfg.Analysis.NavigationDelay())
	assert.Equal(t, 5*time.Minute, cfg.Analysis.RunLockTTL())
}

func TestParse_PageSizeCappedAtAPIMaximum(t *testing.T) {
	cfg, err := Parse([]byte("youtube:\n  page_size: 500\n  max_comments: 50\n"))
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.YouTube.PageSize)
	assert.Equal(t, 50, cfg.YouTube.MaxComments)
}

func TestParse_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse([]byte("mongo:\n  uri: mongodb://ignored\nlogging:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "yt-key", cfg.YouTubeAPIKey)
	assert.Equal(t, "gm-key", cfg.GeminiAPIKey)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestArgsToFields(t *testing.T) {
	m := argsToFields([]any{"video_id", "abc", "count", 3, "dangling"})

	assert.Equal(t, "abc", m["video_id"])
	assert.Equal(t, 3, m["count"])
	assert.Equal(t, "dangling", m["!BADKEY"])
}
