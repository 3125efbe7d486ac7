package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"HOST", "PORT", "APP_ENV", "LOG_LEVEL", "LOG_JSON", "LOG_FILE", "WS_READ_LIMIT", "WS_PONG_WAIT",
		"WS_WRITE_WAIT", "WS_SEND_BUFFER", "RATE_LIMIT_BURST", "RATE_LIMIT_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, int64(4096), cfg.ReadLimit)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod())
	assert.Equal(t, 256, cfg.SendBuffer)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.Equal(t, 500*time.Millisecond, cfg.RateInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("WS_READ_LIMIT", "1024")
	t.Setenv("WS_PONG_WAIT", "30s")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_INTERVAL", "100ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, int64(1024), cfg.ReadLimit)
	assert.Equal(t, 27*time.Second, cfg.PingPeriod())
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, 100*time.Millisecond, cfg.RateInterval)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WS_PONG_WAIT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WS_PONG_WAIT")
}

func TestValidateAggregates(t *testing.T) {
	cfg := &Config{
		Port:         "70000",
		LogLevel:     "loud",
		ReadLimit:    1,
		PongWait:     time.Second,
		WriteWait:    time.Second,
		SendBuffer:   1,
		RateBurst:    0,
		RateInterval: time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "RATE_LIMIT_BURST")
	assert.NotContains(t, err.Error(), "WS_READ_LIMIT")
}

func TestLoadIsQuietBeforeLoggerInit(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.TraceLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})

	_, err := Load()
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	_, err = Load()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PORT")
}
