package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(Output(Config{JSON: true}, &buf)).With().Str("component", "gateway").Logger()

	l := FromZerolog(base).WithField("session", "abc").WithError(errors.New("boom"))
	l.Warnf("rejected %d frames", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "gateway", entry["component"])
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "rejected 3 frames", entry["message"])
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l := FromZerolog(zerolog.New(Output(Config{}, &buf)).With().Str("component", "config").Logger())
	l.Infof("loaded")

	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "config")
	assert.Contains(t, buf.String(), "loaded")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.JSON = true
	cfg.FilePath = path

	l := FromZerolog(zerolog.New(Output(cfg, &buf)))
	l.Errorf("disk %s", "full")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk full")
	assert.Contains(t, buf.String(), "disk full")
}
