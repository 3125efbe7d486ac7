package command

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"chatwire/internal/protocol"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderJSON(t *testing.T) {
	data, err := Render("json", "all")
	require.NoError(t, err)

	var doc protocol.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Client, len(protocol.ClientTags()))
	assert.Len(t, doc.Server, len(protocol.ServerTags())+1)
}

func TestRenderYAMLDirection(t *testing.T) {
	data, err := Render("yaml", "server")
	require.NoError(t, err)

	var variants []protocol.VariantSchema
	require.NoError(t, yaml.Unmarshal(data, &variants))
	require.NotEmpty(t, variants)
	assert.Equal(t, protocol.TypeNewMessage, variants[0].Tag)
	assert.Contains(t, string(data), "format: uuid")
}

func TestRenderRejectsUnknownOptions(t *testing.T) {
	_, err := Render("xml", "all")
	assert.ErrorContains(t, err, "unknown format")

	_, err = Render("json", "sideways")
	assert.ErrorContains(t, err, "unknown direction")
}

func TestRootCommandWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "protocol.json")
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"--format", "json", "--direction", "client", "--out", out})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		format, direction, outPath = "yaml", "all", ""
	})

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var variants []protocol.VariantSchema
	require.NoError(t, json.Unmarshal(data, &variants))
	assert.Len(t, variants, len(protocol.ClientTags()))
	assert.Contains(t, stderr.String(), "schema written to")
}
