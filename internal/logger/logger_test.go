package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", &buf)

	Info().Str("path", "/auth/login").Msg("request")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "/auth/login", line["path"])
	assert.Equal(t, "request", line["message"])
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init("chatty", &buf)

	Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestOpenFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "issuepilot.log")

	c, err := OpenFile("info", path)
	require.NoError(t, err)
	defer c.Close()

	Info().Msg("hello")
	assert.FileExists(t, path)
}

func TestConsoleWritesReadableLines(t *testing.T) {
	var buf bytes.Buffer
	Console("warn", &buf)

	Info().Msg("hidden")
	Warn().Str("repo", "42").Msg("export failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "export failed")
	assert.Contains(t, out, "repo=42")
	assert.False(t, json.Valid(buf.Bytes()))
}
