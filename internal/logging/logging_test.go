package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("test", "info", "json", &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Int("rows", 12).Msg("next rows")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["app"])
	assert.Equal(t, "next rows", entry["message"])
	assert.Equal(t, float64(12), entry["rows"])
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("test", "debug", "console", &buf)
	require.NoError(t, err)

	logger.Debug().Str("selector", "purpose=1/all").Msg("next rows")
	assert.Contains(t, buf.String(), "next rows")
	assert.Contains(t, buf.String(), "purpose=1/all")
}

func TestRejects(t *testing.T) {
	var buf bytes.Buffer
	_, err := New("test", "loud", "json", &buf)
	assert.Error(t, err)
	_, err = New("test", "info", "xml", &buf)
	assert.Error(t, err)
}
