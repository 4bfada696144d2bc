package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facturx.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))
	t.Cleanup(func() { _ = Setup(DefaultConfig()) })

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	l := WithRequestID("generator", "req-1")
	l.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"generator"`)
	assert.Contains(t, string(data), `"request_id":"req-1"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestSetupInvalidLevel(t *testing.T) {
	assert.Error(t, Setup(LogConfig{Level: "loud", Format: "json", Output: "stderr"}))
}
