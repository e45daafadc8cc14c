package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gongxings/ai-creator/internal/config"
	"github.com/gongxings/ai-creator/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(config.EnvVars{AppName: "creator", Env: "prod", LogLevel: "debug"}, &buf)

	logger.Debug().Str("k", "v").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["message"])
	require.Equal(t, "creator", line["app"])
	require.Equal(t, "v", line["k"])
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(config.EnvVars{AppName: "creator", Env: "prod", LogLevel: "warn"}, &buf)

	logger.Info().Msg("dropped")
	require.Zero(t, buf.Len())

	logger.Warn().Msg("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(config.EnvVars{Env: "prod", LogLevel: "loud"}, &buf)

	logger.Debug().Msg("dropped")
	logger.Info().Msg("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "kept")
}
