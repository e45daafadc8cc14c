package config_test

import (
	"testing"
	"time"

	"github.com/gongxings/ai-creator/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "AI Creator", c.GetAppName())
	require.Equal(t, 60*time.Second, c.GetRequestTimeout())
	require.Equal(t, 200, c.GetSuccessCode())
	require.Equal(t, config.StorageFile, c.GetStorageBackend())
	require.Equal(t, "/login", c.GetLoginRoute())
	require.Equal(t, "/", c.GetLandingRoute())
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://creator.example.com/api/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("ENV", "prod")
	t.Setenv("SESSION_STORAGE", "redis")
	t.Setenv("FOLDER", "/var/lib/creator")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "https://creator.example.com/api", c.GetBaseURL())
	require.Equal(t, 5*time.Second, c.GetRequestTimeout())
	require.Equal(t, config.EnvProd, c.GetEnv())
	require.Equal(t, config.StorageRedis, c.GetStorageBackend())
	require.Equal(t, "/var/lib/creator/session.json", c.GetSessionFile())
	require.Equal(t, "/var/lib/creator/session.db", c.GetSQLitePath())
}

func TestNew_InvalidDuration(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")

	_, err := config.New()
	require.Error(t, err)
}
