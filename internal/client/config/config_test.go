package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9999/auth/v1", cfg.AuthBaseURL)
	require.Equal(t, "nannuru.db", cfg.LocalDBPath)
	require.Equal(t, "article-images", cfg.S3Bucket)
	require.False(t, cfg.AutoMigrate)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NANNURU_AUTH_URL", "https://auth.example.com/auth/v1")
	t.Setenv("NANNURU_LOCAL_DB", "/tmp/alt.db")
	t.Setenv("NANNURU_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://auth.example.com/auth/v1", cfg.AuthBaseURL)
	require.Equal(t, "/tmp/alt.db", cfg.LocalDBPath)
	require.True(t, cfg.AutoMigrate)
}

func TestLoad_RejectsBadBool(t *testing.T) {
	t.Setenv("NANNURU_AUTO_MIGRATE", "definitely")

	_, err := Load()
	require.Error(t, err)
}
