package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danfirsten/Standup/internal/data/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, db.DriverPostgres, cfg.DB.Driver)
	require.Equal(t, "memory-events", cfg.RedisChannel)
	require.Equal(t, "standup-memory", cfg.Temporal.TaskQueue)
	require.False(t, cfg.Temporal.Enabled())
	require.Equal(t, 5*time.Minute, cfg.AuditInterval)
	require.True(t, cfg.MetricsEnabled)
	require.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"9000\"\nDB_DRIVER: sqlite\nAUDIT_INTERVAL_SECONDS: 60\n"), 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("TEMPORAL_ADDRESS", "localhost:7233")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, ,http://localhost:3000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "9100", cfg.Port)
	require.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	require.Equal(t, time.Minute, cfg.AuditInterval)
	require.True(t, cfg.Temporal.Enabled())
	require.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
