package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "annotator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 256, cfg.HistoryCapacity)
	assert.Equal(t, 0.9, cfg.IntegrationLevel)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
seed: 42
history_capacity: 16
integration_level: 0.75
db_path: /tmp/annotator.db
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 16, cfg.HistoryCapacity)
	assert.Equal(t, 0.75, cfg.IntegrationLevel)
	assert.Equal(t, "/tmp/annotator.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Log.MaxBackups, "unset nested keys keep defaults")

	oc := cfg.Orchestrator()
	assert.Equal(t, uint64(42), oc.Seed)
	assert.Equal(t, 16, oc.HistoryCapacity)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "db_path: from-file.db\n")
	t.Setenv("ANNOTATOR_DB_PATH", "from-env.db")
	t.Setenv("ANNOTATOR_LOG_LEVEL", "warn")
	t.Setenv("ANNOTATOR_SEED", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, uint64(7), cfg.Seed)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "integration_level: 1.5\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrInvalidIntegrationLevel)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Config{
		HistoryCapacity:  -1,
		IntegrationLevel: -0.1,
		ListenAddr:       "",
	}
	cfg.Log.Format = "xml"
	cfg.Log.MaxAgeDays = -3

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"history_capacity", "integration_level", "listen_addr", "log.format", "log.max_age_days"} {
		assert.Contains(t, msg, want)
	}
}
