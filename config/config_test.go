package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 9000
  timeout: 5s
model:
  kind: decision_tree
  path: artifacts/tree.json
locale:
  default: en
log:
  level: debug
  file: logs/dashboard.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Http.Port)
	assert.Equal(t, 5*time.Second, cfg.Http.Timeout)
	assert.Equal(t, []string{"*"}, cfg.Http.AllowedOrigins)
	assert.Equal(t, "decision_tree", cfg.Model.Kind)
	assert.Equal(t, "artifacts/tree.json", cfg.Model.Path)
	assert.Equal(t, "models/scaler.json", cfg.Model.ScalerPath)
	assert.Equal(t, "data/data.csv", cfg.Dataset.Path)
	assert.Equal(t, "en", cfg.Locale.Default)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Log.MaxSizeMB)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
http:
  port: -1
dataset:
  path: ""
locale:
  default: fr
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.port")
	assert.Contains(t, err.Error(), "dataset.path")
	assert.Contains(t, err.Error(), "locale.default")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
