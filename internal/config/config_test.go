package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devraj-k/bytekv/internal/bytekverr"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadNoPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bytekvd.toml")
	contents := "port = 7001\ncapacity_mb = 256\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Port)
	assert.Equal(t, 256, cfg.CapacityMB)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset fields retain their defaults.
	assert.Equal(t, DefaultConfig().Host, cfg.Host)
	assert.Equal(t, DefaultConfig().Backlog, cfg.Backlog)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, bytekverr.IsCode(err, bytekverr.CodeConfigLoadFailed))
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapacityMB = 0
	assert.True(t, bytekverr.IsCode(cfg.Validate(), bytekverr.CodeInvalidConfig))

	cfg = DefaultConfig()
	cfg.Port = 70000
	assert.True(t, bytekverr.IsCode(cfg.Validate(), bytekverr.CodeInvalidConfig))

	cfg = DefaultConfig()
	cfg.Backlog = 0
	assert.True(t, bytekverr.IsCode(cfg.Validate(), bytekverr.CodeInvalidConfig))
}

func TestCapacityBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapacityMB = 2
	assert.Equal(t, int64(2*1024*1024), cfg.CapacityBytes())
}
