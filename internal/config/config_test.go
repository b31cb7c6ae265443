package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-stealth/internal/address"
	"github.com/smallyu/go-stealth/internal/logging"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, address.ChainSHA3, cfg.Chain)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("STEALTH_CHAIN", "sui")
	t.Setenv("STEALTH_WORKERS", "3")
	t.Setenv("STEALTH_LOG_LEVEL", "debug")
	t.Setenv("STEALTH_LOG_FORMAT", "json")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "sui", cfg.Chain)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stealth.yaml")
	data := []byte("chain: ethereum\nworkers: 2\nlog:\n  format: json\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", cfg.Chain)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	reg := address.Default()

	cfg := &Config{Chain: "dogecoin", Workers: 1, Log: logging.Config{Format: "json"}}
	assert.ErrorIs(t, cfg.Validate(reg), stealth.ErrUnsupportedChain)

	cfg = &Config{Chain: "sha3", Workers: 0, Log: logging.Config{Format: "json"}}
	assert.Error(t, cfg.Validate(reg))

	cfg = &Config{Chain: "sha3", Workers: 1, Log: logging.Config{Format: "xml"}}
	assert.Error(t, cfg.Validate(reg))

	cfg = &Config{Chain: "sui", Workers: 8, Log: logging.Config{Format: "console"}}
	assert.NoError(t, cfg.Validate(reg))
}
