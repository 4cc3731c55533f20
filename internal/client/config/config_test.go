package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Empty(t, c.AccessToken)
	assert.Equal(t, 10*time.Second, c.Timeout)
}

func TestDefaultPath_UnderHome(t *testing.T) {
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, filepath.Join(".timeline", "config.json"), filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p)))
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := &Config{ServerEndpointAddr: "journal.example:443", AccessToken: "tok", Timeout: 3 * time.Second}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
