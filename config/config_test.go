package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.False(t, cfg.Backend)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.NotEmpty(t, cfg.DatabaseFile)
}

func TestLoadConfigBackendAddr(t *testing.T) {
	cfg, err := LoadConfig([]string{"--backend"})
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Addr)
}

func TestLoadConfigEnvIsOverriddenByFlag(t *testing.T) {
	t.Setenv("HOOP_API_URL", "http://stats.internal:9000")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://stats.internal:9000", cfg.APIURL)

	cfg, err = LoadConfig([]string{"--api-url", "http://other:1"})
	require.NoError(t, err)
	assert.Equal(t, "http://other:1", cfg.APIURL)
}

func TestLoadConfigProdDatabase(t *testing.T) {
	cfg, err := LoadConfig([]string{"-p"})
	require.NoError(t, err)
	assert.Equal(t, "/sqlitedata/database.db", cfg.DatabaseFile)
}

func TestLoadConfigRejectsUnknownFlag(t *testing.T) {
	_, err := LoadConfig([]string{"--nope"})
	assert.Error(t, err)
}
