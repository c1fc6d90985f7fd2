package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Endpoint string `json:"endpoint"`
	Port     int    `json:"port"`
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "config.json5"),
		[]byte(`{endpoint: "https://example.com", port: 8000}`),
		0600,
	)
	require.NoError(t, err)
	err = os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{port: 9000}`),
		0600,
	)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.Endpoint)
	require.Equal(t, 9000, cfg.Port)
}

func TestReadConfigMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{endpoint: "http://localhost"}`),
		0600,
	)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost", cfg.Endpoint)
}
