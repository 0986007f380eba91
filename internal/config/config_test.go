package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GZ_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultChurnThresholdDays, cfg.Pipeline.ChurnThresholdDays)
	assert.Equal(t, DefaultTopProducts, cfg.Pipeline.TopProducts)
	assert.Equal(t, DefaultTopCustomers, cfg.Pipeline.TopCustomers)
	assert.ElementsMatch(t, DefaultTextColumns(), cfg.Pipeline.TextColumns)
	assert.Len(t, cfg.Pipeline.NullTokens, 9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GZ_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("GZ_PIPELINE_CHURN_THRESHOLD_DAYS", "60")
	t.Setenv("GZ_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Pipeline.ChurnThresholdDays)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
pipeline:
  churn_threshold_days: 120
  top_products: 3
  top_customers: 7
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("GZ_CONFIG_FILE", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Pipeline.ChurnThresholdDays)
	assert.Equal(t, 3, cfg.Pipeline.TopProducts)
	assert.Equal(t, 7, cfg.Pipeline.TopCustomers)
}

func TestLoad_EnvBeatsYAMLBeatsDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9001
pipeline:
  churn_threshold_days: 120
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("GZ_CONFIG_FILE", configPath)
	t.Setenv("GZ_PIPELINE_CHURN_THRESHOLD_DAYS", "45")

	cfg, err := Load()
	require.NoError(t, err)

	// Env wins over the file, the file wins over defaults, and untouched
	// fields keep their defaults.
	assert.Equal(t, 45, cfg.Pipeline.ChurnThresholdDays)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, DefaultTopProducts, cfg.Pipeline.TopProducts)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isErr string
	}{
		{
			name:  "negative churn threshold",
			env:   map[string]string{"GZ_PIPELINE_CHURN_THRESHOLD_DAYS": "-1"},
			isErr: "churn threshold",
		},
		{
			name:  "zero top products",
			env:   map[string]string{"GZ_PIPELINE_TOP_PRODUCTS": "-5"},
			isErr: "top products",
		},
		{
			name:  "bad log level",
			env:   map[string]string{"GZ_LOGGING_LEVEL": "verbose"},
			isErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GZ_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.isErr)
		})
	}
}

func TestNullTokenSet(t *testing.T) {
	t.Setenv("GZ_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	set := cfg.NullTokenSet()
	for token := range DefaultNullTokens() {
		_, ok := set[token]
		assert.True(t, ok, "token %q missing from set", token)
	}
}

func TestPaths(t *testing.T) {
	p := PathsFromConfig(PathsConfig{
		DataDir:    "data",
		RawDir:     "data/raw",
		ReportsDir: "data/reports",
		LogsDir:    "logs",
	})

	assert.Equal(t, filepath.Join("data", "raw", RawOrdersCSV), p.RawOrdersPath())
	assert.Equal(t, filepath.Join("data", "reports", CleanOrdersCSV), p.CleanOrdersPath())
	assert.Equal(t, filepath.Join("data", "reports", "rfm.csv"), p.ReportPath("rfm.csv"))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	p := PathsFromConfig(PathsConfig{
		DataDir:    filepath.Join(dir, "data"),
		RawDir:     filepath.Join(dir, "data", "raw"),
		ReportsDir: filepath.Join(dir, "data", "reports"),
		LogsDir:    filepath.Join(dir, "logs"),
	})

	require.NoError(t, p.EnsureDirectories())
	assert.True(t, FileExists(p.RawDir))
	assert.True(t, FileExists(p.ReportsDir))
}
