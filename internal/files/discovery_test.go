package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamezone/internal/config"
)

func discoveryFixture(t *testing.T) (*Discovery, *config.Paths) {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		RawDir:        filepath.Join(base, "data", "raw"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
	require.NoError(t, paths.EnsureDirectories())
	return NewDiscovery(paths), paths
}

func TestDiscovery_RawInputs(t *testing.T) {
	d, paths := discoveryFixture(t)

	require.NoError(t, os.WriteFile(paths.RawPath("orders_raw.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(paths.RawPath("orders.xlsx"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(paths.RawPath("notes.txt"), []byte("x"), 0o644))

	files, err := d.RawInputs()
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.NotEqual(t, "notes.txt", f.Name)
	}
}

func TestDiscovery_Reports(t *testing.T) {
	d, paths := discoveryFixture(t)

	require.NoError(t, os.WriteFile(paths.ReportPath("rfm_features.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(paths.ReportPath("daily_sales.csv"), []byte("x"), 0o644))

	files, err := d.Reports()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "daily_sales.csv", files[0].Name)
	assert.Equal(t, "rfm_features.csv", files[1].Name)
}

func TestDiscovery_MissingDirIsEmpty(t *testing.T) {
	base := t.TempDir()
	d := NewDiscovery(&config.Paths{RawDir: filepath.Join(base, "nope")})

	files, err := d.RawInputs()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLatest(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "a", ModTime: now.Add(-time.Hour)},
		{Name: "b", ModTime: now},
		{Name: "c", ModTime: now.Add(-time.Minute)},
	}
	latest, ok := Latest(files)
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)

	_, ok = Latest(nil)
	assert.False(t, ok)
}
