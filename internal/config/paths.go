package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations; every component
// resolves interchange files through it instead of joining paths ad hoc.
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	ReportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location.
// Paths are always relative to the executable directory, never the current
// working directory, so the tools behave the same wherever they are invoked.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)
	dataDir := filepath.Join(exeDir, DefaultDataDir)

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		RawDir:        filepath.Join(dataDir, "raw"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(exeDir, DefaultLogsDir),
	}, nil
}

// PathsFromConfig builds Paths from an explicit configuration, used when the
// caller overrides the executable-relative layout.
func PathsFromConfig(cfg PathsConfig) *Paths {
	return &Paths{
		DataDir:    cfg.DataDir,
		RawDir:     cfg.RawDir,
		ReportsDir: cfg.ReportsDir,
		LogsDir:    cfg.LogsDir,
	}
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.RawDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RawOrdersPath returns the raw orders interchange file path.
func (p *Paths) RawOrdersPath() string {
	return filepath.Join(p.RawDir, RawOrdersCSV)
}

// CleanOrdersPath returns the clean orders interchange file path.
func (p *Paths) CleanOrdersPath() string {
	return filepath.Join(p.ReportsDir, CleanOrdersCSV)
}

// ReportPath returns the path of a named report file.
func (p *Paths) ReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// RawPath returns the path of a file in the raw data directory.
func (p *Paths) RawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
