// Package home manages the bookwash home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the bookwash home directory.
	DefaultDirName = ".bookwash"

	// LedgersDirName is the subdirectory holding .bookwash ledger files.
	LedgersDirName = "ledgers"

	// ExportsDirName is the subdirectory for regenerated ePub output.
	ExportsDirName = "exports"

	// StagingDirName is the subdirectory for in-progress archive writes.
	// Output is assembled here and published with an atomic rename.
	StagingDirName = "staging"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the bookwash home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.bookwash).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// LedgersPath returns the directory holding ledger files.
func (d *Dir) LedgersPath() string {
	return filepath.Join(d.path, LedgersDirName)
}

// LedgerPath returns the ledger file path for a book name.
func (d *Dir) LedgerPath(name string) string {
	return filepath.Join(d.LedgersPath(), name+".bookwash")
}

// ExportsPath returns the directory for regenerated ePub files.
func (d *Dir) ExportsPath() string {
	return filepath.Join(d.path, ExportsDirName)
}

// StagingPath returns the directory for in-progress archive writes.
func (d *Dir) StagingPath() string {
	return filepath.Join(d.path, StagingDirName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, p := range []string{d.LedgersPath(), d.ExportsPath(), d.StagingPath()} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", p, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
