// Package config handles the library location and global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// IndexFile is the persisted index, stored at the library root.
	IndexFile = "papers_index.json"
	// StateDir holds derived, rebuildable state inside the library.
	StateDir = ".citenet"
	CacheDir = "cache"
	DBFile   = "papers.db"

	// DefaultLibraryDir is used, relative to the working directory, when no
	// library is configured.
	DefaultLibraryDir = "papers"

	// LibraryEnvVar overrides the configured library path.
	LibraryEnvVar = "CITENET_LIBRARY"
)

// IndexPath returns the path to papers_index.json from a library root.
func IndexPath(root string) string {
	return filepath.Join(root, IndexFile)
}

// StatePath returns the path to the .citenet directory from a library root.
func StatePath(root string) string {
	return filepath.Join(root, StateDir)
}

// CachePath returns the path to the cache directory from a library root.
func CachePath(root string) string {
	return filepath.Join(root, StateDir, CacheDir)
}

// DBPath returns the path to papers.db from a library root.
func DBPath(root string) string {
	return filepath.Join(root, StateDir, CacheDir, DBFile)
}

// ErrLibraryNotExist is returned when a library path is not an existing directory.
var ErrLibraryNotExist = errors.New("library path does not exist")

// ValidateLibraryPath checks that path exists and is a directory.
func ValidateLibraryPath(path string) error {
	expanded := ExpandPath(path)
	info, err := os.Stat(expanded)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLibraryNotExist, expanded)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expanded)
	}
	return nil
}

// ResolveLibrary picks the library root: the explicit flag value, then
// CITENET_LIBRARY, then library_path from the global config if that directory
// exists, then ./papers. The default directory is created when missing.
// The result is absolute.
func ResolveLibrary(flagValue string) (string, error) {
	candidate := flagValue
	if candidate == "" {
		candidate = os.Getenv(LibraryEnvVar)
	}
	if candidate == "" {
		if cfg, err := LoadGlobalConfig(); err == nil && cfg.LibraryPath != "" {
			if ValidateLibraryPath(cfg.LibraryPath) == nil {
				candidate = cfg.LibraryPath
			}
		}
	}

	if candidate != "" {
		abs, err := filepath.Abs(ExpandPath(candidate))
		if err != nil {
			return "", fmt.Errorf("resolving library path: %w", err)
		}
		if err := ValidateLibraryPath(abs); err != nil {
			return "", err
		}
		return abs, nil
	}

	abs, err := filepath.Abs(DefaultLibraryDir)
	if err != nil {
		return "", fmt.Errorf("resolving library path: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("creating default library: %w", err)
	}
	return abs, nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
