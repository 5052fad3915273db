package state

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the optional configuration file looked up in the working directory.
	ConfigFileName = "mcghosts.yaml"

	// CacheFileTemplate names the profile cache; %s is the working directory name.
	CacheFileTemplate = "uuid_cache_%s.json"

	// LockSuffix is appended to the cache path for the run lock.
	LockSuffix = ".lock"
)

// GetWorkDir returns the absolute working directory of the run.
func GetWorkDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	abs, err := filepath.Abs(wd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return abs, nil
}

// CachePath returns the profile cache path for a working directory.
// Each directory (usually a world folder) gets its own cache file.
func CachePath(workDir string) string {
	name := filepath.Base(filepath.Clean(workDir))
	return filepath.Join(workDir, fmt.Sprintf(CacheFileTemplate, name))
}

// GetCachePath returns the profile cache path for the current working directory.
func GetCachePath() (string, error) {
	wd, err := GetWorkDir()
	if err != nil {
		return "", err
	}
	return CachePath(wd), nil
}

// LockPath returns the run lock path that guards a cache file.
func LockPath(cachePath string) string {
	return cachePath + LockSuffix
}

// ResolvePath resolves p against workDir unless it is already absolute.
func ResolvePath(workDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workDir, p)
}

// EnsureDir ensures that a directory exists, creating it if necessary.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory %s: %w", path, err)
	}
	return nil
}
