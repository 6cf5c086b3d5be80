package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultDBPath returns a system-appropriate default path for the journal database.
func DefaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "daybook.db"
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", "daybook", "daybook.db")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "daybook", "daybook.db")
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", "daybook", "daybook.db")
	}
}

// DefaultPhotoDir returns a system-appropriate default directory for entry photos,
// next to the database.
func DefaultPhotoDir() string {
	return filepath.Join(filepath.Dir(DefaultDBPath()), "photos")
}

// ResolveAndEnsurePath expands ~, makes the path absolute, and creates the
// parent directory when missing. Empty input falls back to def.
func ResolveAndEnsurePath(providedPath, def string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = def
	}

	if strings.HasPrefix(targetPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory to expand path %q: %w", targetPath, err)
		}
		targetPath = filepath.Join(homeDir, targetPath[2:])
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %q: %w", targetPath, err)
	}
	targetPath = absPath

	dir := filepath.Dir(targetPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory %q: %w", dir, err)
	}

	return targetPath, nil
}
