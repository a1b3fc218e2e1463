// Package utils provides small shared helpers: application directory
// resolution and duration formatting.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const appDirName = "HiroTrack"

// GetAppDataDir returns the per-user application directory.
// macOS: ~/Library/Application Support/HiroTrack
// Linux: ~/.config/HiroTrack
// Windows: %AppData%\HiroTrack
func GetAppDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		// Last resort: keep everything next to the working directory.
		return appDirName
	}
	return filepath.Join(base, appDirName)
}

// GetDataDir returns the directory holding persisted application data
// (settings database).
func GetDataDir() string {
	return filepath.Join(GetAppDataDir(), "data")
}

// GetLogDir returns the directory holding log files.
func GetLogDir() string {
	return filepath.Join(GetAppDataDir(), "logs")
}

// EnsureAppDirs creates the application directories if they do not exist.
func EnsureAppDirs() error {
	for _, dir := range []string{GetAppDataDir(), GetDataDir(), GetLogDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create app directory %s: %w", dir, err)
		}
	}
	return nil
}

// FormatDuration renders a duration as "1h2m3s" / "2m3s" / "3s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
