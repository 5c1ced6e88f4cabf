package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "planlog"

// DefaultDataDir returns the OS-appropriate default data directory for planlog.
//
//   - macOS:   ~/Library/Application Support/planlog
//   - Linux:   $XDG_DATA_HOME/planlog (fallback ~/.local/share/planlog)
//   - Windows: %LOCALAPPDATA%\planlog (fallback %APPDATA%\planlog)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, appName)
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}
