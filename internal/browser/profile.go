package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultUserDataDir is chatmd's own browser profile, kept next to its config.
func DefaultUserDataDir(configDir string) string {
	return filepath.Join(configDir, "browser")
}

// ChromeUserDataDir returns the installed Chrome's user data directory for the
// current OS. Chrome must not be running when it is reused.
func ChromeUserDataDir() (string, error) {
	return chromeUserDataDir(runtime.GOOS, os.Getenv("LOCALAPPDATA"))
}

func chromeUserDataDir(goos, localAppData string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	var userDataDir string
	switch goos {
	case "darwin":
		userDataDir = filepath.Join(homeDir, "Library", "Application Support", "Google", "Chrome")
	case "linux":
		userDataDir = filepath.Join(homeDir, ".config", "google-chrome")
	case "windows":
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		userDataDir = filepath.Join(localAppData, "Google", "Chrome", "User Data")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}

	if _, err := os.Stat(userDataDir); os.IsNotExist(err) {
		return "", fmt.Errorf("Chrome user data directory not found at %s", userDataDir)
	}
	return userDataDir, nil
}
