package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// DownloadsDir returns the user's Downloads directory
func DownloadsDir() string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE") // Windows fallback
	}
	return filepath.Join(homeDir, "Downloads")
}

// ExportCSV writes csv text to Downloads/export.csv. If that name is taken,
// a numeric suffix is added rather than overwriting.
func ExportCSV(csvText string) (string, error) {
	dir := DownloadsDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	path := filepath.Join(dir, "export.csv")
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("export-%d.csv", i))
	}

	if err := os.WriteFile(path, []byte(csvText), 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
