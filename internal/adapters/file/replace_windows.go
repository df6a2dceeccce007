//go:build windows

package file

import "os"

// replaceFile relies on os.Rename using MOVEFILE_REPLACE_EXISTING.
func replaceFile(tmpPath, dest string) error {
	return os.Rename(tmpPath, dest)
}

// Directories cannot be fsynced on Windows.
func syncDir(string) {}
