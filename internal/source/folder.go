package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var fitsSuffixes = []string{".fits", ".fit", ".fts"}

// ListFitsFiles returns the FITS files directly inside folder, sorted by name.
func ListFitsFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	var fitsPaths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if hasFitsSuffix(name) {
			fitsPaths = append(fitsPaths, filepath.Join(folder, name))
		}
	}
	sort.Strings(fitsPaths)
	return fitsPaths, nil
}

func hasFitsSuffix(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range fitsSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

// PathExists reports whether anything exists at path.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
