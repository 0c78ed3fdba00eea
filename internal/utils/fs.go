package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// CheatsheetSuffix is appended to the sanitized source name to form the output filename
const CheatsheetSuffix = "_cheatsheet.md"

// nonAlnumRegex matches each maximal run of characters outside [a-z0-9]
var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName lower-cases name and collapses every run of characters
// outside [a-z0-9] into a single underscore.
//
//	SanitizeName("My Tool!") == "my_tool_"
func SanitizeName(name string) string {
	return nonAlnumRegex.ReplaceAllString(strings.ToLower(name), "_")
}

// CheatsheetFilename returns the output filename for a source name
func CheatsheetFilename(name string) string {
	return SanitizeName(name) + CheatsheetSuffix
}

// EnsureDir ensures the parent directory of path exists, creating it if necessary
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// RemoveDir removes a directory tree. A directory that is already gone is not an error.
func RemoveDir(path string) error {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PathExists reports whether path exists on disk
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
