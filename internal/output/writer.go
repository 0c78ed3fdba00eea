// Package output persists generated cheatsheets.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// DefaultDir is used when no output directory is configured
const DefaultDir = "./cheatsheets"

// Writer handles writing cheatsheets to the filesystem
type Writer struct {
	baseDir string
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir string
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = DefaultDir
	}
	return &Writer{baseDir: opts.BaseDir}
}

// BaseDir returns the output directory
func (w *Writer) BaseDir() string {
	return w.baseDir
}

// Write saves content verbatim as the cheatsheet for name and returns the
// file path. An existing file is overwritten.
func (w *Writer) Write(name, content string) (string, error) {
	path := w.GetPath(name)

	if err := utils.EnsureDir(path); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", domain.ErrWriteFailed, filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	return path, nil
}

// GetPath returns the output path for a source name
func (w *Writer) GetPath(name string) string {
	return filepath.Join(w.baseDir, utils.CheatsheetFilename(name))
}

// Exists checks if a cheatsheet for name already exists
func (w *Writer) Exists(name string) bool {
	return utils.PathExists(w.GetPath(name))
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (w *Writer) EnsureBaseDir() error {
	return os.MkdirAll(w.baseDir, 0755)
}

// CheckWritable creates the base directory and a probe file inside it
func (w *Writer) CheckWritable() error {
	if err := w.EnsureBaseDir(); err != nil {
		return err
	}
	f, err := os.CreateTemp(w.baseDir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// Stats returns the number and total size of cheatsheets in the output directory
func (w *Writer) Stats() (int, int64, error) {
	var count int
	var size int64

	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), utils.CheatsheetSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return 0, 0, err
		}
		count++
		size += info.Size()
	}

	return count, size, nil
}
