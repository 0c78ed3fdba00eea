package extract

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quantmind-br/cheatsheet/internal/converter"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// IgnoreDirs are directories never descended into
var IgnoreDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".nuxt":        true,
}

// Walker serializes matching files in-process, in the same layout as
// files-to-prompt: the relative path, a "---" line, the content and a
// closing "---" line per file.
type Walker struct {
	include     []string
	maxFileSize int64
	html        *converter.HTMLConverter
	logger      *utils.Logger
}

// WalkerOptions contains options for Walker
type WalkerOptions struct {
	// Include holds doublestar patterns matched against slash-separated relative paths
	Include     []string
	MaxFileSize int64 // 0 disables the limit
	// HTML converts .html and .htm files to Markdown; nil keeps them verbatim
	HTML   *converter.HTMLConverter
	Logger *utils.Logger
}

// NewWalker creates a new Walker. Invalid patterns are rejected.
func NewWalker(opts WalkerOptions) (*Walker, error) {
	for _, p := range opts.Include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
	}
	return &Walker{
		include:     opts.Include,
		maxFileSize: opts.MaxFileSize,
		html:        opts.HTML,
		logger:      opts.Logger,
	}, nil
}

// Name returns "builtin"
func (w *Walker) Name() string {
	return "builtin"
}

// Extract concatenates every matching file under dir, ordered by path.
// When dir is a regular file only that file is serialized, under its base name.
func (w *Walker) Extract(ctx context.Context, dir string) (string, error) {
	var files []string
	if info, err := os.Stat(dir); err == nil && info.Mode().IsRegular() {
		files = []string{filepath.Base(dir)}
		dir = filepath.Dir(dir)
	} else {
		files, err = w.FindFiles(dir)
		if err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		path := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", rel, err)
		}
		if w.maxFileSize > 0 && info.Size() > w.maxFileSize {
			if w.logger != nil {
				w.logger.Debug().Str("file", rel).Int64("size", info.Size()).Msg("Skipping oversized file")
			}
			continue
		}

		content, err := w.readFile(path, rel)
		if err != nil {
			return "", err
		}

		sb.WriteString(rel)
		sb.WriteString("\n---\n")
		sb.WriteString(content)
		sb.WriteString("\n\n---\n")
	}

	return sb.String(), nil
}

func (w *Walker) readFile(file, rel string) (string, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}

	if w.html != nil && isHTML(rel) {
		out, err := w.html.Convert(raw, rel)
		if err != nil {
			return "", fmt.Errorf("convert %s: %w", rel, err)
		}
		return out, nil
	}

	content, err := converter.ToUTF8(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", rel, err)
	}
	return string(content), nil
}

func isHTML(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// FindFiles returns the slash-separated relative paths of matching files, sorted
func (w *Walker) FindFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && IgnoreDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if w.matches(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

func (w *Walker) matches(rel string) bool {
	if len(w.include) == 0 {
		return true
	}
	for _, p := range w.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
