package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// Loader loads and validates source files
type Loader struct {
	dir    string
	logger *utils.Logger
}

// LoaderOptions contains options for the loader
type LoaderOptions struct {
	// Dir is where bare file names are resolved
	Dir    string
	Logger *utils.Logger
}

// NewLoader creates a new source loader
func NewLoader(opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Loader{dir: opts.Dir, logger: logger}
}

// Resolve builds the ordered list of sources. With paths it loads each file
// independently and skips the ones that fail; without paths it falls back to
// env. It fails only when no source at all can be resolved.
func (l *Loader) Resolve(paths []string, env Environment) (*Resolution, error) {
	if len(paths) == 0 {
		return l.resolveEnvironment(env)
	}

	res := &Resolution{}
	for _, p := range paths {
		resolved := l.ResolvePath(p)
		spec, err := l.Load(resolved)
		if err != nil {
			l.logger.Error().
				Err(err).
				Str("file", resolved).
				Msg("Skipping source file")
			res.Skipped = append(res.Skipped, SkippedFile{Path: resolved, Err: err})
			continue
		}
		l.logger.Debug().
			Str("file", resolved).
			Str("source", spec.Name).
			Msg("Loaded source file")
		res.Sources = append(res.Sources, spec)
	}

	if len(res.Sources) == 0 {
		return res, fmt.Errorf("%w: %d file(s) given, none usable", ErrNoSources, len(paths))
	}
	return res, nil
}

// ResolvePath maps a command-line argument to a file path. Absolute paths
// and paths with a directory component are used as-is; bare file names are
// looked up in the sources directory.
func (l *Loader) ResolvePath(p string) string {
	if filepath.IsAbs(p) || strings.ContainsRune(p, '/') || strings.ContainsRune(p, filepath.Separator) {
		return p
	}
	if l.dir == "" {
		return p
	}
	return filepath.Join(l.dir, p)
}

// Load reads and parses one source file. Origin is set to the file's base name.
func (l *Loader) Load(path string) (domain.SourceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SourceSpec{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return domain.SourceSpec{}, fmt.Errorf("failed to read source file: %w", err)
	}

	f, err := l.LoadFromBytes(data, filepath.Ext(path))
	if err != nil {
		return domain.SourceSpec{}, err
	}
	return f.Spec(filepath.Base(path)), nil
}

// LoadFromBytes parses a source record from raw bytes
func (l *Loader) LoadFromBytes(data []byte, ext string) (*File, error) {
	ext = strings.ToLower(ext)

	var f File
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (l *Loader) resolveEnvironment(env Environment) (*Resolution, error) {
	if missing := env.missing(); len(missing) > 0 {
		return &Resolution{}, fmt.Errorf(
			"%w: %s (pass source files as arguments or set REPO_URL, PROJECT_NAME and DOCS_PATH)",
			ErrMissingEnvironment, strings.Join(missing, ", "))
	}

	spec := domain.SourceSpec{
		Name:          env.ProjectName,
		RepositoryURL: env.RepoURL,
		DocsPath:      env.DocsPath,
		Origin:        domain.OriginEnvironment,
	}
	l.logger.Debug().Str("source", spec.Name).Msg("Using source from environment variables")
	return &Resolution{Sources: []domain.SourceSpec{spec}}, nil
}
