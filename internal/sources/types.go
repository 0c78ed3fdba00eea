package sources

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/cheatsheet/internal/domain"
)

// File is the on-disk record describing one source
type File struct {
	Name string `yaml:"name" json:"name"`
	Repo string `yaml:"repo" json:"repo"`
	Path string `yaml:"path" json:"path"`
}

// Validate checks the required fields
func (f *File) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Repo) == "" {
		missing = append(missing, "repo")
	}
	if strings.TrimSpace(f.Path) == "" {
		missing = append(missing, "path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Spec converts the record into a SourceSpec tagged with origin
func (f *File) Spec(origin string) domain.SourceSpec {
	return domain.SourceSpec{
		Name:          f.Name,
		RepositoryURL: f.Repo,
		DocsPath:      f.Path,
		Origin:        origin,
	}
}

// Environment holds the single-source fallback read from environment variables
type Environment struct {
	RepoURL     string
	ProjectName string
	DocsPath    string
}

// missing returns the names of the unset variables
func (e Environment) missing() []string {
	var names []string
	if strings.TrimSpace(e.RepoURL) == "" {
		names = append(names, "REPO_URL")
	}
	if strings.TrimSpace(e.ProjectName) == "" {
		names = append(names, "PROJECT_NAME")
	}
	if strings.TrimSpace(e.DocsPath) == "" {
		names = append(names, "DOCS_PATH")
	}
	return names
}

// SkippedFile records a source file that did not produce a SourceSpec
type SkippedFile struct {
	Path string
	Err  error
}

// Resolution is the outcome of resolving the batch
type Resolution struct {
	Sources []domain.SourceSpec
	Skipped []SkippedFile
}
