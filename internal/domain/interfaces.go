package domain

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mocks/domain.go -package=mocks

// Command describes one external program invocation
type Command struct {
	Program string
	Args    []string
	Dir     string // Working directory, empty for the current one
}

// CommandResult holds the captured output of a finished command
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes external programs synchronously
type CommandRunner interface {
	// Run starts the command and waits for it to exit.
	// A non-zero exit is returned as a *CommandError carrying stderr.
	Run(ctx context.Context, cmd Command) (*CommandResult, error)
}

// Cloner fetches a shallow copy of a repository
type Cloner interface {
	// Name returns the clone method name
	Name() string
	// Clone clones repoURL into destDir, which already exists and is empty
	Clone(ctx context.Context, repoURL, destDir string) error
}

// Extractor serializes a documentation directory into one text blob
type Extractor interface {
	// Name returns the extractor name
	Name() string
	// Extract returns the documentation text found under dir
	Extract(ctx context.Context, dir string) (string, error)
}

// Generator turns documentation text into a cheatsheet
type Generator interface {
	// Generate sends the documentation to the generative API and returns the document text
	Generate(ctx context.Context, documentation, projectName string) (string, error)
}

// Processor runs the per-source pipeline
type Processor interface {
	// Process handles one source; failures are reported in the result, never returned
	Process(ctx context.Context, src SourceSpec) PipelineResult
}
