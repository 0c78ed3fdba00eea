// Package extract turns a documentation directory into a single text blob,
// either by running an external tool or with the builtin walker.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// DirPlaceholder is replaced by the documentation directory in tool arguments
const DirPlaceholder = "{dir}"

// ToolExtractor runs an external program and returns its standard output
type ToolExtractor struct {
	runner  domain.CommandRunner
	program string
	args    []string
	logger  *utils.Logger
}

// ToolExtractorOptions contains options for ToolExtractor
type ToolExtractorOptions struct {
	Runner  domain.CommandRunner
	Program string
	// Args may contain DirPlaceholder; without it the directory is appended
	Args   []string
	Logger *utils.Logger
}

// NewToolExtractor creates a new ToolExtractor
func NewToolExtractor(opts ToolExtractorOptions) *ToolExtractor {
	return &ToolExtractor{
		runner:  opts.Runner,
		program: opts.Program,
		args:    opts.Args,
		logger:  opts.Logger,
	}
}

// Name returns the program name
func (e *ToolExtractor) Name() string {
	return e.program
}

// Extract runs the tool against dir. A missing program surfaces as
// domain.ErrCommandNotFound.
func (e *ToolExtractor) Extract(ctx context.Context, dir string) (string, error) {
	args := e.buildArgs(dir)

	res, err := e.runner.Run(ctx, domain.Command{Program: e.program, Args: args})
	if err != nil {
		return "", fmt.Errorf("extraction with %s: %w", e.program, err)
	}

	if e.logger != nil && res.Stderr != "" {
		e.logger.Debug().Str("tool", e.program).Str("stderr", res.Stderr).Msg("Extraction tool output")
	}
	return res.Stdout, nil
}

func (e *ToolExtractor) buildArgs(dir string) []string {
	args := make([]string, 0, len(e.args)+1)
	substituted := false
	for _, a := range e.args {
		if strings.Contains(a, DirPlaceholder) {
			a = strings.ReplaceAll(a, DirPlaceholder, dir)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, dir)
	}
	return args
}
