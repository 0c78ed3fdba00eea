// Package runner executes external programs for the pipeline: the git CLI
// and the documentation extraction tool.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// ExecRunner implements domain.CommandRunner using os/exec
type ExecRunner struct {
	logger *utils.Logger
}

// ExecRunnerOptions contains options for the runner
type ExecRunnerOptions struct {
	Logger *utils.Logger
}

// NewExecRunner creates a new ExecRunner
func NewExecRunner(opts ExecRunnerOptions) *ExecRunner {
	return &ExecRunner{logger: opts.Logger}
}

// Run starts the command, waits for it and returns its captured output.
// Stdout and stderr are captured separately; stderr is attached to the
// returned *domain.CommandError when the program fails.
func (r *ExecRunner) Run(ctx context.Context, c domain.Command) (*domain.CommandResult, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.logger != nil {
		r.logger.Debug().
			Str("program", c.Program).
			Strs("args", c.Args).
			Str("dir", c.Dir).
			Msg("Running command")
	}

	err := cmd.Run()
	result := &domain.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			return result, domain.NewCommandError(c.Program, c.Args, result.ExitCode, result.Stderr, domain.ErrCommandFailed)
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			result.ExitCode = -1
			return result, domain.NewCommandError(c.Program, c.Args, -1, result.Stderr, domain.ErrCommandNotFound)
		default:
			result.ExitCode = -1
			return result, domain.NewCommandError(c.Program, c.Args, -1, result.Stderr, err)
		}
	}

	if r.logger != nil && stderr.Len() > 0 {
		r.logger.Debug().
			Str("program", c.Program).
			Str("stderr", result.Stderr).
			Msg("Command wrote to stderr")
	}

	return result, nil
}
