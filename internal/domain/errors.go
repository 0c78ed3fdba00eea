package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	// ErrCommandNotFound indicates an external program is not installed
	ErrCommandNotFound = errors.New("command not found")

	// ErrCommandFailed indicates an external program exited non-zero
	ErrCommandFailed = errors.New("command failed")

	// ErrDocsPathMissing indicates the docs path does not exist in the clone
	ErrDocsPathMissing = errors.New("documentation path not found in repository")

	// ErrNoDocumentation indicates extraction produced no usable text
	ErrNoDocumentation = errors.New("no documentation extracted")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")

	// ErrMissingAPIKey indicates the generative API credential is not configured
	ErrMissingAPIKey = errors.New("generative API key is required")
)

// CommandError describes a failed external command
type CommandError struct {
	Program  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	switch {
	case errors.Is(e.Err, ErrCommandNotFound):
		return fmt.Sprintf("%s: %v", e.Program, e.Err)
	case stderr != "":
		return fmt.Sprintf("%s exited with code %d: %s", e.Program, e.ExitCode, stderr)
	default:
		return fmt.Sprintf("%s exited with code %d: %v", e.Program, e.ExitCode, e.Err)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(program string, args []string, exitCode int, stderr string, err error) *CommandError {
	return &CommandError{
		Program:  program,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      err,
	}
}

// GenerationKind classifies a generation failure
type GenerationKind string

const (
	GenerationNoContent      GenerationKind = "no_content"
	GenerationBlocked        GenerationKind = "blocked"
	GenerationAbnormalFinish GenerationKind = "abnormal_finish"
	GenerationTransport      GenerationKind = "transport"
)

// GenerationError represents a failed call to the generative API
type GenerationError struct {
	Kind       GenerationKind
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation %s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a new GenerationError
func NewGenerationError(kind GenerationKind, message string, err error) *GenerationError {
	return &GenerationError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// GenerationKindOf returns the kind of a wrapped GenerationError, or "" if there is none
func GenerationKindOf(err error) GenerationKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
