package sources

import "errors"

// Sentinel errors for the sources package
var (
	// ErrNoSources indicates no valid source could be resolved
	ErrNoSources = errors.New("no valid sources to process")

	// ErrMissingEnvironment indicates the environment fallback is incomplete
	ErrMissingEnvironment = errors.New("missing source environment variables")

	// ErrFileNotFound indicates the source file does not exist
	ErrFileNotFound = errors.New("source file not found")

	// ErrInvalidFormat indicates the source file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("source file must be valid YAML or JSON")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .json, .yaml, or .yml)")

	// ErrMissingField indicates a required field is empty
	ErrMissingField = errors.New("missing required field")
)
