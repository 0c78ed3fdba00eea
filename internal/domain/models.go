package domain

import (
	"fmt"
	"strings"
	"time"
)

// OriginEnvironment is the origin recorded for a source built from environment variables
const OriginEnvironment = "environment variables"

// SourceSpec describes one documentation source to turn into a cheatsheet
type SourceSpec struct {
	Name          string `json:"name" yaml:"name"`
	RepositoryURL string `json:"repo" yaml:"repo"`
	DocsPath      string `json:"path" yaml:"path"`
	Origin        string `json:"-" yaml:"-"` // Where the spec came from, for logging only
}

// Validate checks that every field of the spec is set
func (s SourceSpec) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.RepositoryURL) == "" {
		missing = append(missing, "repo")
	}
	if strings.TrimSpace(s.DocsPath) == "" {
		missing = append(missing, "path")
	}
	if strings.TrimSpace(s.Origin) == "" {
		missing = append(missing, "origin")
	}
	if len(missing) > 0 {
		return NewValidationError(strings.Join(missing, ","), "required field is empty")
	}
	return nil
}

// String returns a short description used in log lines
func (s SourceSpec) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Origin)
}

// FailureReason tags why a pipeline run failed. The zero value means success.
type FailureReason string

const (
	ReasonNone                  FailureReason = ""
	ReasonInvalidSource         FailureReason = "invalid_source"
	ReasonWorkspaceFailed       FailureReason = "workspace_failed"
	ReasonCloneFailed           FailureReason = "clone_failed"
	ReasonDocsPathMissing       FailureReason = "docs_path_missing"
	ReasonExtractionToolMissing FailureReason = "extraction_tool_missing"
	ReasonExtractionFailed      FailureReason = "extraction_failed"
	ReasonNoDocumentation       FailureReason = "no_documentation_extracted"
	ReasonGenerationFailed      FailureReason = "generation_failed"
	ReasonPersistFailed         FailureReason = "persist_failed"
	ReasonPanic                 FailureReason = "panic"
)

// PipelineResult is the outcome of processing one SourceSpec
type PipelineResult struct {
	Source     SourceSpec
	Reason     FailureReason
	Err        error
	OutputPath string
	DocBytes   int
	Duration   time.Duration
}

// Success builds a successful result
func Success(src SourceSpec, outputPath string) PipelineResult {
	return PipelineResult{Source: src, OutputPath: outputPath}
}

// Failure builds a failed result
func Failure(src SourceSpec, reason FailureReason, err error) PipelineResult {
	return PipelineResult{Source: src, Reason: reason, Err: err}
}

// Succeeded reports whether the run ended in Success
func (r PipelineResult) Succeeded() bool {
	return r.Reason == ReasonNone
}

// Describe returns the failure reason with its cause, or "success"
func (r PipelineResult) Describe() string {
	if r.Succeeded() {
		return "success"
	}
	if kind := GenerationKindOf(r.Err); kind != "" {
		return fmt.Sprintf("%s(%s): %v", r.Reason, kind, r.Err)
	}
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Reason, r.Err)
	}
	return string(r.Reason)
}

// BatchTally aggregates pipeline outcomes across a batch
type BatchTally struct {
	Attempted int
	Succeeded int
	Failed    int
	Failures  []PipelineResult
}

// Record folds one result into the tally
func (t *BatchTally) Record(r PipelineResult) {
	t.Attempted++
	if r.Succeeded() {
		t.Succeeded++
		return
	}
	t.Failed++
	t.Failures = append(t.Failures, r)
}
