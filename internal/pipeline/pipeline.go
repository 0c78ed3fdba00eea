// Package pipeline runs clone, extract, generate and persist for one source
// inside its own temporary workspace.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/output"
	"github.com/quantmind-br/cheatsheet/internal/utils"
	"github.com/quantmind-br/cheatsheet/internal/workspace"
)

// Pipeline implements domain.Processor
type Pipeline struct {
	cloner    domain.Cloner
	extractor domain.Extractor
	generator domain.Generator
	workspace *workspace.Manager
	writer    *output.Writer
	logger    *utils.Logger
}

// Options contains the collaborators of a pipeline
type Options struct {
	Cloner    domain.Cloner
	Extractor domain.Extractor
	Generator domain.Generator
	Workspace *workspace.Manager
	Writer    *output.Writer
	Logger    *utils.Logger
}

// New creates a new pipeline
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Pipeline{
		cloner:    opts.Cloner,
		extractor: opts.Extractor,
		generator: opts.Generator,
		workspace: opts.Workspace,
		writer:    opts.Writer,
		logger:    logger.WithComponent("pipeline"),
	}
}

// Process handles one source. Every failure is folded into the result and
// the workspace is removed on every path once it has been created.
func (p *Pipeline) Process(ctx context.Context, src domain.SourceSpec) (result domain.PipelineResult) {
	start := time.Now()
	logger := p.logger.WithSource(src.Name, src.Origin)
	defer func() {
		result.Duration = time.Since(start)
	}()

	if err := src.Validate(); err != nil {
		return p.fail(logger, src, domain.ReasonInvalidSource, err)
	}

	ws, err := p.workspace.Prepare(src.Name)
	if err != nil {
		return p.fail(logger, src, domain.ReasonWorkspaceFailed, err)
	}
	defer p.cleanup(logger, ws)

	logger.Info().
		Str("repo", src.RepositoryURL).
		Str("method", p.cloner.Name()).
		Msg("Cloning repository")
	if err := p.cloner.Clone(ctx, src.RepositoryURL, ws); err != nil {
		return p.fail(logger, src, domain.ReasonCloneFailed, err)
	}

	docsDir, err := resolveDocsDir(ws, src.DocsPath)
	if err != nil {
		return p.fail(logger, src, domain.ReasonDocsPathMissing, err)
	}

	logger.Debug().
		Str("dir", docsDir).
		Str("extractor", p.extractor.Name()).
		Msg("Extracting documentation")
	text, err := p.extractor.Extract(ctx, docsDir)
	if err != nil {
		if errors.Is(err, domain.ErrCommandNotFound) {
			logger.Error().Str("tool", p.extractor.Name()).Msg("Extraction tool not installed")
			return p.fail(logger, src, domain.ReasonExtractionToolMissing, err)
		}
		return p.fail(logger, src, domain.ReasonExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return p.fail(logger, src, domain.ReasonNoDocumentation,
			fmt.Errorf("%w under %s", domain.ErrNoDocumentation, src.DocsPath))
	}
	logger.Info().Int("bytes", len(text)).Msg("Documentation extracted")

	doc, err := p.generator.Generate(ctx, text, src.Name)
	if err != nil {
		r := p.fail(logger, src, domain.ReasonGenerationFailed, err)
		r.DocBytes = len(text)
		return r
	}

	if p.writer.Exists(src.Name) {
		logger.Info().Str("path", p.writer.GetPath(src.Name)).Msg("Overwriting existing cheatsheet")
	}
	path, err := p.writer.Write(src.Name, doc)
	if err != nil {
		r := p.fail(logger, src, domain.ReasonPersistFailed, err)
		r.DocBytes = len(text)
		return r
	}
	logger.Info().Str("path", path).Msg("Cheatsheet saved")

	result = domain.Success(src, path)
	result.DocBytes = len(text)
	return result
}

func (p *Pipeline) fail(logger *utils.Logger, src domain.SourceSpec, reason domain.FailureReason, err error) domain.PipelineResult {
	logger.Error().
		Err(err).
		Str("reason", string(reason)).
		Msg("Source failed")
	return domain.Failure(src, reason, err)
}

func (p *Pipeline) cleanup(logger *utils.Logger, ws string) {
	if err := p.workspace.Cleanup(ws); err != nil {
		logger.Warn().Err(err).Str("path", ws).Msg("Failed to clean up workspace")
	}
}

// resolveDocsDir joins docsPath onto the workspace and checks it exists
// without leaving the workspace.
func resolveDocsDir(ws, docsPath string) (string, error) {
	dir := filepath.Join(ws, filepath.FromSlash(docsPath))

	rel, err := filepath.Rel(ws, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the repository", domain.ErrDocsPathMissing, docsPath)
	}

	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrDocsPathMissing, docsPath)
	}
	return dir, nil
}
