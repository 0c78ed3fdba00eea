// Package app wires configuration into the batch: it resolves sources,
// builds the pipeline and drives it over every source.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/quantmind-br/cheatsheet/internal/config"
	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/generator"
	"github.com/quantmind-br/cheatsheet/internal/output"
	"github.com/quantmind-br/cheatsheet/internal/pipeline"
	"github.com/quantmind-br/cheatsheet/internal/runner"
	"github.com/quantmind-br/cheatsheet/internal/sources"
	"github.com/quantmind-br/cheatsheet/internal/utils"
	"github.com/quantmind-br/cheatsheet/internal/workspace"
)

// Orchestrator coordinates a cheatsheet batch
type Orchestrator struct {
	config *config.Config
	logger *utils.Logger
	loader *sources.Loader
	driver *Driver
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config  *config.Config
	Verbose bool
	// Logger overrides the logger built from Config.Logging
	Logger *utils.Logger
	// Generator overrides the Gemini client
	Generator domain.Generator
	// Processor overrides the whole per-source pipeline
	Processor      domain.Processor
	ProgressOutput io.Writer
}

// NewOrchestrator builds every collaborator from the configuration. A
// missing API key is reported before anything else is constructed.
func NewOrchestrator(ctx context.Context, opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if strings.TrimSpace(cfg.Generation.APIKey) == "" {
		return nil, fmt.Errorf("%w (set %s)", domain.ErrMissingAPIKey, config.EnvAPIKey)
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	processor := opts.Processor
	if processor == nil {
		p, err := buildPipeline(ctx, cfg, opts.Generator, logger)
		if err != nil {
			return nil, err
		}
		processor = p
	}

	return &Orchestrator{
		config: cfg,
		logger: logger,
		loader: sources.NewLoader(sources.LoaderOptions{
			Dir:    utils.ExpandPath(cfg.Sources.Directory),
			Logger: logger.WithComponent("sources"),
		}),
		driver: NewDriver(DriverOptions{
			Processor:      processor,
			Logger:         logger,
			Progress:       cfg.Progress,
			ProgressOutput: opts.ProgressOutput,
		}),
	}, nil
}

func buildPipeline(ctx context.Context, cfg *config.Config, gen domain.Generator, logger *utils.Logger) (*pipeline.Pipeline, error) {
	execRunner := runner.NewExecRunner(runner.ExecRunnerOptions{Logger: logger.WithComponent("runner")})

	cloner, err := NewCloner(cfg, execRunner, logger.WithComponent("clone"))
	if err != nil {
		return nil, err
	}
	extractor, err := NewExtractor(cfg, execRunner, logger.WithComponent("extract"))
	if err != nil {
		return nil, err
	}

	if gen == nil {
		client, err := generator.NewClient(ctx, cfg.Generation.APIKey, generator.Options{
			Model:           cfg.Generation.Model,
			Temperature:     float32(cfg.Generation.Temperature),
			MaxOutputTokens: int32(cfg.Generation.MaxOutputTokens),
			HeadingPrefix:   cfg.Generation.HeadingPrefix,
		}, logger.WithComponent("generator"))
		if err != nil {
			return nil, err
		}
		gen = client
	}

	return pipeline.New(pipeline.Options{
		Cloner:    cloner,
		Extractor: extractor,
		Generator: gen,
		Workspace: workspace.NewManager(workspace.Options{
			Root:   utils.ExpandPath(cfg.Workspace.Root),
			Logger: logger.WithComponent("workspace"),
		}),
		Writer: output.NewWriter(output.WriterOptions{
			BaseDir: utils.ExpandPath(cfg.Output.Directory),
		}),
		Logger: logger,
	}), nil
}

// Run resolves the sources named by paths (or the environment fallback when
// paths is empty) and processes them. Only an unresolvable batch is an
// error; per-source failures are reported in the tally.
func (o *Orchestrator) Run(ctx context.Context, paths []string) (domain.BatchTally, error) {
	res, err := o.loader.Resolve(paths, sources.Environment{
		RepoURL:     o.config.Source.Repo,
		ProjectName: o.config.Source.Name,
		DocsPath:    o.config.Source.Path,
	})
	if err != nil {
		return domain.BatchTally{}, err
	}

	if len(res.Skipped) > 0 {
		o.logger.Warn().
			Int("skipped", len(res.Skipped)).
			Int("loaded", len(res.Sources)).
			Msg("Some source files were skipped")
	}

	return o.driver.RunAll(ctx, res.Sources), nil
}

// Logger returns the orchestrator's logger
func (o *Orchestrator) Logger() *utils.Logger {
	return o.logger
}
