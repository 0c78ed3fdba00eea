package app

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// Driver runs the pipeline over a batch of sources, one at a time
type Driver struct {
	processor   domain.Processor
	logger      *utils.Logger
	progress    bool
	progressOut io.Writer
}

// DriverOptions contains options for the driver
type DriverOptions struct {
	Processor domain.Processor
	Logger    *utils.Logger
	// Progress renders a progress bar to ProgressOutput
	Progress       bool
	ProgressOutput io.Writer
}

// NewDriver creates a new batch driver
func NewDriver(opts DriverOptions) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Driver{
		processor:   opts.Processor,
		logger:      logger.WithComponent("batch"),
		progress:    opts.Progress,
		progressOut: opts.ProgressOutput,
	}
}

// RunAll processes sources in order. A failed or panicking source never
// stops the batch; a cancelled context stops it before the next source.
func (d *Driver) RunAll(ctx context.Context, sources []domain.SourceSpec) domain.BatchTally {
	start := time.Now()
	var tally domain.BatchTally

	d.logger.Info().Int("sources", len(sources)).Msg("Starting batch")

	var bar *progressbar.ProgressBar
	if d.progress && len(sources) > 0 {
		bar = utils.NewProgressBar(len(sources), utils.DescGenerating, d.progressOut)
	}

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			d.logger.Warn().
				Err(err).
				Int("skipped", len(sources)-i).
				Msg("Batch cancelled, remaining sources not attempted")
			break
		}

		d.logger.Info().
			Int("index", i+1).
			Int("total", len(sources)).
			Str("source", src.Name).
			Str("origin", src.Origin).
			Msg("Processing source")

		// a started source runs to completion; cancellation only stops the batch between sources
		res := d.processSafely(context.WithoutCancel(ctx), src)
		tally.Record(res)

		if res.Succeeded() {
			d.logger.Info().
				Str("source", src.Name).
				Str("path", res.OutputPath).
				Dur("duration", res.Duration).
				Msg("Source completed")
		} else {
			d.logger.Error().
				Str("source", src.Name).
				Str("origin", src.Origin).
				Str("reason", string(res.Reason)).
				Err(res.Err).
				Msg("Source failed")
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	d.logSummary(tally, time.Since(start))
	return tally
}

func (d *Driver) processSafely(ctx context.Context, src domain.SourceSpec) (res domain.PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("source", src.Name).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic while processing source")
			res = domain.Failure(src, domain.ReasonPanic, fmt.Errorf("panic: %v", r))
		}
	}()
	return d.processor.Process(ctx, src)
}

func (d *Driver) logSummary(tally domain.BatchTally, elapsed time.Duration) {
	d.logger.Info().
		Dur("total_duration", elapsed).
		Int("attempted", tally.Attempted).
		Int("succeeded", tally.Succeeded).
		Int("failed", tally.Failed).
		Msg("Batch completed")

	for _, f := range tally.Failures {
		d.logger.Warn().
			Str("source", f.Source.Name).
			Str("origin", f.Source.Origin).
			Msg(f.Describe())
	}
}
