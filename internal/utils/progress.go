package utils

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescProcessing = "Processing"
	DescGenerating = "Generating"
)

// NewProgressBar creates a consistently styled progress bar.
//
// Parameters:
//   - total: Total number of items. Use -1 for unknown totals (spinner mode).
//   - description: Text shown before the bar (e.g., DescGenerating).
//   - out: Destination of the rendered bar; nil keeps the library default (stdout).
//
// Example:
//
//	bar := utils.NewProgressBar(len(sources), utils.DescGenerating, os.Stderr)
//	defer bar.Finish()
//
//	for _, src := range sources {
//	    // Process source
//	    bar.Add(1)
//	}
func NewProgressBar(total int, description string, out io.Writer) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}

	if out != nil {
		opts = append(opts, progressbar.OptionSetWriter(out))
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
