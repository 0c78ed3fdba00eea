package app

import (
	"fmt"

	"github.com/quantmind-br/cheatsheet/internal/config"
	"github.com/quantmind-br/cheatsheet/internal/converter"
	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/extract"
	"github.com/quantmind-br/cheatsheet/internal/git"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// NewCloner creates the cloner selected by clone.method
func NewCloner(cfg *config.Config, runner domain.CommandRunner, logger *utils.Logger) (domain.Cloner, error) {
	switch cfg.Clone.Method {
	case config.CloneMethodGit, "":
		return git.NewCLICloner(git.CLIClonerOptions{
			Runner: runner,
			Depth:  cfg.Clone.Depth,
			Logger: logger,
		}), nil
	case config.CloneMethodGoGit:
		return git.NewGoGitCloner(git.GoGitClonerOptions{
			Depth:  cfg.Clone.Depth,
			Logger: logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown clone method: %s", cfg.Clone.Method)
	}
}

// NewExtractor creates the extractor selected by extract.tool
func NewExtractor(cfg *config.Config, runner domain.CommandRunner, logger *utils.Logger) (domain.Extractor, error) {
	if cfg.Extract.Tool == config.ExtractToolBuiltin {
		maxSize, err := config.ParseSize(cfg.Extract.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("invalid extract.max_file_size: %w", err)
		}
		opts := extract.WalkerOptions{
			Include:     cfg.Extract.Include,
			MaxFileSize: maxSize,
			Logger:      logger,
		}
		if cfg.Extract.ConvertHTML {
			opts.HTML = converter.NewHTMLConverter(converter.HTMLOptions{
				Selector: cfg.Extract.ContentSelector,
			})
		}
		return extract.NewWalker(opts)
	}

	return extract.NewToolExtractor(extract.ToolExtractorOptions{
		Runner:  runner,
		Program: cfg.Extract.Tool,
		Args:    cfg.Extract.Args,
		Logger:  logger,
	}), nil
}
