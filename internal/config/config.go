package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the application configuration
type Config struct {
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Sources    SourcesConfig    `mapstructure:"sources" yaml:"sources"`
	Workspace  WorkspaceConfig  `mapstructure:"workspace" yaml:"workspace"`
	Clone      CloneConfig      `mapstructure:"clone" yaml:"clone"`
	Extract    ExtractConfig    `mapstructure:"extract" yaml:"extract"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Source     SourceEnvConfig  `mapstructure:"source" yaml:"source"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Progress   bool             `mapstructure:"progress" yaml:"progress"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// SourcesConfig contains settings for source definition files
type SourcesConfig struct {
	// Directory is where bare source file names are looked up
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// WorkspaceConfig contains settings for temporary clone directories
type WorkspaceConfig struct {
	Root string `mapstructure:"root" yaml:"root"`
}

// CloneConfig contains repository clone settings
type CloneConfig struct {
	Method string `mapstructure:"method" yaml:"method"` // "git" or "go-git"
	Depth  int    `mapstructure:"depth" yaml:"depth"`
}

// ExtractConfig contains documentation extraction settings
type ExtractConfig struct {
	// Tool is the external extraction program, or "builtin" for the in-process walker
	Tool string `mapstructure:"tool" yaml:"tool"`
	// Args are passed to Tool; "{dir}" is replaced by the docs directory
	Args        []string `mapstructure:"args" yaml:"args"`
	Include     []string `mapstructure:"include" yaml:"include"`
	MaxFileSize string   `mapstructure:"max_file_size" yaml:"max_file_size"`
	// ConvertHTML turns .html pages into Markdown in the builtin walker
	ConvertHTML     bool   `mapstructure:"convert_html" yaml:"convert_html"`
	ContentSelector string `mapstructure:"content_selector" yaml:"content_selector"`
}

// GenerationConfig contains generative API settings
type GenerationConfig struct {
	APIKey          string  `mapstructure:"api_key" yaml:"api_key"`
	Model           string  `mapstructure:"model" yaml:"model"`
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
	HeadingPrefix   string  `mapstructure:"heading_prefix" yaml:"heading_prefix"`
}

// SourceEnvConfig holds the single source described by environment variables
type SourceEnvConfig struct {
	Repo string `mapstructure:"repo" yaml:"repo"`
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Sources.Directory == "" {
		c.Sources.Directory = DefaultSourcesDir
	}
	if c.Workspace.Root == "" {
		c.Workspace.Root = DefaultWorkspaceRoot()
	}

	switch c.Clone.Method {
	case "":
		c.Clone.Method = DefaultCloneMethod
	case CloneMethodGit, CloneMethodGoGit:
	default:
		return fmt.Errorf("invalid clone.method %q (use %q or %q)", c.Clone.Method, CloneMethodGit, CloneMethodGoGit)
	}
	if c.Clone.Depth < 1 {
		c.Clone.Depth = DefaultCloneDepth
	}

	if c.Extract.Tool == "" {
		c.Extract.Tool = DefaultExtractTool
	}
	if len(c.Extract.Args) == 0 && c.Extract.Tool != ExtractToolBuiltin {
		c.Extract.Args = []string{DirPlaceholder}
	}
	if len(c.Extract.Include) == 0 {
		c.Extract.Include = DefaultIncludePatterns
	}
	if c.Extract.MaxFileSize == "" {
		c.Extract.MaxFileSize = DefaultMaxFileSize
	} else {
		if _, err := ParseSize(c.Extract.MaxFileSize); err != nil {
			return fmt.Errorf("invalid extract.max_file_size: %w", err)
		}
	}

	if c.Generation.Model == "" {
		c.Generation.Model = DefaultModel
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("invalid generation.temperature %v (must be between 0 and 2)", c.Generation.Temperature)
	}
	if c.Generation.MaxOutputTokens < 1 {
		c.Generation.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.Generation.HeadingPrefix == "" {
		c.Generation.HeadingPrefix = DefaultHeadingPrefix
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}

// ParseSize parses sizes such as "10MB", "512KB" or "1024" into bytes
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
