package config

import (
	"os"
	"path/filepath"
)

// Clone methods
const (
	CloneMethodGit   = "git"
	CloneMethodGoGit = "go-git"
)

// ExtractToolBuiltin selects the in-process documentation walker
const ExtractToolBuiltin = "builtin"

// DirPlaceholder is replaced by the docs directory in extract.args
const DirPlaceholder = "{dir}"

// Default values
const (
	DefaultOutputDir  = "./cheatsheets"
	DefaultSourcesDir = "./sources"

	DefaultCloneMethod = CloneMethodGit
	DefaultCloneDepth  = 1

	DefaultExtractTool = "files-to-prompt"
	DefaultMaxFileSize = "10MB"

	DefaultModel           = "gemini-2.5-pro"
	DefaultTemperature     = 0.2
	DefaultMaxOutputTokens = 65536
	DefaultHeadingPrefix   = "# "

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// Environment variables read without the CHEATSHEET_ prefix
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvModel       = "GEMINI_MODEL"
	EnvRepoURL     = "REPO_URL"
	EnvProjectName = "PROJECT_NAME"
	EnvDocsPath    = "DOCS_PATH"
)

// DefaultIncludePatterns are the files the builtin extractor serializes
var DefaultIncludePatterns = []string{
	"**/*.md",
	"**/*.mdx",
	"**/*.rst",
	"**/*.txt",
	"**/*.adoc",
	"**/*.html",
	"**/*.htm",
}

// DefaultWorkspaceRoot returns the directory that holds per-source clones
func DefaultWorkspaceRoot() string {
	return filepath.Join(os.TempDir(), "cheatsheet-workspaces")
}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cheatsheet"
	}
	return filepath.Join(home, ".cheatsheet")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Directory: DefaultOutputDir,
		},
		Sources: SourcesConfig{
			Directory: DefaultSourcesDir,
		},
		Workspace: WorkspaceConfig{
			Root: DefaultWorkspaceRoot(),
		},
		Clone: CloneConfig{
			Method: DefaultCloneMethod,
			Depth:  DefaultCloneDepth,
		},
		Extract: ExtractConfig{
			Tool:        DefaultExtractTool,
			Args:        []string{DirPlaceholder},
			Include:     DefaultIncludePatterns,
			MaxFileSize: DefaultMaxFileSize,
			ConvertHTML: true,
		},
		Generation: GenerationConfig{
			Model:           DefaultModel,
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
			HeadingPrefix:   DefaultHeadingPrefix,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
