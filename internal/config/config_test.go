package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:   "empty config gets defaults",
			modify: func(c *Config) { *c = Config{} },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultOutputDir, c.Output.Directory)
				assert.Equal(t, DefaultSourcesDir, c.Sources.Directory)
				assert.Equal(t, DefaultWorkspaceRoot(), c.Workspace.Root)
				assert.Equal(t, CloneMethodGit, c.Clone.Method)
				assert.Equal(t, 1, c.Clone.Depth)
				assert.Equal(t, DefaultExtractTool, c.Extract.Tool)
				assert.Equal(t, []string{DirPlaceholder}, c.Extract.Args)
				assert.Equal(t, DefaultModel, c.Generation.Model)
				assert.Equal(t, DefaultMaxOutputTokens, c.Generation.MaxOutputTokens)
				assert.Equal(t, DefaultHeadingPrefix, c.Generation.HeadingPrefix)
				assert.Equal(t, DefaultLogLevel, c.Logging.Level)
			},
		},
		{
			name:   "go-git clone method accepted",
			modify: func(c *Config) { c.Clone.Method = CloneMethodGoGit },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, CloneMethodGoGit, c.Clone.Method)
			},
		},
		{
			name:    "unknown clone method rejected",
			modify:  func(c *Config) { c.Clone.Method = "svn" },
			wantErr: "invalid clone.method",
		},
		{
			name:    "invalid max file size",
			modify:  func(c *Config) { c.Extract.MaxFileSize = "lots" },
			wantErr: "invalid extract.max_file_size",
		},
		{
			name:    "temperature out of range",
			modify:  func(c *Config) { c.Generation.Temperature = 3 },
			wantErr: "invalid generation.temperature",
		},
		{
			name: "builtin extractor keeps empty args",
			modify: func(c *Config) {
				c.Extract.Tool = ExtractToolBuiltin
				c.Extract.Args = nil
			},
			check: func(t *testing.T, c *Config) {
				assert.Empty(t, c.Extract.Args)
			},
		},
		{
			name:   "zero temperature stays zero",
			modify: func(c *Config) { c.Generation.Temperature = 0 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0.0, c.Generation.Temperature)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"10KB", 10 * 1024, false},
		{"10mb", 10 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"", 0, true},
		{"MB", 0, true},
		{"-5", 0, true},
		{"ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadFrom(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, DefaultTemperature, cfg.Generation.Temperature)
	assert.Equal(t, DefaultIncludePatterns, cfg.Extract.Include)
	assert.True(t, cfg.Extract.ConvertHTML)
	assert.Empty(t, cfg.Extract.ContentSelector)
	assert.False(t, cfg.Progress)
}

func TestLoadFrom_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvModel, "gemini-2.5-flash")
	t.Setenv(EnvRepoURL, "https://github.com/spf13/cobra")
	t.Setenv(EnvProjectName, "Cobra")
	t.Setenv(EnvDocsPath, "site/content")
	t.Setenv("CHEATSHEET_OUTPUT_DIRECTORY", "/tmp/sheets")

	cfg, err := LoadFrom(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Generation.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Generation.Model)
	assert.Equal(t, "https://github.com/spf13/cobra", cfg.Source.Repo)
	assert.Equal(t, "Cobra", cfg.Source.Name)
	assert.Equal(t, "site/content", cfg.Source.Path)
	assert.Equal(t, "/tmp/sheets", cfg.Output.Directory)
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "cheatsheet.yaml")
	content := `
output:
  directory: ./out
clone:
  method: go-git
extract:
  tool: builtin
  include: ["docs/**/*.md"]
generation:
  temperature: 0.7
  max_output_tokens: 8192
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "./out", cfg.Output.Directory)
	assert.Equal(t, CloneMethodGoGit, cfg.Clone.Method)
	assert.Equal(t, ExtractToolBuiltin, cfg.Extract.Tool)
	assert.Equal(t, []string{"docs/**/*.md"}, cfg.Extract.Include)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, 8192, cfg.Generation.MaxOutputTokens)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadFrom(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFrom_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHEATSHEET_CLONE_METHOD", "hg")

	_, err := LoadFrom(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid clone.method")
}

func TestConfigPaths(t *testing.T) {
	assert.Contains(t, ConfigDir(), ".cheatsheet")
	assert.Equal(t, filepath.Join(ConfigDir(), "config.yaml"), ConfigFilePath())
	assert.Contains(t, DefaultWorkspaceRoot(), "cheatsheet-workspaces")
}
