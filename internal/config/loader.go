package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// LoadFrom loads configuration into cfg using v. When configFile is empty
// the default locations (~/.cheatsheet, current directory) are searched.
func LoadFrom(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Environment variables (CHEATSHEET_*)
	v.SetEnvPrefix("CHEATSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindEnv maps the unprefixed variables onto config keys. The prefixed
// form stays available as the first candidate.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("generation.api_key", "CHEATSHEET_GENERATION_API_KEY", EnvAPIKey)
	_ = v.BindEnv("generation.model", "CHEATSHEET_GENERATION_MODEL", EnvModel)
	_ = v.BindEnv("source.repo", "CHEATSHEET_SOURCE_REPO", EnvRepoURL)
	_ = v.BindEnv("source.name", "CHEATSHEET_SOURCE_NAME", EnvProjectName)
	_ = v.BindEnv("source.path", "CHEATSHEET_SOURCE_PATH", EnvDocsPath)
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("output.directory", DefaultOutputDir)
	v.SetDefault("sources.directory", DefaultSourcesDir)
	v.SetDefault("workspace.root", DefaultWorkspaceRoot())

	v.SetDefault("clone.method", DefaultCloneMethod)
	v.SetDefault("clone.depth", DefaultCloneDepth)

	v.SetDefault("extract.tool", DefaultExtractTool)
	v.SetDefault("extract.args", []string{DirPlaceholder})
	v.SetDefault("extract.include", DefaultIncludePatterns)
	v.SetDefault("extract.max_file_size", DefaultMaxFileSize)
	v.SetDefault("extract.convert_html", true)
	v.SetDefault("extract.content_selector", "")

	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.model", DefaultModel)
	v.SetDefault("generation.temperature", DefaultTemperature)
	v.SetDefault("generation.max_output_tokens", DefaultMaxOutputTokens)
	v.SetDefault("generation.heading_prefix", DefaultHeadingPrefix)

	v.SetDefault("source.repo", "")
	v.SetDefault("source.name", "")
	v.SetDefault("source.path", "")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("progress", false)
}
