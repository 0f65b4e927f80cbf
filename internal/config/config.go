// Package config loads application configuration from file and environment
// and owns the global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data       DataConfig       `yaml:"data" mapstructure:"data"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Embed      EmbedConfig      `yaml:"embed" mapstructure:"embed"`
	Checkpoint CheckpointConfig `yaml:"checkpoint" mapstructure:"checkpoint"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the working directories and the optional source list
// override file.
type DataConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	SourcesFile string `yaml:"sources_file" mapstructure:"sources_file"`
}

// AnthropicConfig holds Anthropic API settings for enrichment.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// OpenAIConfig holds OpenAI API settings for embeddings.
type OpenAIConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model"`
}

// DatabaseConfig holds the connection string for the embedding backfill.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// EnrichConfig tunes the enrichment engine.
type EnrichConfig struct {
	BatchSize   int `yaml:"batch_size" mapstructure:"batch_size"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
}

// EmbedConfig tunes the embedding backfill.
type EmbedConfig struct {
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
}

// CheckpointConfig selects the enrichment checkpoint backend.
type CheckpointConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.output_dir", "output")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("enrich.batch_size", 20)
	v.SetDefault("enrich.concurrency", 5)
	v.SetDefault("enrich.max_retries", 3)
	v.SetDefault("embed.batch_size", 100)
	v.SetDefault("checkpoint.backend", "file")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
