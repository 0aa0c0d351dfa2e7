package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name used by `gitscriptor init` and the CLI default.
const DefaultConfigFile = "gitscriptor.yaml"

// Config represents the application configuration.
type Config struct {
	Fetch      FetchConfig      `yaml:"fetch"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Context    ContextConfig    `yaml:"context"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Batch      BatchConfig      `yaml:"batch"`
}

// FetchConfig controls the shallow clone of the source repository.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	Depth        int           `yaml:"depth"`                   // negative = full history
	WorkspaceDir string        `yaml:"workspace_dir,omitempty"` // parent of per-run checkouts; empty = os.TempDir()
	Token        string        `yaml:"token,omitempty"`         // optional HTTPS token for private remotes
}

// AnalysisConfig bounds the structural walk.
type AnalysisConfig struct {
	MaxDepth          int      `yaml:"max_depth"`
	MaxFiles          int      `yaml:"max_files"` // 0 = unlimited
	AllowedHiddenDirs []string `yaml:"allowed_hidden_dirs"`
}

// ContextConfig caps the key files embedded into the prompt.
type ContextConfig struct {
	ManifestMaxBytes int64 `yaml:"manifest_max_bytes"`
	ReadmeMaxBytes   int64 `yaml:"readme_max_bytes"`
}

// PromptConfig bounds the rendered prompt independent of repository size.
type PromptConfig struct {
	MaxListedFiles int `yaml:"max_listed_files"`
	SnippetChars   int `yaml:"snippet_chars"`
}

// Provider names a generation backend implementation.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// GenerationConfig configures the generative text backend.
type GenerationConfig struct {
	Provider        Provider      `yaml:"provider"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	Temperature     *float32      `yaml:"temperature"` // nil = default; 0 is a valid explicit value
	TopK            float32       `yaml:"top_k"`
	TopP            *float32      `yaml:"top_p"`
	MaxOutputTokens int32         `yaml:"max_output_tokens"`
	BaseURL         string        `yaml:"base_url,omitempty"`
	APIKey          string        `yaml:"api_key,omitempty"` // usually left empty and taken from the environment
	Retry           RetryConfig   `yaml:"retry"`
}

// SamplingTemperature returns the configured temperature or DefaultTemperature when unset.
func (g GenerationConfig) SamplingTemperature() float32 {
	if g.Temperature == nil {
		return DefaultTemperature
	}
	return *g.Temperature
}

// SamplingTopP returns the configured nucleus sampling mass or DefaultTopP when unset.
func (g GenerationConfig) SamplingTopP() float32 {
	if g.TopP == nil {
		return DefaultTopP
	}
	return *g.TopP
}

// RetryBackoffMode selects how the delay between generation retries grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// RetryConfig controls retries of transient generation failures. Each attempt
// gets the full generation timeout; MaxRetries 0 disables retrying.
type RetryConfig struct {
	MaxRetries   int              `yaml:"max_retries"`
	Backoff      RetryBackoffMode `yaml:"backoff"`
	InitialDelay time.Duration    `yaml:"initial_delay"`
	MaxDelay     time.Duration    `yaml:"max_delay"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// BatchConfig controls `gitscriptor batch`.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Default returns a configuration populated with defaults and environment overrides.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

// Load loads configuration from the specified file. A missing file is not an error:
// defaults (plus environment overrides) are returned instead.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			// Expand environment variables in the YAML content
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates a new configuration file with default content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	cfg := &Config{}
	ApplyDefaults(cfg)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	header := "# GitScriptor configuration\n# Credentials are read from GEMINI_API_KEY / OPENAI_API_KEY when generation.api_key is empty.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
