package config

import (
	"strings"
	"time"
)

// Defaults mirrored from the hosted service.
const (
	DefaultFetchTimeout      = 30 * time.Second
	DefaultFetchDepth        = 1
	DefaultMaxDepth          = 3
	DefaultManifestMaxBytes  = 10_000
	DefaultReadmeMaxBytes    = 20_000
	DefaultMaxListedFiles    = 20
	DefaultSnippetChars      = 500
	DefaultGeminiModel       = "gemini-1.5-flash"
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultGenerationTimeout = 30 * time.Second
	DefaultTemperature       = 0.7
	DefaultTopK              = 40
	DefaultTopP              = 0.95
	DefaultMaxOutputTokens   = 2048
	DefaultBatchConcurrency  = 4
	DefaultRetryInitialDelay = time.Second
	DefaultRetryMaxDelay     = 10 * time.Second
)

// DefaultAllowedHiddenDirs lists dotted directories the analyzer still enters.
var DefaultAllowedHiddenDirs = []string{".github", ".gitlab", ".circleci", ".vscode"}

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider Provider) string {
	if strings.EqualFold(strings.TrimSpace(string(provider)), string(ProviderOpenAI)) {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// ApplyDefaults fills zero values with defaults. Explicit values are kept.
func ApplyDefaults(cfg *Config) {
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = DefaultFetchTimeout
	}
	if cfg.Fetch.Depth == 0 {
		cfg.Fetch.Depth = DefaultFetchDepth
	}

	if cfg.Analysis.MaxDepth <= 0 {
		cfg.Analysis.MaxDepth = DefaultMaxDepth
	}
	if cfg.Analysis.MaxFiles < 0 {
		cfg.Analysis.MaxFiles = 0
	}
	if cfg.Analysis.AllowedHiddenDirs == nil {
		cfg.Analysis.AllowedHiddenDirs = append([]string(nil), DefaultAllowedHiddenDirs...)
	}

	if cfg.Context.ManifestMaxBytes <= 0 {
		cfg.Context.ManifestMaxBytes = DefaultManifestMaxBytes
	}
	if cfg.Context.ReadmeMaxBytes <= 0 {
		cfg.Context.ReadmeMaxBytes = DefaultReadmeMaxBytes
	}

	if cfg.Prompt.MaxListedFiles <= 0 {
		cfg.Prompt.MaxListedFiles = DefaultMaxListedFiles
	}
	if cfg.Prompt.SnippetChars <= 0 {
		cfg.Prompt.SnippetChars = DefaultSnippetChars
	}

	g := &cfg.Generation
	if g.Provider == "" {
		g.Provider = ProviderGemini
	}
	if g.Model == "" {
		g.Model = DefaultModel(g.Provider)
	}
	if g.Timeout <= 0 {
		g.Timeout = DefaultGenerationTimeout
	}
	if g.Temperature == nil {
		t := float32(DefaultTemperature)
		g.Temperature = &t
	}
	if g.TopK <= 0 {
		g.TopK = DefaultTopK
	}
	if g.TopP == nil {
		p := float32(DefaultTopP)
		g.TopP = &p
	}
	if g.MaxOutputTokens <= 0 {
		g.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if g.Retry.MaxRetries < 0 {
		g.Retry.MaxRetries = 0
	}
	if g.Retry.Backoff == "" {
		g.Retry.Backoff = RetryBackoffLinear
	}
	if g.Retry.InitialDelay <= 0 {
		g.Retry.InitialDelay = DefaultRetryInitialDelay
	}
	if g.Retry.MaxDelay <= 0 {
		g.Retry.MaxDelay = DefaultRetryMaxDelay
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Batch.Concurrency <= 0 {
		cfg.Batch.Concurrency = DefaultBatchConcurrency
	}
}
