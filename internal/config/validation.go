package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/normalization"
)

var providers = normalization.New("generation provider", map[string]Provider{
	string(ProviderGemini): ProviderGemini,
	string(ProviderOpenAI): ProviderOpenAI,
}, ProviderGemini)

// Validate checks a configuration after defaults have been applied. Provider
// names are normalized in place.
func Validate(cfg *Config) error {
	provider, err := providers.NormalizeWithValidation(string(cfg.Generation.Provider))
	if err != nil {
		return errors.ConfigError(fmt.Sprintf("unsupported generation provider %q", cfg.Generation.Provider)).
			WithCause(err).
			WithContext("allowed", strings.Join(providers.ValidValues(), ", ")).
			Build()
	}
	cfg.Generation.Provider = provider
	if p := cfg.Generation.SamplingTopP(); p <= 0 || p > 1 {
		return errors.ConfigError("generation.top_p must be within (0, 1]").
			WithContext("top_p", p).
			Build()
	}
	if t := cfg.Generation.SamplingTemperature(); t < 0 || t > 2 {
		return errors.ConfigError("generation.temperature must be within [0, 2]").
			WithContext("temperature", t).
			Build()
	}
	switch cfg.Generation.Retry.Backoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		return errors.ConfigError(fmt.Sprintf("unsupported generation.retry.backoff %q", cfg.Generation.Retry.Backoff)).
			WithContext("allowed", "fixed, linear, exponential").
			Build()
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		return errors.ConfigError(fmt.Sprintf("unsupported logging format %q", cfg.Logging.Format)).Build()
	}
	for _, dir := range cfg.Analysis.AllowedHiddenDirs {
		if !strings.HasPrefix(dir, ".") || strings.ContainsAny(dir, `/\`) {
			return errors.ConfigError(fmt.Sprintf("analysis.allowed_hidden_dirs entry %q must be a dotted directory name", dir)).Build()
		}
	}
	return nil
}
