package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted after the config file is parsed.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvProvider     = "GITSCRIPTOR_PROVIDER"
	EnvModel        = "GITSCRIPTOR_MODEL"
	EnvGitToken     = "GITSCRIPTOR_GIT_TOKEN"
)

// loadEnvFiles loads .env and .env.local when present. Existing process
// environment variables are never overwritten.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load env file", slog.String("path", envPath), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", envPath))
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvProvider)); v != "" {
		cfg.Generation.Provider = Provider(strings.ToLower(v))
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.Generation.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGitToken)); v != "" && cfg.Fetch.Token == "" {
		cfg.Fetch.Token = v
	}
}

// Credential returns the API key for the configured provider: the explicit
// generation.api_key wins, otherwise the provider's environment variable.
// An empty result means generation will short-circuit to the fallback.
func (c *Config) Credential() string {
	if key := strings.TrimSpace(c.Generation.APIKey); key != "" {
		return key
	}
	return CredentialFromEnv(c.Generation.Provider)
}

// CredentialFromEnv reads the API key environment variable for a provider.
func CredentialFromEnv(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return strings.TrimSpace(os.Getenv(EnvOpenAIAPIKey))
	default:
		return strings.TrimSpace(os.Getenv(EnvGeminiAPIKey))
	}
}
