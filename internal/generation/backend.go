package generation

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
)

// Backend generates markdown from a prompt with one synchronous call.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// New returns the backend for cfg.Provider. An empty credential yields a
// backend that fails every call with ReasonMissingCredential before any
// client is constructed.
func New(cfg config.GenerationConfig, credential string) Backend {
	if strings.TrimSpace(credential) == "" {
		return &missingCredential{provider: string(cfg.Provider)}
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIBackend(cfg, credential)
	default:
		return NewGeminiBackend(cfg, credential)
	}
}

type missingCredential struct {
	provider string
}

func (m *missingCredential) Name() string { return m.provider }

func (m *missingCredential) Generate(context.Context, string) (string, error) {
	return "", errors.GenerationError(errors.ReasonMissingCredential, "no generation credential configured").
		WithContext("provider", m.provider).
		Build()
}

// normalize trims the candidate text and strips a fence wrapping the whole document.
func normalize(provider, text string) (string, error) {
	out := strings.TrimSpace(stripFence(strings.TrimSpace(text)))
	if out == "" {
		return "", emptyGeneration(provider, "backend returned blank text")
	}
	return out, nil
}

// stripFence removes an outer fence only when it wraps the whole document. A
// bare opening fence qualifies only if nothing between it and the closing fence
// is itself a fence line; a markdown or md fence may wrap balanced inner blocks.
func stripFence(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	first, last := lines[0], strings.TrimSpace(lines[len(lines)-1])
	if !strings.HasPrefix(first, "```") || last != "```" {
		return s
	}
	inner := 0
	for _, l := range lines[1 : len(lines)-1] {
		if strings.HasPrefix(l, "```") {
			inner++
		}
	}
	switch strings.ToLower(strings.TrimSpace(first[3:])) {
	case "":
		if inner > 0 {
			return s
		}
	case "markdown", "md":
		if inner%2 != 0 {
			return s
		}
	default:
		return s
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

func emptyGeneration(provider, msg string) error {
	return errors.GenerationError(errors.ReasonEmptyGeneration, msg).
		WithContext("provider", provider).
		Build()
}

func backendError(provider string, status int, body string, cause error) error {
	return errors.GenerationError(errors.ReasonBackendError, fmt.Sprintf("%s returned HTTP %d", provider, status)).
		WithCause(cause).
		WithContext("provider", provider).
		WithContext("status", status).
		WithContext("body", body).
		Build()
}

func networkError(provider string, cause error) error {
	return errors.GenerationError(errors.ReasonNetworkError, "generation request failed").
		WithCause(cause).
		WithContext("provider", provider).
		Build()
}
