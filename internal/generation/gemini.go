package generation

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
)

// GeminiBackend calls the Gemini generateContent API through the official genai client.
type GeminiBackend struct {
	cfg    config.GenerationConfig
	apiKey string
}

// NewGeminiBackend creates a Gemini backend. No client is constructed until Generate.
func NewGeminiBackend(cfg config.GenerationConfig, apiKey string) *GeminiBackend {
	if cfg.Model == "" {
		cfg.Model = config.DefaultGeminiModel
	}
	return &GeminiBackend{cfg: cfg, apiKey: apiKey}
}

func (g *GeminiBackend) Name() string { return "gemini:" + g.cfg.Model }

// Generate issues one GenerateContent call bounded by the configured timeout.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	clientCfg := &genai.ClientConfig{APIKey: g.apiKey, Backend: genai.BackendGeminiAPI}
	if g.cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", networkError("gemini", err)
	}

	start := time.Now()
	resp, err := cli.Models.GenerateContent(ctx, g.cfg.Model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(g.cfg.SamplingTemperature()),
			TopK:            genai.Ptr(g.cfg.TopK),
			TopP:            genai.Ptr(g.cfg.SamplingTopP()),
			MaxOutputTokens: g.cfg.MaxOutputTokens,
		},
	)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	slog.Debug("Gemini call completed", logfields.Model(g.cfg.Model), logfields.Elapsed(time.Since(start)))

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", emptyGeneration("gemini", "no candidates returned")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return normalize("gemini", sb.String())
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if stdErrors.As(err, &apiErr) {
		return backendError("gemini", apiErr.Code, apiErr.Message, err)
	}
	var apiErrPtr *genai.APIError
	if stdErrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return backendError("gemini", apiErrPtr.Code, apiErrPtr.Message, err)
	}
	return networkError("gemini", err)
}
