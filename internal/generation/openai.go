package generation

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
)

// OpenAIBackend calls an OpenAI-compatible chat completions endpoint.
type OpenAIBackend struct {
	cfg  config.GenerationConfig
	opts []option.RequestOption
}

// NewOpenAIBackend creates an OpenAI backend with SDK retries disabled.
func NewOpenAIBackend(cfg config.GenerationConfig, apiKey string) *OpenAIBackend {
	if cfg.Model == "" || cfg.Model == config.DefaultGeminiModel {
		cfg.Model = config.DefaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAIBackend{cfg: cfg, opts: opts}
}

func (o *OpenAIBackend) Name() string { return "openai:" + o.cfg.Model }

// Generate issues one chat completion bounded by the configured timeout.
func (o *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	client := openai.NewClient(o.opts...)
	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.cfg.Model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(float64(o.cfg.SamplingTemperature())),
		TopP:        openai.Float(float64(o.cfg.SamplingTopP())),
		MaxTokens:   openai.Int(int64(o.cfg.MaxOutputTokens)),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	slog.Debug("OpenAI call completed", logfields.Model(o.cfg.Model), logfields.Elapsed(time.Since(start)))

	if len(resp.Choices) == 0 {
		return "", emptyGeneration("openai", "no choices returned")
	}
	return normalize("openai", resp.Choices[0].Message.Content)
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if stdErrors.As(err, &apiErr) && apiErr != nil {
		body := apiErr.RawJSON()
		if body == "" {
			body = apiErr.Message
		}
		if body == "" {
			body = apiErr.Error()
		}
		return backendError("openai", apiErr.StatusCode, body, err)
	}
	return networkError("openai", err)
}
