package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
	"git.home.luguber.info/inful/gitscriptor/internal/pipeline"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	URL             string `arg:"" help:"Repository URL or local path"`
	Style           string `short:"s" help:"README style (classic, minimal, comprehensive, modern)" default:"classic"`
	Output          string `short:"o" help:"Output file; '-' writes to stdout" default:"README.md"`
	Provider        string `help:"Generation provider (gemini or openai); overrides generation.provider"`
	Model           string `help:"Model name; overrides generation.model"`
	APIKey          string `name:"api-key" help:"Generation credential; defaults to GEMINI_API_KEY or OPENAI_API_KEY"`
	RequireGenerate bool   `name:"require-generated" help:"Exit with an error when the fallback document had to be used"`
}

func (c *GenerateCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := applyGenerationFlags(cfg, c.Provider, c.Model); err != nil {
		return err
	}

	res := root.NewGenerator(g, cfg).Run(ctx, pipeline.Request{URL: c.URL, Style: c.Style, Credential: c.APIKey})
	if err := writeDocument(c.Output, res.Markdown); err != nil {
		return err
	}
	if c.Output != "-" {
		fmt.Fprintf(os.Stderr, "Wrote %s README (%s, %d words) to %s\n", res.Style, res.Source, res.WordCount, c.Output)
	}
	if c.RequireGenerate && res.Fallback() {
		return errors.GenerationError(res.Reason, "generation failed; fallback document written").
			WithCause(res.Err).
			WithContext("stage", string(res.FailedStage)).
			Build()
	}
	return nil
}

// applyGenerationFlags overrides the provider and model from flags and
// re-validates, so a flag-supplied provider is normalized like a configured one.
// Switching provider without --model swaps a default model for the new default.
func applyGenerationFlags(cfg *config.Config, provider, model string) error {
	g := &cfg.Generation
	if provider != "" {
		previous := g.Provider
		g.Provider = config.Provider(provider)
		if err := config.Validate(cfg); err != nil {
			return err
		}
		if model == "" && g.Provider != previous && g.Model == config.DefaultModel(previous) {
			g.Model = config.DefaultModel(g.Provider)
		}
	}
	if model != "" {
		g.Model = model
	}
	return nil
}

func writeDocument(output, markdown string) error {
	if output == "-" {
		_, err := fmt.Fprint(os.Stdout, markdown)
		return err
	}
	if err := writeFile(output, []byte(markdown)); err != nil {
		return err
	}
	slog.Debug("README written", logfields.Path(output))
	return nil
}
