package commands

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
)

// AnalyzeCmd implements the 'analyze' command.
type AnalyzeCmd struct {
	URL string `arg:"" help:"Repository URL or local path"`
}

func (c *AnalyzeCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	res, err := root.NewGenerator(g, cfg).Analyze(ctx, c.URL)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode analysis").Build()
	}
	return enc.Close()
}
