package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/git"
	"git.home.luguber.info/inful/gitscriptor/internal/pipeline"
)

// summaryFile is written next to the generated documents.
const summaryFile = "summary.yaml"

// BatchCmd implements the 'batch' command.
type BatchCmd struct {
	File        string `arg:"" help:"YAML file listing repositories as {url, style} entries"`
	Concurrency int    `short:"j" help:"Concurrent runs; overrides batch.concurrency"`
	OutputDir   string `short:"o" name:"output-dir" help:"Directory for generated READMEs" default:"readmes"`
	Provider    string `help:"Generation provider (gemini or openai)"`
	Model       string `help:"Model name"`
}

// batchSummary is one summary.yaml entry.
type batchSummary struct {
	File        string             `yaml:"file"`
	URL         string             `yaml:"url"`
	Style       string             `yaml:"style"`
	Source      pipeline.Source    `yaml:"source"`
	FailedStage pipeline.StageName `yaml:"failed_stage,omitempty"`
	Reason      string             `yaml:"reason,omitempty"`
	WordCount   int                `yaml:"word_count"`
	Duration    string             `yaml:"duration"`
}

func (c *BatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := applyGenerationFlags(cfg, c.Provider, c.Model); err != nil {
		return err
	}

	reqs, err := LoadBatchFile(c.File)
	if err != nil {
		return err
	}
	concurrency := cfg.Batch.Concurrency
	if c.Concurrency > 0 {
		concurrency = c.Concurrency
	}

	results := root.NewGenerator(g, cfg).RunBatch(ctx, reqs, concurrency)

	names := OutputNames(results)
	summary := make([]batchSummary, len(results))
	fallbacks := 0
	for i, res := range results {
		if err := writeFile(filepath.Join(c.OutputDir, names[i]), []byte(res.Markdown)); err != nil {
			return err
		}
		summary[i] = batchSummary{
			File:        names[i],
			URL:         res.URL,
			Style:       string(res.Style),
			Source:      res.Source,
			FailedStage: res.FailedStage,
			Reason:      string(res.Reason),
			WordCount:   res.WordCount,
			Duration:    res.Duration.Round(time.Millisecond).String(),
		}
		if res.Fallback() {
			fallbacks++
		}
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode batch summary").Build()
	}
	if err := writeFile(filepath.Join(c.OutputDir, summaryFile), data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d READMEs to %s (%d generated, %d fallback)\n",
		len(results), c.OutputDir, len(results)-fallbacks, fallbacks)
	return nil
}

// LoadBatchFile reads a YAML list of requests. Entries without a URL are rejected.
func LoadBatchFile(path string) ([]pipeline.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to read batch file").
			WithContext("path", path).
			Build()
	}
	var reqs []pipeline.Request
	if err := yaml.Unmarshal(data, &reqs); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse batch file").
			WithContext("path", path).
			Build()
	}
	for i, r := range reqs {
		if strings.TrimSpace(r.URL) == "" {
			return nil, errors.ValidationError(fmt.Sprintf("batch entry %d has no url", i+1)).
				WithContext("path", path).
				Build()
		}
	}
	return reqs, nil
}

// OutputNames assigns every result a distinct file name derived from its
// repository name and style.
func OutputNames(results []*pipeline.Result) []string {
	names := make([]string, len(results))
	seen := map[string]int{}
	for i, res := range results {
		base := fmt.Sprintf("%s-%s", git.RepoNameFromURL(res.URL), res.Style)
		seen[base]++
		if n := seen[base]; n > 1 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		names[i] = base + ".md"
	}
	return names
}
