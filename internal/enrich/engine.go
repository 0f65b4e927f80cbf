// Package enrich adds meanings, etymology, and style metadata to merged
// names by querying an LLM in checkpointed batches.
package enrich

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/twoyes/names-cli/internal/model"
	"github.com/twoyes/names-cli/internal/resilience"
	"github.com/twoyes/names-cli/pkg/anthropic"
)

// Defaults tuned against API rate limits; a batch of 20 names fits well
// within the output token limit.
const (
	DefaultBatchSize   = 20
	DefaultConcurrency = 5
	DefaultMaxRetries  = 3
	DefaultBatchDelay  = 200 * time.Millisecond

	maxOutputTokens = 4096
	temperature     = 0.3
)

// Config controls the enrichment engine.
type Config struct {
	Model       string
	BatchSize   int
	Concurrency int
	MaxRetries  int
	BatchDelay  time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = DefaultBatchDelay
	}
	return c
}

// Engine runs batched enrichment against the LLM with checkpoint resume.
type Engine struct {
	client     anthropic.Client
	checkpoint Checkpoint
	cfg        Config
	log        *zap.Logger
}

// NewEngine builds an engine; zero-value config fields get defaults.
func NewEngine(client anthropic.Client, checkpoint Checkpoint, cfg Config) *Engine {
	return &Engine{
		client:     client,
		checkpoint: checkpoint,
		cfg:        cfg.withDefaults(),
		log:        zap.L().With(zap.String("component", "enrich")),
	}
}

// Enrich returns one EnrichedName per input name, in input order. Names
// already present in the checkpoint are not re-queried. A batch that fails
// all its retries is skipped; its names come back with empty enrichment
// fields rather than failing the run.
func (e *Engine) Enrich(ctx context.Context, names []model.MergedName) ([]model.EnrichedName, error) {
	cached := e.checkpoint.Len()
	if cached > 0 {
		e.log.Info("resuming from checkpoint", zap.Int("already_enriched", cached))
	}

	var remaining []model.MergedName
	for _, n := range names {
		if _, ok := e.checkpoint.Get(n.NameNormalized); !ok {
			remaining = append(remaining, n)
		}
	}
	e.log.Info("enrichment starting",
		zap.Int("to_enrich", len(remaining)),
		zap.Int("cached", cached),
		zap.String("model", e.cfg.Model),
	)

	var batches [][]model.MergedName
	for i := 0; i < len(remaining); i += e.cfg.BatchSize {
		end := min(i+e.cfg.BatchSize, len(remaining))
		batches = append(batches, remaining[i:end])
	}

	var usage anthropic.TokenUsage
	processed := cached

	for i := 0; i < len(batches); i += e.cfg.Concurrency {
		groupEnd := min(i+e.cfg.Concurrency, len(batches))
		group := batches[i:groupEnd]

		g, gctx := errgroup.WithContext(ctx)
		results := make([][]EnrichmentResult, len(group))
		usages := make([]anthropic.TokenUsage, len(group))
		for j, batch := range group {
			g.Go(func() error {
				results[j], usages[j] = e.enrichBatch(gctx, batch)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "enrich: canceled")
		}

		for j, batchResults := range results {
			usage.Add(usages[j])
			for _, r := range batchResults {
				if r.Name == "" {
					continue
				}
				e.checkpoint.Set(model.Normalize(r.Name), r)
			}
			processed += len(group[j])
		}

		if err := e.checkpoint.Persist(); err != nil {
			return nil, err
		}
		e.log.Info("progress",
			zap.Int("processed", min(processed, len(names))),
			zap.Int("total", len(names)),
		)

		select {
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), "enrich: canceled")
		case <-time.After(e.cfg.BatchDelay):
		}
	}

	usage.LogCost(e.cfg.Model, "enrich")

	enriched := make([]model.EnrichedName, 0, len(names))
	withMeaning := 0
	for _, n := range names {
		r, _ := e.checkpoint.Get(n.NameNormalized)
		en := model.EnrichedName{
			MergedName:       n,
			Meaning:          r.Meaning,
			Etymology:        r.Etymology,
			Origins:          r.Origins,
			PronunciationIPA: r.PronunciationIPA,
			Metadata: model.NameMetadata{
				StyleTags:    r.StyleTags,
				Syllables:    r.Syllables,
				FamousPeople: r.FamousPeople,
			},
		}
		if en.Origins == nil {
			en.Origins = []string{}
		}
		if en.Metadata.StyleTags == nil {
			en.Metadata.StyleTags = []string{}
		}
		if en.Metadata.FamousPeople == nil {
			en.Metadata.FamousPeople = []string{}
		}
		if en.Meaning != "" {
			withMeaning++
		}
		enriched = append(enriched, en)
	}

	e.log.Info("enrichment complete",
		zap.Int("with_meaning", withMeaning),
		zap.Int("total", len(enriched)),
	)
	return enriched, nil
}

// enrichBatch queries one batch with retries. Exhausted retries degrade to
// an empty result so the remaining batches keep flowing.
func (e *Engine) enrichBatch(ctx context.Context, batch []model.MergedName) ([]EnrichmentResult, anthropic.TokenUsage) {
	var usage anthropic.TokenUsage
	results, err := resilience.DoVal(ctx, resilience.RetryConfig{
		MaxAttempts:    e.cfg.MaxRetries,
		InitialBackoff: 2 * time.Second,
		Multiplier:     2,
		OnRetry:        resilience.RetryLogger("anthropic", "enrich batch"),
	}, func(ctx context.Context) ([]EnrichmentResult, error) {
		return e.callModel(ctx, batch, &usage)
	})
	if err != nil {
		e.log.Error("batch failed after retries",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		return nil, usage
	}
	return results, usage
}

func (e *Engine) callModel(ctx context.Context, batch []model.MergedName, usage *anthropic.TokenUsage) ([]EnrichmentResult, error) {
	temp := temperature
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.cfg.Model,
		MaxTokens:   maxOutputTokens,
		Temperature: &temp,
		System:      []anthropic.SystemBlock{{Text: systemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(batch)},
		},
	})
	if err != nil {
		return nil, err
	}
	usage.Add(resp.Usage)

	return parseResults(resp.Text())
}

// parseResults decodes the model's JSON answer, accepting the results under
// a "names" or "results" key or as the values of a bare object, and
// stripping a markdown code fence if one slipped in.
func parseResults(text string) ([]EnrichmentResult, error) {
	text = stripCodeFence(text)

	var wrapper struct {
		Names   []EnrichmentResult `json:"names"`
		Results []EnrichmentResult `json:"results"`
	}
	if err := json.Unmarshal([]byte(text), &wrapper); err == nil {
		if len(wrapper.Names) > 0 {
			return wrapper.Names, nil
		}
		if len(wrapper.Results) > 0 {
			return wrapper.Results, nil
		}
	}

	var asList []EnrichmentResult
	if err := json.Unmarshal([]byte(text), &asList); err == nil {
		return asList, nil
	}

	var asMap map[string]EnrichmentResult
	if err := json.Unmarshal([]byte(text), &asMap); err == nil {
		out := make([]EnrichmentResult, 0, len(asMap))
		for _, r := range asMap {
			out = append(out, r)
		}
		return out, nil
	}

	return nil, eris.New("enrich: response is not valid JSON")
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
