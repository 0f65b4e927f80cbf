// Package pipeline wires the stages together: each stage reads the previous
// stage's JSON artifact from the data directory and writes its own, so any
// stage can be re-run in isolation.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/config"
	"github.com/twoyes/names-cli/internal/embed"
	"github.com/twoyes/names-cli/internal/enrich"
	"github.com/twoyes/names-cli/internal/fetcher"
	"github.com/twoyes/names-cli/internal/merge"
	"github.com/twoyes/names-cli/internal/model"
	"github.com/twoyes/names-cli/internal/parser"
	"github.com/twoyes/names-cli/internal/source"
	"github.com/twoyes/names-cli/internal/sqlgen"
	"github.com/twoyes/names-cli/pkg/anthropic"
	"github.com/twoyes/names-cli/pkg/openai"
)

// Pipeline runs the seed data stages against a shared configuration.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a pipeline.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, log: zap.L().With(zap.String("component", "pipeline"))}
}

func (p *Pipeline) artifact(name string) string {
	return filepath.Join(p.cfg.Data.Dir, name)
}

// Download fetches every configured source into the data directory.
func (p *Pipeline) Download(ctx context.Context) error {
	sources, err := source.LoadSources(p.cfg.Data.SourcesFile)
	if err != nil {
		return err
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	results := source.DownloadAll(ctx, f, p.cfg.Data.Dir, sources)
	fmt.Print(source.Summary(results))

	for _, r := range results {
		if r.Err != nil && ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "pipeline: download canceled")
		}
	}
	return nil
}

// Parse runs every country parser and writes the parsed-names and
// popularity artifacts. A parser returning no names leaves its country
// empty; a parser error stops the stage.
func (p *Pipeline) Parse(ctx context.Context) error {
	registry := parser.NewRegistry()

	parsed := &model.ParsedNames{}
	var popularity []model.PopularityEntry

	for _, pr := range registry.All() {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "pipeline: parse canceled")
		}

		result, err := pr.Parse(p.cfg.Data.Dir)
		if err != nil {
			return err
		}
		p.log.Info("country parsed",
			zap.String("parser", pr.Name()),
			zap.String("country", string(pr.Country())),
			zap.Int("names", len(result.Names)),
			zap.Int("popularity", len(result.Popularity)),
		)

		switch pr.Country() {
		case model.USA:
			parsed.US = result.Names
		case model.FRA:
			parsed.FR = result.Names
		case model.GBR:
			parsed.UK = result.Names
		case model.DEU:
			parsed.DE = result.Names
		case model.ESP:
			parsed.ES = result.Names
		case model.ITA:
			parsed.IT = result.Names
		}
		popularity = append(popularity, result.Popularity...)
	}

	if err := model.WriteJSON(p.artifact(model.ParsedFile), parsed); err != nil {
		return err
	}
	if err := model.WriteJSON(p.artifact(model.PopularityFile), popularity); err != nil {
		return err
	}

	p.log.Info("parse stage complete",
		zap.Int("us", len(parsed.US)),
		zap.Int("fr", len(parsed.FR)),
		zap.Int("uk", len(parsed.UK)),
		zap.Int("de", len(parsed.DE)),
		zap.Int("es", len(parsed.ES)),
		zap.Int("it", len(parsed.IT)),
		zap.Int("popularity_entries", len(popularity)),
	)
	return nil
}

// Merge combines the per-country lists into the merged-names artifact.
func (p *Pipeline) Merge() error {
	parsed, err := model.ReadJSON[*model.ParsedNames](p.artifact(model.ParsedFile))
	if err != nil {
		return eris.Wrap(err, "pipeline: merge needs parsed names, run parse first")
	}

	result := merge.Merge(parsed)
	if err := model.WriteJSON(p.artifact(model.MergedFile), result.Names); err != nil {
		return err
	}

	p.log.Info("merge stage complete",
		zap.Int("names", len(result.Names)),
		zap.Int("multi_country", result.MultiCountry),
	)
	return nil
}

// Enrich adds LLM metadata to every merged name, resuming from the
// checkpoint when one exists.
func (p *Pipeline) Enrich(ctx context.Context) error {
	if p.cfg.Anthropic.Key == "" {
		return eris.New("pipeline: anthropic.key is required for enrichment (set NAMES_ANTHROPIC_KEY)")
	}

	names, err := model.ReadJSON[[]model.MergedName](p.artifact(model.MergedFile))
	if err != nil {
		return eris.Wrap(err, "pipeline: enrich needs merged names, run merge first")
	}

	checkpoint, err := p.openCheckpoint()
	if err != nil {
		return err
	}
	defer checkpoint.Close()

	engine := enrich.NewEngine(anthropic.NewClient(p.cfg.Anthropic.Key), checkpoint, enrich.Config{
		Model:       p.cfg.Anthropic.Model,
		BatchSize:   p.cfg.Enrich.BatchSize,
		Concurrency: p.cfg.Enrich.Concurrency,
		MaxRetries:  p.cfg.Enrich.MaxRetries,
	})

	enriched, err := engine.Enrich(ctx, names)
	if err != nil {
		return err
	}

	if err := model.WriteJSON(p.artifact(model.EnrichedFile), enriched); err != nil {
		return err
	}
	p.log.Info("enrich stage complete", zap.Int("names", len(enriched)))
	return nil
}

func (p *Pipeline) openCheckpoint() (enrich.Checkpoint, error) {
	switch p.cfg.Checkpoint.Backend {
	case "sqlite":
		path := p.cfg.Checkpoint.Path
		if path == "" {
			path = p.artifact("enrichment-progress.db")
		}
		return enrich.OpenSQLiteCheckpoint(path)
	case "", "file":
		path := p.cfg.Checkpoint.Path
		if path == "" {
			path = p.artifact(model.ProgressFile)
		}
		return enrich.OpenFileCheckpoint(path)
	default:
		return nil, eris.Errorf("pipeline: unknown checkpoint backend %q", p.cfg.Checkpoint.Backend)
	}
}

// GenerateSQL renders the enriched names and popularity history as seed SQL.
func (p *Pipeline) GenerateSQL() error {
	enriched, err := model.ReadJSON[[]model.EnrichedName](p.artifact(model.EnrichedFile))
	if err != nil {
		return eris.Wrap(err, "pipeline: sql needs enriched names, run enrich first")
	}

	// Popularity is optional; names alone still produce a usable seed.
	popularity, err := model.ReadJSON[[]model.PopularityEntry](p.artifact(model.PopularityFile))
	if err != nil {
		p.log.Warn("no popularity artifact, generating names SQL only")
		popularity = nil
	}

	return sqlgen.Generate(enriched, popularity, p.cfg.Data.OutputDir)
}

// Embed backfills embedding vectors for database rows that lack one.
func (p *Pipeline) Embed(ctx context.Context) error {
	if p.cfg.Database.URL == "" {
		return eris.New("pipeline: database.url is required for embed (set NAMES_DATABASE_URL)")
	}
	if p.cfg.OpenAI.Key == "" {
		return eris.New("pipeline: openai.key is required for embed (set NAMES_OPENAI_KEY)")
	}

	pool, err := pgxpool.New(ctx, p.cfg.Database.URL)
	if err != nil {
		return eris.Wrap(err, "pipeline: create connection pool")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return eris.Wrap(err, "pipeline: ping database")
	}

	backfiller := embed.NewBackfiller(
		embed.NewPostgresStore(pool),
		openai.NewClient(p.cfg.OpenAI.Key),
		embed.Config{
			Model:     p.cfg.OpenAI.EmbeddingModel,
			BatchSize: p.cfg.Embed.BatchSize,
		},
	)
	return backfiller.Run(ctx)
}

// All runs download through SQL generation in order. Embed stays separate
// because it needs the SQL applied to a live database first.
func (p *Pipeline) All(ctx context.Context) error {
	if err := p.Download(ctx); err != nil {
		return err
	}
	if err := p.Parse(ctx); err != nil {
		return err
	}
	if err := p.Merge(); err != nil {
		return err
	}
	if err := p.Enrich(ctx); err != nil {
		return err
	}
	return p.GenerateSQL()
}
