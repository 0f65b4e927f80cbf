// Package embed backfills embedding vectors for names that do not have one
// yet, paging through the database and batching the embedding API calls.
package embed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/twoyes/names-cli/pkg/openai"
)

// Paging and pacing match the embedding API's batch limits.
const (
	DefaultBatchSize  = 100
	DefaultBatchDelay = 100 * time.Millisecond
	errorSleep        = time.Second
)

// Config controls the backfill loop.
type Config struct {
	Model      string
	BatchSize  int
	BatchDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = DefaultBatchDelay
	}
	return c
}

// Backfiller pages through names missing embeddings and fills them in.
type Backfiller struct {
	store    Store
	embedder openai.Embedder
	cfg      Config
	log      *zap.Logger
}

// NewBackfiller builds a backfiller; zero-value config fields get defaults.
func NewBackfiller(store Store, embedder openai.Embedder, cfg Config) *Backfiller {
	return &Backfiller{
		store:    store,
		embedder: embedder,
		cfg:      cfg.withDefaults(),
		log:      zap.L().With(zap.String("component", "embed")),
	}
}

// Run processes every name without an embedding. A failed embedding call
// marks the whole page failed and moves on; a failed database fetch stops
// the run. Pages advance past failed rows by id cursor, so every missing row
// gets exactly one attempt per run; failures stay unembedded for the next.
func (b *Backfiller) Run(ctx context.Context) error {
	total, err := b.store.CountMissing(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		b.log.Info("all names already have embeddings")
		return nil
	}
	b.log.Info("backfill starting", zap.Int("missing", total), zap.String("model", b.cfg.Model))

	processed := 0
	failed := 0
	cursor := ""

	for processed+failed < total {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rows, err := b.store.FetchMissing(ctx, cursor, b.cfg.BatchSize)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}
		cursor = rows[len(rows)-1].ID

		texts := make([]string, len(rows))
		for i, r := range rows {
			texts[i] = EmbeddingText(r)
		}

		vectors, err := b.embedder.CreateEmbeddings(ctx, texts, b.cfg.Model)
		if err != nil {
			b.log.Error("embedding batch failed", zap.Int("batch_size", len(rows)), zap.Error(err))
			failed += len(rows)
			if !sleepCtx(ctx, errorSleep) {
				return ctx.Err()
			}
			continue
		}

		for i, r := range rows {
			if i >= len(vectors) || len(vectors[i]) == 0 {
				failed++
				continue
			}
			if err := b.store.UpdateEmbedding(ctx, r.ID, vectors[i]); err != nil {
				b.log.Warn("update failed", zap.String("id", r.ID), zap.Error(err))
				failed++
				continue
			}
			processed++
		}

		b.log.Info("progress",
			zap.Int("processed", processed),
			zap.Int("failed", failed),
			zap.Int("total", total),
		)

		if !sleepCtx(ctx, b.cfg.BatchDelay) {
			return ctx.Err()
		}
	}

	b.log.Info("backfill complete", zap.Int("processed", processed), zap.Int("failed", failed))
	return nil
}

// EmbeddingText renders the text fed to the embedding model for one name.
func EmbeddingText(r NameRow) string {
	meaning := r.Meaning
	if meaning == "" {
		meaning = "Unknown"
	}
	return fmt.Sprintf("%s. Meaning: %s. Origins: %s. Style: %s",
		r.Name,
		meaning,
		strings.Join(r.Origins, ", "),
		strings.Join(r.Metadata.StyleTags, ", "),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
