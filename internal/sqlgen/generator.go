// Package sqlgen renders enriched names and popularity history as
// idempotent upsert SQL, chunked so each statement stays a manageable size.
package sqlgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/model"
)

// ChunkSize is the number of value rows per INSERT statement.
const ChunkSize = 100

// Output filenames; popularity must run after names so the JOIN resolves.
const (
	NamesFile      = "01-names.sql"
	PopularityFile = "02-popularity.sql"
)

// Generate writes the seed SQL files into outputDir.
func Generate(names []model.EnrichedName, popularity []model.PopularityEntry, outputDir string) error {
	log := zap.L().With(zap.String("component", "sqlgen"))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return eris.Wrapf(err, "sqlgen: create %s", outputDir)
	}

	namesPath := filepath.Join(outputDir, NamesFile)
	namesSQL := renderNames(names)
	if err := os.WriteFile(namesPath, []byte(namesSQL), 0o644); err != nil {
		return eris.Wrapf(err, "sqlgen: write %s", namesPath)
	}
	log.Info("names SQL written",
		zap.String("file", NamesFile),
		zap.Int("names", len(names)),
		zap.Int("bytes", len(namesSQL)),
	)

	if len(popularity) > 0 {
		popPath := filepath.Join(outputDir, PopularityFile)
		popSQL := renderPopularity(popularity)
		if err := os.WriteFile(popPath, []byte(popSQL), 0o644); err != nil {
			return eris.Wrapf(err, "sqlgen: write %s", popPath)
		}
		log.Info("popularity SQL written",
			zap.String("file", PopularityFile),
			zap.Int("entries", len(popularity)),
			zap.Int("bytes", len(popSQL)),
		)
	}

	return nil
}

func renderNames(names []model.EnrichedName) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Generated seed data: %d names\n", len(names))
	fmt.Fprintf(&b, "-- Run with: psql $DB_URL -f output/%s\n\n", NamesFile)

	for i := 0; i < len(names); i += ChunkSize {
		end := min(i+ChunkSize, len(names))
		chunk := names[i:end]

		rows := make([]string, len(chunk))
		for j, n := range chunk {
			rows[j] = buildNameRow(n)
		}

		b.WriteString(`INSERT INTO public.names (name, name_normalized, gender, origins, meaning, etymology, pronunciation_ipa, popularity_rank_us, popularity_rank_uk, popularity_rank_fr, popularity_rank_de, popularity_rank_es, popularity_rank_it, popularity_trend, rarity_score, metadata)
VALUES
`)
		b.WriteString(strings.Join(rows, ",\n"))
		b.WriteString(`
ON CONFLICT (name_normalized) DO UPDATE SET
  popularity_rank_us = COALESCE(EXCLUDED.popularity_rank_us, names.popularity_rank_us),
  popularity_rank_uk = COALESCE(EXCLUDED.popularity_rank_uk, names.popularity_rank_uk),
  popularity_rank_fr = COALESCE(EXCLUDED.popularity_rank_fr, names.popularity_rank_fr),
  popularity_rank_de = COALESCE(EXCLUDED.popularity_rank_de, names.popularity_rank_de),
  popularity_rank_es = COALESCE(EXCLUDED.popularity_rank_es, names.popularity_rank_es),
  popularity_rank_it = COALESCE(EXCLUDED.popularity_rank_it, names.popularity_rank_it),
  meaning = COALESCE(EXCLUDED.meaning, names.meaning),
  etymology = COALESCE(EXCLUDED.etymology, names.etymology),
  pronunciation_ipa = COALESCE(EXCLUDED.pronunciation_ipa, names.pronunciation_ipa),
  origins = CASE WHEN array_length(EXCLUDED.origins, 1) > 0 THEN EXCLUDED.origins ELSE names.origins END,
  metadata = names.metadata || EXCLUDED.metadata,
  popularity_trend = EXCLUDED.popularity_trend,
  rarity_score = EXCLUDED.rarity_score,
  updated_at = NOW();

`)
	}

	return b.String()
}

// buildNameRow renders one VALUES tuple in the column order of the INSERT.
// Note the rank column order is us, uk, fr, de, es, it.
func buildNameRow(n model.EnrichedName) string {
	origins := make([]string, len(n.Origins))
	for i, o := range n.Origins {
		origins[i] = escapeSQL(o)
	}
	originsLit := "{" + strings.Join(origins, ",") + "}"

	metadataJSON, _ := json.Marshal(n.Metadata)
	metadata := strings.ReplaceAll(string(metadataJSON), "'", "''")

	bestRank := n.BestRank()

	return fmt.Sprintf("('%s', '%s', '%s', '%s', %s, %s, %s, %s, %s, %s, %s, %s, %s, '%s', %s, '%s'::jsonb)",
		escapeSQL(n.Name),
		escapeSQL(n.NameNormalized),
		n.Gender,
		originsLit,
		textOrNull(n.Meaning),
		textOrNull(n.Etymology),
		textOrNull(n.PronunciationIPA),
		rankOrNull(n.RankUS),
		rankOrNull(n.RankUK),
		rankOrNull(n.RankFR),
		rankOrNull(n.RankDE),
		rankOrNull(n.RankES),
		rankOrNull(n.RankIT),
		trendFor(bestRank),
		rarityFor(bestRank),
		metadata,
	)
}

func renderPopularity(popularity []model.PopularityEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Generated popularity data: %d entries\n", len(popularity))
	fmt.Fprintf(&b, "-- Run after %s\n\n", NamesFile)

	for i := 0; i < len(popularity); i += ChunkSize {
		end := min(i+ChunkSize, len(popularity))
		chunk := popularity[i:end]

		rows := make([]string, len(chunk))
		for j, p := range chunk {
			rank := "NULL"
			if p.Rank != nil {
				rank = fmt.Sprintf("%d", *p.Rank)
			}
			rows[j] = fmt.Sprintf("  ('%s', %d, '%s', %s, %d)",
				escapeSQL(p.NameNormalized), p.Year, p.Country, rank, p.Count)
		}

		b.WriteString(`INSERT INTO public.name_popularity (name_id, year, country, rank, count)
SELECT n.id, v.year, v.country, v.rank, v.count
FROM (VALUES
`)
		b.WriteString(strings.Join(rows, ",\n"))
		b.WriteString(`
) AS v(name_normalized, year, country, rank, count)
JOIN public.names n ON n.name_normalized = v.name_normalized
ON CONFLICT (name_id, year, country) DO UPDATE SET
  rank = EXCLUDED.rank,
  count = EXCLUDED.count;

`)
	}

	return b.String()
}

// rarityFor buckets a best-across-countries rank into a rarity score.
func rarityFor(bestRank int) string {
	switch {
	case bestRank <= 10:
		return "0.05"
	case bestRank <= 50:
		return "0.10"
	case bestRank <= 100:
		return "0.15"
	case bestRank <= 500:
		return "0.25"
	case bestRank <= 1000:
		return "0.35"
	case bestRank <= 2000:
		return "0.50"
	default:
		return "0.70"
	}
}

// trendFor is a coarse trend signal derived from the best rank alone.
func trendFor(bestRank int) string {
	switch {
	case bestRank <= 100:
		return "rising"
	case bestRank > 3000:
		return "falling"
	default:
		return "stable"
	}
}

// escapeSQL doubles single quotes for a SQL string literal.
func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func textOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func rankOrNull(r *int) string {
	if r == nil {
		return "NULL"
	}
	return fmt.Sprintf("%d", *r)
}
