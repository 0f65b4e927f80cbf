package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/twoyes/names-cli/internal/model"
	"github.com/twoyes/names-cli/internal/source"
)

// CheckResult is the outcome of one verification check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// Verify checks the pipeline artifacts for consistency and, when a database
// URL is configured, checks the seeded tables. It returns the individual
// results plus an error when any check failed.
func (p *Pipeline) Verify(ctx context.Context) ([]CheckResult, error) {
	var results []CheckResult
	add := func(name string, passed bool, format string, args ...any) {
		results = append(results, CheckResult{Name: name, Passed: passed, Message: fmt.Sprintf(format, args...)})
	}

	sources, err := source.LoadSources(p.cfg.Data.SourcesFile)
	if err != nil {
		add("source list", false, "%v", err)
	} else {
		var missing []string
		for _, s := range sources {
			target := filepath.Join(p.cfg.Data.Dir, s.Filename)
			if s.ExtractDir != "" {
				target = filepath.Join(p.cfg.Data.Dir, s.ExtractDir)
			}
			if _, statErr := os.Stat(target); statErr != nil {
				missing = append(missing, s.Name)
			}
		}
		if len(missing) == 0 {
			add("source data", true, "all %d source files present", len(sources))
		} else {
			add("source data", false, "missing: %s", strings.Join(missing, ", "))
		}
	}

	parsed, err := model.ReadJSON[*model.ParsedNames](p.artifact(model.ParsedFile))
	if err != nil {
		add("parsed artifact", false, "missing or unreadable: %v", err)
	} else {
		total := 0
		var empty []string
		for _, c := range model.MergeOrder {
			n := len(parsed.ByCountry(c))
			total += n
			if n == 0 {
				empty = append(empty, string(c))
			}
		}
		if len(empty) == 0 {
			add("parsed artifact", true, "%d names across all countries", total)
		} else {
			add("parsed artifact", total > 0, "%d names, no data for: %s", total, strings.Join(empty, ", "))
		}
	}

	merged, mergedErr := model.ReadJSON[[]model.MergedName](p.artifact(model.MergedFile))
	if mergedErr != nil {
		add("merged artifact", false, "missing or unreadable: %v", mergedErr)
	} else {
		dupes := 0
		seen := make(map[string]bool, len(merged))
		for _, m := range merged {
			if seen[m.NameNormalized] {
				dupes++
			}
			seen[m.NameNormalized] = true
		}
		add("merged artifact", dupes == 0, "%d names, %d duplicate keys", len(merged), dupes)
	}

	enriched, enrichedErr := model.ReadJSON[[]model.EnrichedName](p.artifact(model.EnrichedFile))
	if enrichedErr != nil {
		add("enriched artifact", false, "missing or unreadable: %v", enrichedErr)
	} else {
		withMeaning := 0
		for _, e := range enriched {
			if e.Meaning != "" {
				withMeaning++
			}
		}
		complete := mergedErr == nil && len(enriched) == len(merged)
		add("enriched artifact", complete, "%d names, %d with meanings", len(enriched), withMeaning)
	}

	if p.cfg.Database.URL != "" {
		results = append(results, p.verifyDatabase(ctx)...)
	}

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	if failed > 0 {
		return results, eris.Errorf("verify: %d of %d checks failed", failed, len(results))
	}
	return results, nil
}

func (p *Pipeline) verifyDatabase(ctx context.Context) []CheckResult {
	pool, err := pgxpool.New(ctx, p.cfg.Database.URL)
	if err != nil {
		return []CheckResult{{Name: "database connection", Passed: false, Message: err.Error()}}
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return []CheckResult{{Name: "database connection", Passed: false, Message: err.Error()}}
	}

	var results []CheckResult
	results = append(results, CheckResult{Name: "database connection", Passed: true, Message: "connected"})

	var total int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM public.names`).Scan(&total); err != nil {
		results = append(results, CheckResult{Name: "names table", Passed: false, Message: err.Error()})
		return results
	}
	results = append(results, CheckResult{
		Name:    "names table",
		Passed:  total > 0,
		Message: fmt.Sprintf("%d names seeded", total),
	})

	var embedded int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM public.names WHERE embedding IS NOT NULL`).Scan(&embedded); err != nil {
		results = append(results, CheckResult{Name: "embeddings", Passed: false, Message: err.Error()})
		return results
	}
	results = append(results, CheckResult{
		Name:    "embeddings",
		Passed:  total > 0 && embedded == total,
		Message: fmt.Sprintf("%d/%d names embedded", embedded, total),
	})

	var popularity int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM public.name_popularity`).Scan(&popularity); err != nil {
		results = append(results, CheckResult{Name: "popularity table", Passed: false, Message: err.Error()})
		return results
	}
	results = append(results, CheckResult{
		Name:    "popularity table",
		Passed:  popularity > 0,
		Message: fmt.Sprintf("%d popularity entries", popularity),
	})

	return results
}
