package parser

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/model"
)

// INSEE recency window for the current ranking and the historical span.
const (
	inseeAggFrom     = 2017
	inseeAggTo       = 2021
	inseeHistoryFrom = 2012
)

// inseeGender maps the INSEE sexe codes.
var inseeGender = map[string]model.Gender{
	"1": model.Male,
	"2": model.Female,
}

// INSEE parses the France INSEE prenoms national file, a semicolon-delimited
// export spanning all birth years since 1900.
type INSEE struct{}

func (p *INSEE) Name() string           { return "insee" }
func (p *INSEE) Country() model.Country { return model.FRA }

type inseeRecord struct {
	name   string
	gender model.Gender
	year   int
	count  int
}

func (p *INSEE) Parse(dataDir string) (*model.ParseResult, error) {
	log := zap.L().With(zap.String("parser", "insee"))

	content, err := p.readFile(filepath.Join(dataDir, "insee"))
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	header := strings.ToLower(lines[0])
	sep := "\t"
	if strings.Contains(header, ";") {
		sep = ";"
	}

	var records []inseeRecord
	skipped := 0
	for _, line := range lines[1:] {
		parts := strings.Split(line, sep)
		if len(parts) < 4 {
			continue
		}

		gender, ok := inseeGender[strings.TrimSpace(parts[0])]
		if !ok {
			continue
		}

		name := strings.TrimSpace(parts[1])
		// Aggregate rows for rare names carry a sentinel instead of a name.
		if name == "_PRENOMS_RARES" || name == "" || name == "XXXX" {
			skipped++
			continue
		}

		year, err1 := strconv.Atoi(strings.TrimSpace(parts[2]))
		count, err2 := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err1 != nil || err2 != nil {
			continue
		}

		records = append(records, inseeRecord{name, gender, year, count})
	}
	log.Info("records parsed", zap.Int("records", len(records)), zap.Int("skipped", skipped))

	// Sum counts per name+gender over the recency window.
	type agg struct {
		name   string
		gender model.Gender
		total  int
	}
	aggregated := make(map[string]*agg)
	var aggOrder []string
	for _, rec := range records {
		if rec.year < inseeAggFrom || rec.year > inseeAggTo {
			continue
		}
		key := model.Normalize(rec.name) + "_" + string(rec.gender)
		if existing, ok := aggregated[key]; ok {
			existing.total += rec.count
			if len(rec.name) > len(existing.name) {
				existing.name = rec.name
			}
		} else {
			aggregated[key] = &agg{name: rec.name, gender: rec.gender, total: rec.count}
			aggOrder = append(aggOrder, key)
		}
	}

	var females, males []model.RawName
	for _, key := range aggOrder {
		a := aggregated[key]
		entry := model.RawName{
			Name:           model.Capitalize(a.name),
			NameNormalized: model.Normalize(a.name),
			Gender:         a.gender,
			Count:          a.total,
			Country:        model.FRA,
		}
		if a.gender == model.Female {
			females = append(females, entry)
		} else {
			males = append(males, entry)
		}
	}

	females = rankAndCap(females)
	males = rankAndCap(males)
	all := append(append([]model.RawName{}, females...), males...)
	log.Info("selected names", zap.Int("female", len(females)), zap.Int("male", len(males)))

	popularity := p.history(records, normalizedSet(all))
	log.Info("popularity entries generated", zap.Int("entries", len(popularity)))

	return &model.ParseResult{Names: all, Popularity: popularity}, nil
}

// readFile locates the INSEE CSV in the extracted archive directory.
func (p *INSEE) readFile(inseeDir string) (string, error) {
	entries, err := os.ReadDir(inseeDir)
	if err != nil {
		return "", eris.Wrapf(err, "insee: read dir %s", inseeDir)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	for _, n := range names {
		if strings.HasSuffix(n, ".csv") && strings.HasPrefix(n, "nat") {
			data, err := os.ReadFile(filepath.Join(inseeDir, n))
			if err != nil {
				return "", eris.Wrapf(err, "insee: read %s", n)
			}
			return string(data), nil
		}
	}
	for _, n := range names {
		if strings.HasSuffix(n, ".csv") {
			data, err := os.ReadFile(filepath.Join(inseeDir, n))
			if err != nil {
				return "", eris.Wrapf(err, "insee: read %s", n)
			}
			return string(data), nil
		}
	}

	return "", eris.Errorf("insee: no CSV file found in %s (files: %s)", inseeDir, strings.Join(names, ", "))
}

// history re-ranks each year in the historical span per gender by count.
func (p *INSEE) history(records []inseeRecord, selected map[string]bool) []model.PopularityEntry {
	var popularity []model.PopularityEntry

	for year := inseeHistoryFrom; year <= inseeAggTo; year++ {
		var females, males []inseeRecord
		for _, rec := range records {
			if rec.year != year {
				continue
			}
			if rec.gender == model.Female {
				females = append(females, rec)
			} else {
				males = append(males, rec)
			}
		}

		for _, group := range [][]inseeRecord{females, males} {
			sort.SliceStable(group, func(i, j int) bool { return group[i].count > group[j].count })
			for i, rec := range group {
				norm := model.Normalize(rec.name)
				if !selected[norm] {
					continue
				}
				popularity = append(popularity, model.PopularityEntry{
					NameNormalized: norm,
					Year:           year,
					Country:        model.FRA,
					Rank:           intPtr(i + 1),
					Count:          rec.count,
				})
			}
		}
	}

	return popularity
}
