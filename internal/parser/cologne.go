package parser

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/fetcher"
	"github.com/twoyes/names-cli/internal/model"
)

// cologneAggFrom is the first year included in the current-ranking aggregate.
const cologneAggFrom = 2020

// cologneGender maps the Cologne open-data geschlecht codes.
var cologneGender = map[string]model.Gender{
	"m": model.Male,
	"w": model.Female,
}

// Cologne parses the City of Cologne open-data first-name statistics, the
// proxy source for Germany. Rows carry a position field; only position 1
// (first given name) feeds the ranking.
type Cologne struct{}

func (p *Cologne) Name() string           { return "cologne" }
func (p *Cologne) Country() model.Country { return model.DEU }

type cologneRecord struct {
	year     int
	name     string
	count    int
	gender   model.Gender
	position int
}

func (p *Cologne) Parse(dataDir string) (*model.ParseResult, error) {
	log := zap.L().With(zap.String("parser", "cologne"))

	var records []cologneRecord
	if path := filepath.Join(dataDir, "vornamen_koeln_2019_2022.csv"); fileExists(path) {
		parsed, err := p.parseFile(path, 0)
		if err != nil {
			return nil, err
		}
		records = append(records, parsed...)
		log.Info("2019-2022 file parsed", zap.Int("records", len(parsed)))
	}
	if path := filepath.Join(dataDir, "vornamen_koeln_2023.csv"); fileExists(path) {
		parsed, err := p.parseFile(path, 2023)
		if err != nil {
			return nil, err
		}
		records = append(records, parsed...)
		log.Info("2023 file parsed", zap.Int("records", len(parsed)))
	}

	if len(records) == 0 {
		log.Warn("no Cologne data files found, skipping Germany")
		return &model.ParseResult{}, nil
	}

	// Only first given names feed the ranking.
	var firstNames []cologneRecord
	for _, r := range records {
		if r.position == 1 {
			firstNames = append(firstNames, r)
		}
	}

	type agg struct {
		name   string
		gender model.Gender
		total  int
	}
	aggregated := make(map[string]*agg)
	var aggOrder []string
	for _, rec := range firstNames {
		if rec.year < cologneAggFrom {
			continue
		}
		key := model.Normalize(rec.name) + "_" + string(rec.gender)
		if existing, ok := aggregated[key]; ok {
			existing.total += rec.count
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
			Country:        model.DEU,
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

	popularity := p.history(firstNames, normalizedSet(all))
	log.Info("popularity entries generated", zap.Int("entries", len(popularity)))

	return &model.ParseResult{Names: all, Popularity: popularity}, nil
}

// parseFile reads one semicolon-delimited Cologne CSV. defaultYear applies
// when the file lacks a jahr column (the single-year 2023 release).
func (p *Cologne) parseFile(path string, defaultYear int) ([]cologneRecord, error) {
	rows, err := fetcher.ReadCSVFile(path, fetcher.CSVOptions{Delimiter: ';', TrimSpace: true, LazyQuotes: true})
	if err != nil {
		return nil, eris.Wrapf(err, "cologne: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	jahrIdx, vornameIdx, anzahlIdx, geschlechtIdx, positionIdx := -1, -1, -1, -1, -1
	for i, col := range rows[0] {
		switch strings.ToLower(col) {
		case "jahr":
			jahrIdx = i
		case "vorname":
			vornameIdx = i
		case "anzahl":
			anzahlIdx = i
		case "geschlecht":
			geschlechtIdx = i
		case "position":
			positionIdx = i
		}
	}

	var records []cologneRecord
	for _, parts := range rows[1:] {
		if len(parts) < 3 || geschlechtIdx < 0 || geschlechtIdx >= len(parts) {
			continue
		}

		gender, ok := cologneGender[parts[geschlechtIdx]]
		if !ok {
			continue
		}

		if vornameIdx < 0 || vornameIdx >= len(parts) {
			continue
		}
		name := parts[vornameIdx]
		if len(name) < 2 {
			continue
		}

		count := 0
		if anzahlIdx >= 0 && anzahlIdx < len(parts) {
			count, _ = strconv.Atoi(parts[anzahlIdx])
		}
		if count <= 0 {
			continue
		}

		year := defaultYear
		if jahrIdx >= 0 && jahrIdx < len(parts) {
			if y, err := strconv.Atoi(parts[jahrIdx]); err == nil {
				year = y
			}
		}
		if year == 0 {
			continue
		}

		position := 1
		if positionIdx >= 0 && positionIdx < len(parts) {
			if pos, err := strconv.Atoi(parts[positionIdx]); err == nil {
				position = pos
			}
		}

		records = append(records, cologneRecord{year, name, count, gender, position})
	}

	return records, nil
}

// history re-ranks every year present in the data per gender by count.
func (p *Cologne) history(records []cologneRecord, selected map[string]bool) []model.PopularityEntry {
	yearSet := make(map[int]bool)
	for _, r := range records {
		yearSet[r.year] = true
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	var popularity []model.PopularityEntry
	for _, year := range years {
		var females, males []cologneRecord
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

		for _, group := range [][]cologneRecord{females, males} {
			sort.SliceStable(group, func(i, j int) bool { return group[i].count > group[j].count })
			for i, rec := range group {
				norm := model.Normalize(rec.name)
				if !selected[norm] {
					continue
				}
				popularity = append(popularity, model.PopularityEntry{
					NameNormalized: norm,
					Year:           year,
					Country:        model.DEU,
					Rank:           intPtr(i + 1),
					Count:          rec.count,
				})
			}
		}
	}

	return popularity
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
