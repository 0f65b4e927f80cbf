package parser

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/fetcher"
	"github.com/twoyes/names-cli/internal/model"
)

// onsPopularityYear labels the single-year popularity series this source yields.
const onsPopularityYear = 2024

var leadingAlpha = regexp.MustCompile(`^[A-Za-z]`)

// ONS parses the UK Office for National Statistics baby-name CSVs for England
// and Wales. Column layout varies between releases, so the header row is
// detected rather than assumed.
type ONS struct{}

func (p *ONS) Name() string           { return "ons" }
func (p *ONS) Country() model.Country { return model.GBR }

func (p *ONS) Parse(dataDir string) (*model.ParseResult, error) {
	log := zap.L().With(zap.String("parser", "ons"))

	boysFile := pickFirst(dataDir, "ons-boys-2024.csv", "ons-boys-2022.csv")
	girlsFile := pickFirst(dataDir, "ons-girls-2024.csv", "ons-girls-2022.csv")
	if boysFile == "" || girlsFile == "" {
		return nil, eris.New("ons: CSV files not found, run download first")
	}

	males, err := p.parseFile(boysFile, model.Male)
	if err != nil {
		return nil, err
	}
	females, err := p.parseFile(girlsFile, model.Female)
	if err != nil {
		return nil, err
	}
	log.Info("records parsed", zap.Int("male", len(males)), zap.Int("female", len(females)))

	males = rankAndCap(males)
	females = rankAndCap(females)
	all := append(append([]model.RawName{}, females...), males...)
	log.Info("selected names", zap.Int("female", len(females)), zap.Int("male", len(males)))

	// Single-year source: popularity mirrors the current ranking.
	popularity := make([]model.PopularityEntry, 0, len(all))
	for _, n := range all {
		popularity = append(popularity, model.PopularityEntry{
			NameNormalized: n.NameNormalized,
			Year:           onsPopularityYear,
			Country:        model.GBR,
			Rank:           intPtr(n.Rank),
			Count:          n.Count,
		})
	}

	return &model.ParseResult{Names: all, Popularity: popularity}, nil
}

// parseFile reads one gendered ONS CSV, locating the name/count/rank columns
// from the header row or falling back to a rank,name,count data-row shape.
func (p *ONS) parseFile(path string, gender model.Gender) ([]model.RawName, error) {
	rows, err := fetcher.ReadCSVFile(path, fetcher.CSVOptions{TrimSpace: true, LazyQuotes: true})
	if err != nil {
		return nil, eris.Wrapf(err, "ons: parse %s", path)
	}

	var names []model.RawName
	dataStarted := false
	nameCol, countCol, rankCol := -1, -1, -1

	for _, parts := range rows {
		if len(parts) == 0 {
			continue
		}

		if !dataStarted {
			nameIdx, countIdx, rankIdx := -1, -1, -1
			for i, cell := range parts {
				switch strings.ToLower(cell) {
				case "name", "names":
					nameIdx = i
				case "count", "number", "total":
					countIdx = i
				case "rank", "position":
					rankIdx = i
				}
			}

			if nameIdx >= 0 {
				nameCol, countCol, rankCol = nameIdx, countIdx, rankIdx
				dataStarted = true
				continue
			}

			// No header found yet: a row shaped like (number, word, ...) is
			// the start of rank,name,count data.
			if len(parts) >= 3 && isDigits(parts[0]) && leadingAlpha.MatchString(parts[1]) {
				rankCol, nameCol, countCol = 0, 1, 2
				dataStarted = true
				// fall through and process this row
			} else {
				continue
			}
		}

		if nameCol < 0 || nameCol >= len(parts) {
			continue
		}
		name := parts[nameCol]
		if name == "" || !leadingAlpha.MatchString(name) || len(name) <= 1 {
			continue
		}

		count := 0
		if countCol >= 0 && countCol < len(parts) {
			count, _ = parseCellInt(parts[countCol])
		}
		rank := len(names) + 1
		if rankCol >= 0 && rankCol < len(parts) {
			if r, ok := parseCellInt(parts[rankCol]); ok {
				rank = r
			}
		}

		names = append(names, model.RawName{
			Name:           model.Capitalize(name),
			NameNormalized: model.Normalize(name),
			Gender:         gender,
			Count:          count,
			Rank:           rank,
			Country:        model.GBR,
		})
	}

	return names, nil
}

func pickFirst(dir string, candidates ...string) string {
	for _, c := range candidates {
		path := filepath.Join(dir, c)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}
