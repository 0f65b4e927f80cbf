package parser

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/model"
)

// ssaHistoryYears is how many trailing year files feed the popularity series.
const ssaHistoryYears = 10

var yobPattern = regexp.MustCompile(`^yob(\d{4})\.txt$`)

// SSA parses the US Social Security Administration yobYYYY.txt files.
// Each file lists name,gender-code,count sorted by count within gender.
type SSA struct{}

func (p *SSA) Name() string           { return "ssa" }
func (p *SSA) Country() model.Country { return model.USA }

func (p *SSA) Parse(dataDir string) (*model.ParseResult, error) {
	log := zap.L().With(zap.String("parser", "ssa"))

	ssaDir := filepath.Join(dataDir, "ssa")
	entries, err := os.ReadDir(ssaDir)
	if err != nil {
		return nil, eris.Wrapf(err, "ssa: read dir %s", ssaDir)
	}

	var yobFiles []string
	for _, e := range entries {
		if yobPattern.MatchString(e.Name()) {
			yobFiles = append(yobFiles, e.Name())
		}
	}
	sort.Strings(yobFiles)

	if len(yobFiles) == 0 {
		return nil, eris.New("ssa: no yobYYYY.txt files found, run download first")
	}

	latest := yobFiles[len(yobFiles)-1]
	latestYear, _ := strconv.Atoi(yobPattern.FindStringSubmatch(latest)[1])
	log.Info("using latest year for ranking", zap.Int("year", latestYear))

	females, males, err := p.parseYearFile(filepath.Join(ssaDir, latest))
	if err != nil {
		return nil, err
	}

	females = rankAndCap(females)
	males = rankAndCap(males)
	all := append(append([]model.RawName{}, females...), males...)
	log.Info("selected names",
		zap.Int("female", len(females)),
		zap.Int("male", len(males)),
	)

	// Historical popularity over the trailing decade of year files.
	recent := yobFiles
	if len(recent) > ssaHistoryYears {
		recent = recent[len(recent)-ssaHistoryYears:]
	}
	selected := normalizedSet(all)

	var popularity []model.PopularityEntry
	for _, file := range recent {
		year, _ := strconv.Atoi(yobPattern.FindStringSubmatch(file)[1])
		entries, err := p.parseHistoryFile(filepath.Join(ssaDir, file), year, selected)
		if err != nil {
			return nil, err
		}
		for _, n := range all {
			key := historyKey{n.NameNormalized, n.Gender}
			if e, ok := entries[key]; ok {
				popularity = append(popularity, model.PopularityEntry{
					NameNormalized: n.NameNormalized,
					Year:           year,
					Country:        model.USA,
					Rank:           intPtr(e.rank),
					Count:          e.count,
				})
			}
		}
	}

	log.Info("popularity entries generated", zap.Int("entries", len(popularity)))
	return &model.ParseResult{Names: all, Popularity: popularity}, nil
}

// parseYearFile reads one yob file into per-gender lists.
func (p *SSA) parseYearFile(path string) (females, males []model.RawName, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ssa: read %s", path)
	}

	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		parts := strings.Split(strings.TrimSpace(line), ",")
		if len(parts) != 3 {
			continue
		}
		count, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}

		gender := model.Male
		if parts[1] == "F" {
			gender = model.Female
		}

		entry := model.RawName{
			Name:           model.Capitalize(parts[0]),
			NameNormalized: model.Normalize(parts[0]),
			Gender:         gender,
			Count:          count,
			Country:        model.USA,
		}
		if gender == model.Female {
			females = append(females, entry)
		} else {
			males = append(males, entry)
		}
	}
	return females, males, nil
}

type historyKey struct {
	normalized string
	gender     model.Gender
}

type historyEntry struct {
	rank  int
	count int
}

// parseHistoryFile derives per-gender ranks for one year from row order,
// recording only names in the selected set.
func (p *SSA) parseHistoryFile(path string, year int, selected map[string]bool) (map[historyKey]historyEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ssa: read history %s", path)
	}

	out := make(map[historyKey]historyEntry)
	fRank, mRank := 0, 0

	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		parts := strings.Split(strings.TrimSpace(line), ",")
		if len(parts) != 3 {
			continue
		}
		count, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		normalized := model.Normalize(parts[0])

		if parts[1] == "F" {
			fRank++
			if selected[normalized] {
				out[historyKey{normalized, model.Female}] = historyEntry{fRank, count}
			}
		} else {
			mRank++
			if selected[normalized] {
				out[historyKey{normalized, model.Male}] = historyEntry{mRank, count}
			}
		}
	}
	return out, nil
}
