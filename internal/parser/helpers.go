package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/twoyes/names-cli/internal/model"
)

// MaxNamesPerGender caps each gender's output list to bound downstream
// enrichment cost.
const MaxNamesPerGender = 5000

// rankAndCap sorts names by count descending (stable, so input order breaks
// ties), assigns dense 1-based ranks, and truncates to MaxNamesPerGender.
func rankAndCap(names []model.RawName) []model.RawName {
	sort.SliceStable(names, func(i, j int) bool {
		return names[i].Count > names[j].Count
	})
	for i := range names {
		names[i].Rank = i + 1
	}
	if len(names) > MaxNamesPerGender {
		names = names[:MaxNamesPerGender]
	}
	return names
}

// normalizedSet collects the normalized keys of the selected names so the
// historical pass only records entries for names that survived the cap.
func normalizedSet(names []model.RawName) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n.NameNormalized] = true
	}
	return set
}

func intPtr(i int) *int { return &i }

// parseCellInt parses a spreadsheet cell that may be formatted with grouping
// separators or as a float.
func parseCellInt(s string) (int, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}
