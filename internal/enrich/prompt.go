package enrich

import (
	"fmt"
	"strings"

	"github.com/twoyes/names-cli/internal/model"
)

// systemPrompt pins the model to a JSON-only answer.
const systemPrompt = "You are a baby name expert. Return only valid JSON."

// buildPrompt renders the enrichment request for one batch of names. The
// style-tag vocabulary is fixed so downstream filters can rely on it.
func buildPrompt(names []model.MergedName) string {
	var list strings.Builder
	for _, n := range names {
		countries := strings.Join(n.Countries, ", ")
		fmt.Fprintf(&list, "- %s (%s, popular in: %s)\n", n.Name, n.Gender, countries)
	}

	return fmt.Sprintf(`For each baby name below, provide enrichment data. Return a JSON object with a "names" array.

Names:
%s
For each name, provide:
- "name": the exact name as given
- "meaning": 1-2 sentence meaning of the name
- "etymology": 1-2 sentence historical/linguistic origin
- "origins": array of cultural origins (e.g., ["french", "latin", "germanic"]). Use lowercase.
- "pronunciation_ipa": IPA pronunciation (e.g., "/ˈɛmə/")
- "style_tags": array from these options: classic, modern, unique, vintage, elegant, strong, gentle, royal, nature, literary, mythological, biblical, artistic, musical, scientific, sporty
- "syllables": number of syllables
- "famous_people": up to 3 famous people with this name (e.g., ["Emma Watson", "Emma Stone"])

Return ONLY valid JSON. No markdown, no explanation.`, list.String())
}
