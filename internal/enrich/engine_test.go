package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twoyes/names-cli/internal/model"
	"github.com/twoyes/names-cli/pkg/anthropic"
)

// fakeClient answers every request by enriching the names it finds in the
// prompt, or fails every call when err is set.
type fakeClient struct {
	mu    sync.Mutex
	calls int
	err   error
	names []string
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	var results []EnrichmentResult
	for _, name := range f.names {
		if !promptMentions(req, name) {
			continue
		}
		results = append(results, EnrichmentResult{
			Name:      name,
			Meaning:   "meaning of " + name,
			Origins:   []string{"Latin"},
			StyleTags: []string{"classic"},
			Syllables: 2,
		})
	}
	payload, _ := json.Marshal(map[string]any{"names": results})

	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: string(payload)}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}, nil
}

// promptMentions matches the "- Emma (female, popular in: USA)" prompt lines.
func promptMentions(req anthropic.MessageRequest, name string) bool {
	for _, m := range req.Messages {
		if strings.Contains(m.Content, "- "+name+" (") {
			return true
		}
	}
	return false
}

func merged(name string, gender model.Gender) model.MergedName {
	return model.MergedName{
		Name:           name,
		NameNormalized: model.Normalize(name),
		Gender:         gender,
		Countries:      []string{"USA"},
	}
}

func newFileCheckpoint(t *testing.T) *FileCheckpoint {
	t.Helper()
	cp, err := OpenFileCheckpoint(filepath.Join(t.TempDir(), "enrichment-progress.json"))
	require.NoError(t, err)
	return cp
}

func fastEngine(client anthropic.Client, cp Checkpoint) *Engine {
	return NewEngine(client, cp, Config{
		Model:      "claude-haiku-4-5-20251001",
		BatchSize:  2,
		BatchDelay: time.Millisecond,
	})
}

func TestEnrichPopulatesFields(t *testing.T) {
	client := &fakeClient{names: []string{"Emma", "Liam", "Sofia"}}
	cp := newFileCheckpoint(t)

	names := []model.MergedName{
		merged("Emma", model.Female),
		merged("Liam", model.Male),
		merged("Sofia", model.Female),
	}

	enriched, err := fastEngine(client, cp).Enrich(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, enriched, 3)

	assert.Equal(t, "meaning of Emma", enriched[0].Meaning)
	assert.Equal(t, []string{"Latin"}, enriched[0].Origins)
	assert.Equal(t, []string{"classic"}, enriched[0].Metadata.StyleTags)
	assert.Equal(t, 2, enriched[0].Metadata.Syllables)

	// Batch size 2 over 3 names means two API calls.
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 3, cp.Len())
}

func TestEnrichResumesFromCheckpoint(t *testing.T) {
	client := &fakeClient{names: []string{"Emma"}}
	cp := newFileCheckpoint(t)
	cp.Set("emma", EnrichmentResult{Name: "Emma", Meaning: "cached meaning"})

	enriched, err := fastEngine(client, cp).Enrich(context.Background(), []model.MergedName{
		merged("Emma", model.Female),
	})
	require.NoError(t, err)
	require.Len(t, enriched, 1)

	assert.Equal(t, "cached meaning", enriched[0].Meaning)
	assert.Zero(t, client.calls)
}

func TestEnrichFailedBatchDegradesToEmptyFields(t *testing.T) {
	client := &fakeClient{err: eris.New("rate limited")}
	cp := newFileCheckpoint(t)

	engine := NewEngine(client, cp, Config{
		Model:      "claude-haiku-4-5-20251001",
		MaxRetries: 1,
		BatchDelay: time.Millisecond,
	})

	enriched, err := engine.Enrich(context.Background(), []model.MergedName{
		merged("Emma", model.Female),
	})
	require.NoError(t, err)
	require.Len(t, enriched, 1)

	assert.Empty(t, enriched[0].Meaning)
	assert.Equal(t, []string{}, enriched[0].Origins)
	assert.Equal(t, []string{}, enriched[0].Metadata.StyleTags)
	assert.Equal(t, []string{}, enriched[0].Metadata.FamousPeople)
}

func TestEnrichCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{names: []string{"Emma"}}
	_, err := fastEngine(client, newFileCheckpoint(t)).Enrich(ctx, []model.MergedName{
		merged("Emma", model.Female),
	})
	assert.Error(t, err)
}

func TestParseResults(t *testing.T) {
	one := `{"name": "Emma", "meaning": "universal", "syllables": 2}`

	tests := []struct {
		name string
		text string
	}{
		{"names key", fmt.Sprintf(`{"names": [%s]}`, one)},
		{"results key", fmt.Sprintf(`{"results": [%s]}`, one)},
		{"bare list", fmt.Sprintf(`[%s]`, one)},
		{"map values", fmt.Sprintf(`{"Emma": %s}`, one)},
		{"code fence", fmt.Sprintf("```json\n{\"names\": [%s]}\n```", one)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := parseResults(tt.text)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "Emma", results[0].Name)
			assert.Equal(t, "universal", results[0].Meaning)
		})
	}
}

func TestParseResultsInvalid(t *testing.T) {
	_, err := parseResults("I could not enrich these names.")
	assert.ErrorContains(t, err, "not valid JSON")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
