package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api/internal/api/models"
)

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("webhook", "webhook"))
	assert.Equal(t, 1, levenshtein("webhok", "webhook"))
	assert.Equal(t, 7, levenshtein("", "webhook"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}

// Ranking expectations locked against the current weight constants; a
// weight change that reorders these needs a deliberate review.
func TestRankSuggestions(t *testing.T) {
	candidates := testCatalog().entries

	suggestions := RankSuggestions(DefaultScorer{}, "n8n-nodes-base.htpRequest", candidates, 3)

	require.NotEmpty(t, suggestions)
	assert.Equal(t, "n8n-nodes-base.httpRequest", suggestions[0].Type)
	assert.Greater(t, suggestions[0].Confidence, 0.5)
	assert.LessOrEqual(t, len(suggestions), 3)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Confidence, suggestions[i].Confidence)
	}
}

func TestRankSuggestionsFiltersNoise(t *testing.T) {
	candidates := []models.CatalogNode{
		{Type: "n8n-nodes-base.slack", Package: "n8n-nodes-base", Category: "communication"},
	}

	suggestions := RankSuggestions(DefaultScorer{}, "completely.unrelated", candidates, 3)
	assert.Empty(t, suggestions)
}

func TestRankSuggestionsHonorsLimit(t *testing.T) {
	candidates := testCatalog().entries

	suggestions := RankSuggestions(DefaultScorer{}, "n8n-nodes-base.webhok", candidates, 1)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "n8n-nodes-base.webhook", suggestions[0].Type)
}

func TestAliasTableResolve(t *testing.T) {
	aliases := DefaultAliases()

	corrected, ok := aliases.Resolve("nodes-base.webhook")
	require.True(t, ok)
	assert.Equal(t, "n8n-nodes-base.webhook", corrected)

	same, ok := aliases.Resolve("n8n-nodes-base.webhook")
	assert.False(t, ok)
	assert.Equal(t, "n8n-nodes-base.webhook", same)
}
