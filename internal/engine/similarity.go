package engine

import (
	"sort"
	"strings"

	"api/internal/api/models"
)

// TypeScorer rates how close a known catalog entry is to an unknown type
// key. The default weights are empirically tuned; keep them behind this
// interface so they can be revisited without touching the validator.
type TypeScorer interface {
	Score(invalidType string, candidate models.CatalogNode) (score float64, reason string)
}

// Scoring weights for the default scorer.
const (
	weightNameSimilarity = 0.5
	weightSubstring      = 0.2
	weightCategory       = 0.15
	weightPackagePrefix  = 0.15

	suggestionThreshold = 0.3
)

// DefaultScorer combines edit distance on the short name with substring,
// category and package-prefix boosts.
type DefaultScorer struct{}

func (DefaultScorer) Score(invalidType string, candidate models.CatalogNode) (float64, string) {
	invalid := strings.ToLower(invalidType)
	known := strings.ToLower(candidate.Type)

	invalidShort := shortName(invalid)
	knownShort := shortName(known)

	score := 0.0
	reasons := []string{}

	if sim := nameSimilarity(invalidShort, knownShort); sim > 0 {
		score += weightNameSimilarity * sim
		if sim >= 0.8 {
			reasons = append(reasons, "very similar name")
		} else if sim >= 0.5 {
			reasons = append(reasons, "similar name")
		}
	}

	if strings.Contains(known, invalidShort) || strings.Contains(invalidShort, knownShort) {
		score += weightSubstring
		reasons = append(reasons, "name overlap")
	}

	if candidate.Category != "" && strings.Contains(invalid, strings.ToLower(candidate.Category)) {
		score += weightCategory
		reasons = append(reasons, "matching category")
	}

	if candidate.Package != "" && strings.HasPrefix(invalid, strings.ToLower(candidate.Package)) {
		score += weightPackagePrefix
		reasons = append(reasons, "matching package")
	}

	if len(reasons) == 0 {
		return score, "partial match"
	}
	return score, strings.Join(reasons, ", ")
}

// shortName strips the package qualifier: "n8n-nodes-base.webhook" ->
// "webhook".
func shortName(t string) string {
	if i := strings.LastIndex(t, "."); i >= 0 {
		return t[i+1:]
	}
	return t
}

// nameSimilarity maps edit distance onto [0,1]; 1 means identical.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein(a, b)
	return 1 - float64(d)/float64(longest)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// RankSuggestions scores every catalog entry against an unknown type and
// returns the best matches above the confidence threshold.
func RankSuggestions(scorer TypeScorer, invalidType string, candidates []models.CatalogNode, limit int) []TypeSuggestion {
	if scorer == nil {
		scorer = DefaultScorer{}
	}
	suggestions := make([]TypeSuggestion, 0, len(candidates))
	for _, c := range candidates {
		score, reason := scorer.Score(invalidType, c)
		if score < suggestionThreshold {
			continue
		}
		suggestions = append(suggestions, TypeSuggestion{
			Type:       c.Type,
			Confidence: score,
			Reason:     reason,
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
