package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckExpressionSyntax(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		problems int
		contains string
	}{
		{name: "plain string", value: "hello", problems: 0},
		{name: "well formed", value: "={{ $json.body.email }}", problems: 0},
		{name: "node reference call", value: `={{ $("Webhook").item.json.id }}`, problems: 0},
		{name: "two expressions", value: "{{ $json.a }} and {{ $now }}", problems: 0},
		{name: "missing close", value: "={{ $json.a }", problems: 1, contains: "unbalanced"},
		{name: "missing open", value: "$json.a }}", problems: 1, contains: "unbalanced"},
		{name: "bare dollar", value: "{{ $ }}", problems: 1, contains: "malformed accessor"},
		{name: "dollar digit", value: "{{ $1 }}", problems: 1, contains: "malformed accessor"},
		{name: "dollar at end", value: "{{ a + $}}", problems: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			problems := checkExpressionSyntax(tc.value)
			require.Len(t, problems, tc.problems)
			if tc.contains != "" {
				assert.Contains(t, problems[0], tc.contains)
			}
		})
	}
}

func TestWalkStringsVisitsNestedValues(t *testing.T) {
	var visited []string
	walkStrings(map[string]any{
		"top": "a",
		"nested": map[string]any{
			"inner": "b",
			"list":  []any{"c", map[string]any{"deep": "d"}},
		},
		"number": float64(3),
	}, func(s string) { visited = append(visited, s) })

	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, visited)
}
