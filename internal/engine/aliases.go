package engine

import "strings"

// AliasTable maps legacy or short type-key prefixes to their fully
// qualified replacements. It is injected into the validator so deployments
// can extend it without touching validation control flow.
type AliasTable map[string]string

// DefaultAliases covers the short forms the editor historically accepted.
func DefaultAliases() AliasTable {
	return AliasTable{
		"nodes-base.":          "n8n-nodes-base.",
		"n8n-nodes-langchain.": "@n8n/n8n-nodes-langchain.",
		"nodes-langchain.":     "@n8n/n8n-nodes-langchain.",
	}
}

// Resolve returns the fully qualified form of a legacy-prefixed type key
// and whether a substitution applied.
func (slf AliasTable) Resolve(nodeType string) (string, bool) {
	for prefix, replacement := range slf {
		if strings.HasPrefix(nodeType, prefix) {
			return replacement + strings.TrimPrefix(nodeType, prefix), true
		}
	}
	return nodeType, false
}
