package engine

import (
	"fmt"
	"strings"
)

// Expression syntax checks. The editor's templating wraps expressions in
// {{ ... }} and exposes $-prefixed accessors ($json, $node, $("Node"), ...).
// Checks here are purely syntactic; nothing is evaluated.

const (
	exprOpen  = "{{"
	exprClose = "}}"
)

// checkExpressionSyntax scans one string value and returns every syntax
// problem found. A string without templating delimiters yields nothing.
func checkExpressionSyntax(value string) []string {
	if !strings.Contains(value, exprOpen) && !strings.Contains(value, exprClose) {
		return nil
	}

	var problems []string

	opens := strings.Count(value, exprOpen)
	closes := strings.Count(value, exprClose)
	if opens != closes {
		problems = append(problems,
			fmt.Sprintf("unbalanced expression delimiters: %d %q vs %d %q", opens, exprOpen, closes, exprClose))
	}

	rest := value
	for {
		start := strings.Index(rest, exprOpen)
		if start < 0 {
			break
		}
		rest = rest[start+len(exprOpen):]
		end := strings.Index(rest, exprClose)
		body := rest
		if end >= 0 {
			body = rest[:end]
			rest = rest[end+len(exprClose):]
		} else {
			rest = ""
		}
		problems = append(problems, checkAccessors(body)...)
	}

	return problems
}

// checkAccessors validates every $-prefixed token inside one expression
// body. A $ must start an identifier ($json, $now) or a node reference
// call ($("Node Name")).
func checkAccessors(body string) []string {
	var problems []string
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '$' {
			continue
		}
		if i+1 >= len(runes) {
			problems = append(problems, fmt.Sprintf("dangling $ at end of expression %q", strings.TrimSpace(body)))
			continue
		}
		next := runes[i+1]
		if next == '(' || next == '_' || isAlpha(next) {
			// Skip past the token so $json.$x style nesting is not
			// double-counted.
			i++
			for i < len(runes) && (isAlpha(runes[i]) || isDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			continue
		}
		problems = append(problems,
			fmt.Sprintf("malformed accessor %q in expression %q", "$"+string(next), strings.TrimSpace(body)))
	}
	return problems
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// walkStrings visits every string value reachable through a parameters map,
// recursing into nested maps and slices.
func walkStrings(value any, visit func(s string)) {
	switch t := value.(type) {
	case string:
		visit(t)
	case map[string]any:
		for _, v := range t {
			walkStrings(v, visit)
		}
	case []any:
		for _, v := range t {
			walkStrings(v, visit)
		}
	}
}
