package engine

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api/internal/api/models"
)

// stubCatalog backs validator tests with a fixed set of known node types.
type stubCatalog struct {
	entries []models.CatalogNode
}

func (slf stubCatalog) GetNodeMetadata(nodeType string) (NodeMetadata, error) {
	for _, e := range slf.entries {
		if e.Type == nodeType {
			return NodeMetadata{
				Type:          e.Type,
				LatestVersion: e.LatestVersion,
				IsVersioned:   e.IsVersioned,
				IsTrigger:     e.IsTrigger,
				IsWebhook:     e.IsWebhook,
			}, nil
		}
	}
	return NodeMetadata{}, ErrTypeNotFound
}

func (slf stubCatalog) SuggestSimilar(invalidType string, limit int) []TypeSuggestion {
	return RankSuggestions(DefaultScorer{}, invalidType, slf.entries, limit)
}

func testCatalog() stubCatalog {
	return stubCatalog{entries: []models.CatalogNode{
		{Type: "n8n-nodes-base.webhook", Package: "n8n-nodes-base", Category: "trigger", LatestVersion: 2, IsVersioned: true, IsWebhook: true},
		{Type: "n8n-nodes-base.manualTrigger", Package: "n8n-nodes-base", Category: "trigger", LatestVersion: 1, IsTrigger: true},
		{Type: "n8n-nodes-base.httpRequest", Package: "n8n-nodes-base", Category: "action", LatestVersion: 4.2, IsVersioned: true},
		{Type: "n8n-nodes-base.set", Package: "n8n-nodes-base", Category: "transform", LatestVersion: 3.4, IsVersioned: true},
		{Type: "n8n-nodes-base.respondToWebhook", Package: "n8n-nodes-base", Category: "action", LatestVersion: 1.1, IsVersioned: true},
	}}
}

func newTestValidator() *Validator {
	return NewValidator(testCatalog(), zerolog.Nop())
}

func triggerNode(name string) models.Node {
	return models.Node{ID: "id-" + name, Name: name, Type: "n8n-nodes-base.manualTrigger", TypeVersion: 1}
}

func setNode(name string) models.Node {
	return models.Node{ID: "id-" + name, Name: name, Type: "n8n-nodes-base.set", TypeVersion: 3.4}
}

func mainEdge(targets ...models.ConnectionTarget) models.NodeOutputs {
	return models.NodeOutputs{models.ChannelMain: [][]models.ConnectionTarget{targets}}
}

func target(name string) models.ConnectionTarget {
	return models.ConnectionTarget{Node: name, Type: models.ChannelMain, Index: 0}
}

func TestValidate_NilWorkflow(t *testing.T) {
	report := newTestValidator().Validate(nil, DefaultValidateOptions())

	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "null or undefined")
}

func TestValidate_UnknownTypeWithSuggestions(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{{Name: "Bad", Type: "n8n-nodes-base.htpRequest"}},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "Unknown node type")
	assert.Contains(t, report.Errors[0].Message, "n8n-nodes-base.httpRequest")

	suggestions, ok := report.Errors[0].Details.([]TypeSuggestion)
	require.True(t, ok)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "n8n-nodes-base.httpRequest", suggestions[0].Type)
	assert.LessOrEqual(t, len(suggestions), 3)
}

func TestValidate_LegacyAliasGetsCorrection(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{{Name: "Hook", Type: "nodes-base.webhook"}},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, `"nodes-base.webhook"`)
	assert.Contains(t, report.Errors[0].Message, `"n8n-nodes-base.webhook"`)
	assert.Contains(t, report.Errors[0].Message, "instead")
	assert.NotContains(t, report.Errors[0].Message, "Unknown node type")
}

func TestValidate_DuplicateNames(t *testing.T) {
	wf := &models.Workflow{
		Name: "wf",
		Nodes: []models.Node{
			triggerNode("Step"),
			setNode("Step"),
		},
		Connections: models.ConnectionMap{"Step": mainEdge(target("Step"))},
	}

	report := newTestValidator().Validate(wf, ValidateOptions{CheckNodes: true})

	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "Duplicate node name")
	assert.Contains(t, report.Errors[0].Message, "#1")
	assert.Contains(t, report.Errors[0].Message, "#2")
}

func TestValidate_OutdatedTypeVersionIsWarning(t *testing.T) {
	node := setNode("Old")
	node.TypeVersion = 1

	report := newTestValidator().Validate(&models.Workflow{Name: "wf", Nodes: []models.Node{node}}, ValidateOptions{CheckNodes: true})

	require.True(t, report.Valid)
	require.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "Outdated typeVersion")
}

func TestValidate_SingleNonTriggerNodeWarnsOnly(t *testing.T) {
	wf := &models.Workflow{Name: "wf", Nodes: []models.Node{setNode("Lonely")}}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.True(t, report.Valid)
	require.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "Lonely", report.Warnings[0].NodeName)
}

func TestValidate_SingleTriggerNodeIsClean(t *testing.T) {
	wf := &models.Workflow{Name: "wf", Nodes: []models.Node{triggerNode("Start")}}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.True(t, report.Valid)
	assert.Empty(t, report.Warnings)
}

func TestValidate_MultiNodeWithoutConnections(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{triggerNode("A"), setNode("B")},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "no connections")
}

func TestValidate_DanglingEndpoint(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{triggerNode("A"), setNode("B")},
		Connections: models.ConnectionMap{
			"A": mainEdge(target("Ghost")),
		},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	found := false
	for _, issue := range report.Errors {
		if containsAll(issue.Message, "unknown node", `"Ghost"`) {
			found = true
		}
	}
	assert.True(t, found, "expected a dangling-endpoint error for Ghost")
	assert.Equal(t, 1, report.Statistics.InvalidConnections)
}

func TestValidate_NodeIDUsedInsteadOfName(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{triggerNode("A"), setNode("B")},
		Connections: models.ConnectionMap{
			"A": mainEdge(target("id-B")),
		},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[0].Message, "node ID")
	assert.Contains(t, report.Errors[0].Message, `"B"`)
}

func TestValidate_CycleOnMainPath(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{triggerNode("A"), setNode("B"), setNode("C")},
		Connections: models.ConnectionMap{
			"A": mainEdge(target("B")),
			"B": mainEdge(target("C")),
			"C": mainEdge(target("B")),
		},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	var cycle *Issue
	for i := range report.Errors {
		if containsAll(report.Errors[i].Message, "Cycle detected") {
			cycle = &report.Errors[i]
		}
	}
	require.NotNil(t, cycle)
	assert.Contains(t, cycle.Message, `"C"`)
	assert.Contains(t, cycle.Message, `"B"`)

	// Breaking the cycle makes that error disappear.
	wf.Connections.Remove("C", models.ChannelMain, models.MainOutput, "B")
	report = newTestValidator().Validate(wf, DefaultValidateOptions())
	for _, issue := range report.Errors {
		assert.NotContains(t, issue.Message, "Cycle detected")
	}
}

func TestValidate_ErrorEdgesExcludedFromCycleCheck(t *testing.T) {
	// B routes failures back to A on main[1]; legal even though it loops.
	wf := &models.Workflow{
		Name: "wf",
		Nodes: []models.Node{
			triggerNode("A"),
			{Name: "B", Type: "n8n-nodes-base.set", TypeVersion: 3.4, OnError: models.OnErrorContinueError},
		},
		Connections: models.ConnectionMap{
			"A": mainEdge(target("B")),
			"B": {models.ChannelMain: [][]models.ConnectionTarget{{}, {target("A")}}},
		},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	for _, issue := range report.Errors {
		assert.NotContains(t, issue.Message, "Cycle detected")
	}
	require.True(t, report.Valid)
}

func TestValidate_ErrorHandlerCrammedIntoMainOutput(t *testing.T) {
	wf := &models.Workflow{
		Name: "wf",
		Nodes: []models.Node{
			triggerNode("S"),
			setNode("Success Path"),
			setNode("Error Handler"),
		},
		Connections: models.ConnectionMap{
			"S": mainEdge(target("Success Path"), target("Error Handler")),
		},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	matches := 0
	for _, issue := range report.Errors {
		if containsAll(issue.Message, "Incorrect error output configuration", `"Error Handler"`) {
			matches++
			assert.Contains(t, issue.Message, "main[1]")
			assert.Contains(t, issue.Message, string(models.OnErrorContinueError))
		}
	}
	assert.Equal(t, 1, matches)

	// Corrected shape: handler on main[1], onError set.
	wf.Nodes[0].OnError = models.OnErrorContinueError
	wf.Connections["S"] = models.NodeOutputs{models.ChannelMain: [][]models.ConnectionTarget{
		{target("Success Path")},
		{target("Error Handler")},
	}}
	report = newTestValidator().Validate(wf, DefaultValidateOptions())
	for _, issue := range report.Errors {
		assert.NotContains(t, issue.Message, "Incorrect error output configuration")
	}
	require.True(t, report.Valid)
}

func TestValidate_OnErrorMismatches(t *testing.T) {
	declared := &models.Workflow{
		Name: "wf",
		Nodes: []models.Node{
			triggerNode("A"),
			{Name: "B", Type: "n8n-nodes-base.set", TypeVersion: 3.4, OnError: models.OnErrorContinueError},
		},
		Connections: models.ConnectionMap{"A": mainEdge(target("B"))},
	}

	report := newTestValidator().Validate(declared, DefaultValidateOptions())
	require.True(t, report.Valid, "mismatch must stay a warning")
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "main[1] is empty")

	populated := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{triggerNode("A"), setNode("B"), setNode("C")},
		Connections: models.ConnectionMap{
			"A": mainEdge(target("B")),
			"B": {models.ChannelMain: [][]models.ConnectionTarget{{}, {target("C")}}},
		},
	}

	report = newTestValidator().Validate(populated, DefaultValidateOptions())
	require.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "onError is not")
}

func TestValidate_ExpressionErrorsAttributedToNode(t *testing.T) {
	wf := &models.Workflow{
		Name: "wf",
		Nodes: []models.Node{
			{
				Name: "Expr", Type: "n8n-nodes-base.set", TypeVersion: 3.4,
				Parameters: map[string]any{
					"good": "={{ $json.value }}",
					"bad":  "={{ $json.value }",
					"nested": map[string]any{
						"worse": "{{ $ }}",
					},
				},
			},
		},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	require.False(t, report.Valid)
	assert.Equal(t, 3, report.Statistics.ExpressionsValidated)
	for _, issue := range report.Errors {
		assert.Equal(t, "Expr", issue.NodeName)
		assert.Contains(t, issue.Message, "Expression error")
	}
}

func TestValidate_PassesAreIndependentlySelectable(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{{Name: "Bad", Type: "made.up"}, {Name: "Other", Type: "also.made.up"}},
	}

	report := newTestValidator().Validate(wf, ValidateOptions{CheckExpressions: true})

	require.True(t, report.Valid)
	assert.Empty(t, report.Errors)
}

func TestValidate_Idempotent(t *testing.T) {
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{triggerNode("A"), setNode("B")},
		Connections: models.ConnectionMap{
			"A": mainEdge(target("Ghost")),
		},
	}

	v := newTestValidator()
	first := v.Validate(wf, DefaultValidateOptions())
	second := v.Validate(wf, DefaultValidateOptions())

	require.Equal(t, first, second)
}

func TestValidate_Statistics(t *testing.T) {
	disabled := setNode("Off")
	disabled.Disabled = true
	wf := &models.Workflow{
		Name:  "wf",
		Nodes: []models.Node{triggerNode("A"), setNode("B"), disabled},
		Connections: models.ConnectionMap{
			"A": mainEdge(target("B")),
		},
	}

	report := newTestValidator().Validate(wf, DefaultValidateOptions())

	assert.Equal(t, 3, report.Statistics.TotalNodes)
	assert.Equal(t, 2, report.Statistics.EnabledNodes)
	assert.Equal(t, 1, report.Statistics.TriggerNodes)
	assert.Equal(t, 2, report.Statistics.ValidConnections) // A as source + B as target
	assert.Equal(t, 0, report.Statistics.InvalidConnections)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
