package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wireWorkflow = `{
	"name": "Order intake",
	"nodes": [
		{"id": "w1", "name": "Webhook", "type": "n8n-nodes-base.webhook", "typeVersion": 2, "position": [0, 0], "parameters": {"path": "orders"}},
		{"id": "s1", "name": "Normalize", "type": "n8n-nodes-base.set", "typeVersion": 3.4, "position": [220, 0], "onError": "continueErrorOutput"}
	],
	"connections": {
		"Webhook": {"main": [[{"node": "Normalize", "type": "main", "index": 0}]]},
		"Normalize": {"main": [[], [{"node": "Webhook", "type": "main", "index": 0}]]}
	},
	"settings": {"executionOrder": "v1"},
	"tags": ["orders"]
}`

func TestParseWorkflow(t *testing.T) {
	wf, err := ParseWorkflow([]byte(wireWorkflow))
	require.NoError(t, err)

	assert.Equal(t, "Order intake", wf.Name)
	require.Len(t, wf.Nodes, 2)
	assert.Equal(t, OnErrorContinueError, wf.Nodes[1].OnError)
	assert.Equal(t, [2]float64{220, 0}, wf.Nodes[1].Position)

	targets := wf.Connections["Webhook"].Targets(ChannelMain, MainOutput)
	require.Len(t, targets, 1)
	assert.Equal(t, "Normalize", targets[0].Node)

	errTargets := wf.Connections["Normalize"].Targets(ChannelMain, ErrorOutput)
	require.Len(t, errTargets, 1)

	_, err = ParseWorkflow(nil)
	assert.Error(t, err)
	_, err = ParseWorkflow([]byte("not json"))
	assert.Error(t, err)
}

func TestWorkflowRoundTripsWireShape(t *testing.T) {
	wf, err := ParseWorkflow([]byte(wireWorkflow))
	require.NoError(t, err)

	data, err := json.Marshal(wf)
	require.NoError(t, err)
	again, err := ParseWorkflow(data)
	require.NoError(t, err)
	assert.Equal(t, wf, again)
}

func TestCloneIsIndependent(t *testing.T) {
	wf, err := ParseWorkflow([]byte(wireWorkflow))
	require.NoError(t, err)

	clone := wf.Clone()
	require.Equal(t, wf, clone)

	clone.Nodes[0].Parameters["path"] = "changed"
	clone.Connections.Add("Webhook", ChannelMain, 0, ConnectionTarget{Node: "Extra", Type: ChannelMain})
	clone.Settings["executionOrder"] = "v0"
	clone.Tags[0] = "mutated"

	assert.Equal(t, "orders", wf.Nodes[0].Parameters["path"])
	assert.Len(t, wf.Connections["Webhook"].Targets(ChannelMain, 0), 1)
	assert.Equal(t, "v1", wf.Settings["executionOrder"])
	assert.Equal(t, "orders", wf.Tags[0])
}

func TestRemoveNodeStripsAllReferences(t *testing.T) {
	wf, err := ParseWorkflow([]byte(wireWorkflow))
	require.NoError(t, err)

	require.True(t, wf.RemoveNode("Normalize"))
	assert.False(t, wf.HasNode("Normalize"))
	assert.Empty(t, wf.Connections["Webhook"].Targets(ChannelMain, 0))
	_, stillSource := wf.Connections["Normalize"]
	assert.False(t, stillSource)

	assert.False(t, wf.RemoveNode("Normalize"))
}

func TestRenameNodeRewritesConnections(t *testing.T) {
	wf, err := ParseWorkflow([]byte(wireWorkflow))
	require.NoError(t, err)

	require.True(t, wf.RenameNode("Normalize", "Cleanup"))

	targets := wf.Connections["Webhook"].Targets(ChannelMain, 0)
	require.Len(t, targets, 1)
	assert.Equal(t, "Cleanup", targets[0].Node)
	_, renamedSource := wf.Connections["Cleanup"]
	assert.True(t, renamedSource)
}

func TestHasConnections(t *testing.T) {
	wf := &Workflow{
		Connections: ConnectionMap{
			"A": {ChannelMain: [][]ConnectionTarget{{}}},
		},
	}
	assert.False(t, wf.HasConnections(), "empty target lists count as no connections")

	wf.Connections.Add("A", ChannelMain, 0, ConnectionTarget{Node: "B", Type: ChannelMain})
	assert.True(t, wf.HasConnections())
}

func TestMergeParameters(t *testing.T) {
	node := Node{Parameters: map[string]any{
		"options": map[string]any{"a": float64(1), "b": float64(2)},
		"list":    []any{"x"},
	}}

	node.MergeParameters(map[string]any{
		"options": map[string]any{"b": float64(3), "c": float64(4)},
		"list":    []any{"y", "z"},
	})

	options := node.Parameters["options"].(map[string]any)
	assert.Equal(t, float64(1), options["a"])
	assert.Equal(t, float64(3), options["b"])
	assert.Equal(t, float64(4), options["c"])
	assert.Equal(t, []any{"y", "z"}, node.Parameters["list"], "slices replace, not merge")
}

func TestTagHelpers(t *testing.T) {
	wf := &Workflow{}
	wf.AddTag("a")
	wf.AddTag("a")
	wf.AddTag("b")
	assert.Equal(t, []string{"a", "b"}, wf.Tags)

	wf.RemoveTag("a")
	wf.RemoveTag("missing")
	assert.Equal(t, []string{"b"}, wf.Tags)
}
