package engine

import "api/internal/api/models"

// OperationType tags one mutation kind.
type OperationType string

// Node-family operations mutate individual nodes; graph-family operations
// mutate connections and workflow-level metadata. The split drives the
// two-pass scheduler in Apply.
const (
	OpAddNode     OperationType = "addNode"
	OpRemoveNode  OperationType = "removeNode"
	OpUpdateNode  OperationType = "updateNode"
	OpMoveNode    OperationType = "moveNode"
	OpEnableNode  OperationType = "enableNode"
	OpDisableNode OperationType = "disableNode"

	OpAddConnection    OperationType = "addConnection"
	OpRemoveConnection OperationType = "removeConnection"
	OpUpdateConnection OperationType = "updateConnection"
	OpUpdateName       OperationType = "updateName"
	OpUpdateSettings   OperationType = "updateSettings"
	OpAddTag           OperationType = "addTag"
	OpRemoveTag        OperationType = "removeTag"
)

// Operation is one mutation request. Which fields matter depends on Type;
// Description is an audit-trail note and is never checked semantically.
type Operation struct {
	Type        OperationType `json:"type"`
	Description string        `json:"description,omitempty"`

	// Node family
	Node     *models.Node   `json:"node,omitempty"`     // addNode
	NodeName string         `json:"nodeName,omitempty"` // remove/update/move/enable/disable
	Updates  map[string]any `json:"updates,omitempty"`  // updateNode
	Position *[2]float64    `json:"position,omitempty"` // moveNode

	// Graph family
	Source       string         `json:"source,omitempty"`
	Target       string         `json:"target,omitempty"`
	SourceOutput string         `json:"sourceOutput,omitempty"` // channel, defaults to main
	TargetInput  string         `json:"targetInput,omitempty"`
	SourceIndex  int            `json:"sourceIndex,omitempty"`
	TargetIndex  int            `json:"targetIndex,omitempty"`
	Name         string         `json:"name,omitempty"`     // updateName
	Settings     map[string]any `json:"settings,omitempty"` // updateSettings
	Tag          string         `json:"tag,omitempty"`      // addTag/removeTag
}

// IsNodeOperation reports whether the operation belongs to the node family
// (applied in pass 1). Unknown types belong to neither family.
func (slf Operation) IsNodeOperation() bool {
	switch slf.Type {
	case OpAddNode, OpRemoveNode, OpUpdateNode, OpMoveNode, OpEnableNode, OpDisableNode:
		return true
	}
	return false
}

// IsGraphOperation reports whether the operation belongs to the graph
// family (applied in pass 2).
func (slf Operation) IsGraphOperation() bool {
	switch slf.Type {
	case OpAddConnection, OpRemoveConnection, OpUpdateConnection,
		OpUpdateName, OpUpdateSettings, OpAddTag, OpRemoveTag:
		return true
	}
	return false
}

func (slf Operation) channel() string {
	if slf.SourceOutput == "" {
		return models.ChannelMain
	}
	return slf.SourceOutput
}

func (slf Operation) targetInput() string {
	if slf.TargetInput == "" {
		return models.ChannelMain
	}
	return slf.TargetInput
}
