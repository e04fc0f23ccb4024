package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"api/internal/api/models"
)

// MaxOperations caps one batch. The cap keeps worst-case batch processing
// time small and predictable.
const MaxOperations = 5

// OperationResult reports the outcome of one operation, in the caller's
// original order.
type OperationResult struct {
	Index   int           `json:"index"`
	Type    OperationType `json:"type"`
	Success bool          `json:"success"`
}

// ApplyOptions tunes one Apply call.
type ApplyOptions struct {
	// ValidateOnly runs every check and builds the would-be result, then
	// discards it; the returned workflow is the caller's original.
	ValidateOnly bool
}

// DiffEngine applies batches of mutation operations to a workflow graph.
// It is stateless across requests and always works on a private copy, so a
// rejected batch leaves the caller's graph byte-for-byte untouched.
type DiffEngine struct {
	logger zerolog.Logger
}

func NewDiffEngine(logger zerolog.Logger) *DiffEngine {
	return &DiffEngine{logger: logger}
}

// Apply executes a batch in two passes: node-family operations first, then
// graph-family operations, each pass preserving the caller's relative
// order. Two passes suffice because the only cross-family dependency is
// graph operations referencing nodes created in the same batch; callers
// therefore never need to pre-sort.
func (slf *DiffEngine) Apply(wf *models.Workflow, operations []Operation, opts ApplyOptions) (*models.Workflow, []OperationResult, error) {
	if len(operations) == 0 {
		return nil, nil, batchError("batch contains no operations")
	}
	if len(operations) > MaxOperations {
		return nil, nil, batchError("batch of %d operations exceeds the maximum of %d", len(operations), MaxOperations)
	}

	type indexed struct {
		index int
		op    Operation
	}
	var nodePass, graphPass []indexed
	for i, op := range operations {
		switch {
		case op.IsNodeOperation():
			nodePass = append(nodePass, indexed{i, op})
		case op.IsGraphOperation():
			graphPass = append(graphPass, indexed{i, op})
		default:
			return nil, nil, opError(i, op, "unknown operation type %q", op.Type)
		}
	}

	working := wf.Clone()
	results := make([]OperationResult, len(operations))

	for _, entry := range append(nodePass, graphPass...) {
		if err := slf.applyOne(working, entry.index, entry.op); err != nil {
			return nil, nil, err
		}
		results[entry.index] = OperationResult{Index: entry.index, Type: entry.op.Type, Success: true}
	}

	slf.logger.Debug().
		Str("workflow", wf.Name).
		Int("operations", len(operations)).
		Bool("validateOnly", opts.ValidateOnly).
		Msg("Operation batch applied")

	if opts.ValidateOnly {
		return wf, results, nil
	}
	return working, results, nil
}

func (slf *DiffEngine) applyOne(wf *models.Workflow, index int, op Operation) *OperationError {
	switch op.Type {
	case OpAddNode:
		return slf.addNode(wf, index, op)
	case OpRemoveNode:
		if !wf.RemoveNode(op.NodeName) {
			return opError(index, op, "node %q does not exist", op.NodeName)
		}
	case OpUpdateNode:
		return slf.updateNode(wf, index, op)
	case OpMoveNode:
		node := wf.NodeByName(op.NodeName)
		if node == nil {
			return opError(index, op, "node %q does not exist", op.NodeName)
		}
		if op.Position == nil {
			return opError(index, op, "moveNode requires a position")
		}
		node.Position = *op.Position
	case OpEnableNode, OpDisableNode:
		node := wf.NodeByName(op.NodeName)
		if node == nil {
			return opError(index, op, "node %q does not exist", op.NodeName)
		}
		node.Disabled = op.Type == OpDisableNode
	case OpAddConnection:
		return slf.addConnection(wf, index, op)
	case OpRemoveConnection:
		if err := slf.requireEndpoints(wf, index, op); err != nil {
			return err
		}
		if !wf.Connections.Remove(op.Source, op.channel(), op.SourceIndex, op.Target) {
			return opError(index, op, "no connection from %q to %q", op.Source, op.Target)
		}
	case OpUpdateConnection:
		return slf.updateConnection(wf, index, op)
	case OpUpdateName:
		if op.Name == "" {
			return opError(index, op, "updateName requires a name")
		}
		wf.Name = op.Name
	case OpUpdateSettings:
		wf.MergeSettings(op.Settings)
	case OpAddTag:
		if op.Tag == "" {
			return opError(index, op, "addTag requires a tag")
		}
		wf.AddTag(op.Tag)
	case OpRemoveTag:
		wf.RemoveTag(op.Tag)
	}
	return nil
}

func (slf *DiffEngine) addNode(wf *models.Workflow, index int, op Operation) *OperationError {
	if op.Node == nil || op.Node.Name == "" {
		return opError(index, op, "addNode requires a node with a name")
	}
	if wf.HasNode(op.Node.Name) {
		return opError(index, op, "a node named %q already exists", op.Node.Name)
	}
	node := op.Node.Clone()
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	wf.Nodes = append(wf.Nodes, node)
	return nil
}

// updateNode merges the supplied fields into an existing node. Parameters
// merge deep; everything else replaces.
func (slf *DiffEngine) updateNode(wf *models.Workflow, index int, op Operation) *OperationError {
	node := wf.NodeByName(op.NodeName)
	if node == nil {
		return opError(index, op, "node %q does not exist", op.NodeName)
	}
	for key, value := range op.Updates {
		switch key {
		case "name":
			newName, ok := value.(string)
			if !ok || newName == "" {
				return opError(index, op, "updates.name must be a non-empty string")
			}
			if newName != node.Name && wf.HasNode(newName) {
				return opError(index, op, "a node named %q already exists", newName)
			}
			wf.RenameNode(node.Name, newName)
		case "type":
			s, ok := value.(string)
			if !ok {
				return opError(index, op, "updates.type must be a string")
			}
			node.Type = s
		case "typeVersion":
			f, ok := value.(float64)
			if !ok {
				return opError(index, op, "updates.typeVersion must be a number")
			}
			node.TypeVersion = f
		case "parameters":
			params, ok := value.(map[string]any)
			if !ok {
				return opError(index, op, "updates.parameters must be an object")
			}
			node.MergeParameters(params)
		case "credentials":
			creds, ok := value.(map[string]any)
			if !ok {
				return opError(index, op, "updates.credentials must be an object")
			}
			node.Credentials = deepCopyAnyMap(creds)
		case "onError":
			s, ok := value.(string)
			if !ok {
				return opError(index, op, "updates.onError must be a string")
			}
			node.OnError = models.OnError(s)
		case "disabled":
			b, ok := value.(bool)
			if !ok {
				return opError(index, op, "updates.disabled must be a boolean")
			}
			node.Disabled = b
		case "notes":
			s, ok := value.(string)
			if !ok {
				return opError(index, op, "updates.notes must be a string")
			}
			node.Notes = s
		case "position":
			pos, err := asPosition(value)
			if err != nil {
				return opError(index, op, "updates.position must be a [x, y] pair")
			}
			node.Position = pos
		default:
			return opError(index, op, "unknown node field %q", key)
		}
	}
	return nil
}

func (slf *DiffEngine) addConnection(wf *models.Workflow, index int, op Operation) *OperationError {
	if err := slf.requireEndpoints(wf, index, op); err != nil {
		return err
	}
	if wf.Connections == nil {
		wf.Connections = models.ConnectionMap{}
	}
	// Adding an edge that already exists is a no-op success.
	wf.Connections.Add(op.Source, op.channel(), op.SourceIndex, models.ConnectionTarget{
		Node:  op.Target,
		Type:  op.targetInput(),
		Index: op.TargetIndex,
	})
	return nil
}

// updateConnection rewrites the channel/index fields of the first edge
// matching (source, target), scanning output indexes in order.
func (slf *DiffEngine) updateConnection(wf *models.Workflow, index int, op Operation) *OperationError {
	if err := slf.requireEndpoints(wf, index, op); err != nil {
		return err
	}
	channels := wf.Connections[op.Source]
	for _, outputs := range channels {
		for i, targets := range outputs {
			for j, target := range targets {
				if target.Node != op.Target {
					continue
				}
				outputs[i] = append(targets[:j], targets[j+1:]...)
				wf.Connections.Add(op.Source, op.channel(), op.SourceIndex, models.ConnectionTarget{
					Node:  op.Target,
					Type:  op.targetInput(),
					Index: op.TargetIndex,
				})
				return nil
			}
		}
	}
	return opError(index, op, "no connection from %q to %q", op.Source, op.Target)
}

func (slf *DiffEngine) requireEndpoints(wf *models.Workflow, index int, op Operation) *OperationError {
	if !wf.HasNode(op.Source) {
		return opError(index, op, "source node %q does not exist", op.Source)
	}
	if !wf.HasNode(op.Target) {
		return opError(index, op, "target node %q does not exist", op.Target)
	}
	return nil
}

func deepCopyAnyMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func asPosition(value any) ([2]float64, error) {
	var pos [2]float64
	list, ok := value.([]any)
	if !ok || len(list) != 2 {
		return pos, errInvalidPosition
	}
	for i, v := range list {
		f, ok := v.(float64)
		if !ok {
			return pos, errInvalidPosition
		}
		pos[i] = f
	}
	return pos, nil
}
