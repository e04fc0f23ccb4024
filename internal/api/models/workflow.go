package models

import (
	"encoding/json"
	"errors"
)

// Workflow is the in-memory graph model built from the wire JSON. It is
// constructed fresh per request, mutated by the diff engine on a private
// copy, and discarded after the response is produced.
type Workflow struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Active      bool           `json:"active,omitempty"`
	Nodes       []Node         `json:"nodes"`
	Connections ConnectionMap  `json:"connections"`
	Settings    map[string]any `json:"settings,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

// ParseWorkflow decodes wire JSON into a Workflow.
func ParseWorkflow(data []byte) (*Workflow, error) {
	if len(data) == 0 {
		return nil, errors.New("workflow definition is empty")
	}
	var wf Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// NodeByName returns the node with the given name, or nil.
func (slf *Workflow) NodeByName(name string) *Node {
	for i := range slf.Nodes {
		if slf.Nodes[i].Name == name {
			return &slf.Nodes[i]
		}
	}
	return nil
}

// NodeByID returns the node with the given id, or nil. Used to produce a
// better error when a connection references an id where a name belongs.
func (slf *Workflow) NodeByID(id string) *Node {
	if id == "" {
		return nil
	}
	for i := range slf.Nodes {
		if slf.Nodes[i].ID == id {
			return &slf.Nodes[i]
		}
	}
	return nil
}

// HasNode reports whether a node with the given name exists.
func (slf *Workflow) HasNode(name string) bool {
	return slf.NodeByName(name) != nil
}

// Clone deep-copies the workflow so the diff engine can mutate a private
// copy and keep the caller's graph untouched on rejection.
func (slf *Workflow) Clone() *Workflow {
	out := &Workflow{
		ID:     slf.ID,
		Name:   slf.Name,
		Active: slf.Active,
	}
	if slf.Nodes != nil {
		out.Nodes = make([]Node, len(slf.Nodes))
		for i, n := range slf.Nodes {
			out.Nodes[i] = n.Clone()
		}
	}
	out.Connections = slf.Connections.Clone()
	out.Settings = deepCopyMap(slf.Settings)
	if slf.Tags != nil {
		out.Tags = append([]string(nil), slf.Tags...)
	}
	return out
}

// RemoveNode drops the named node and every connection that references it,
// in both directions. It reports whether the node existed.
func (slf *Workflow) RemoveNode(name string) bool {
	idx := -1
	for i := range slf.Nodes {
		if slf.Nodes[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	slf.Nodes = append(slf.Nodes[:idx], slf.Nodes[idx+1:]...)
	slf.Connections.RemoveNode(name)
	return true
}

// RenameNode rewrites a node name and every connection referencing it.
func (slf *Workflow) RenameNode(oldName, newName string) bool {
	node := slf.NodeByName(oldName)
	if node == nil {
		return false
	}
	node.Name = newName
	slf.Connections.RenameNode(oldName, newName)
	return true
}

// HasConnections reports whether any edge is populated. An all-empty
// connection map counts as no connections.
func (slf *Workflow) HasConnections() bool {
	for _, channels := range slf.Connections {
		for _, outputs := range channels {
			for _, targets := range outputs {
				if len(targets) > 0 {
					return true
				}
			}
		}
	}
	return false
}

// MergeSettings deep-merges patch into the workflow settings.
func (slf *Workflow) MergeSettings(patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	if slf.Settings == nil {
		slf.Settings = make(map[string]any, len(patch))
	}
	deepMerge(slf.Settings, patch)
}

// AddTag appends a tag if not already present.
func (slf *Workflow) AddTag(tag string) {
	for _, t := range slf.Tags {
		if t == tag {
			return
		}
	}
	slf.Tags = append(slf.Tags, tag)
}

// RemoveTag drops a tag; absent tags are a no-op.
func (slf *Workflow) RemoveTag(tag string) {
	kept := slf.Tags[:0]
	for _, t := range slf.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	slf.Tags = kept
}
