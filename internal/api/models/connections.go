package models

// Connection channel names. Output index 0 on "main" carries the success
// path; index 1 carries the error path when the source node's OnError is
// continueErrorOutput.
const (
	ChannelMain = "main"

	MainOutput  = 0
	ErrorOutput = 1
)

// ConnectionTarget is one endpoint of a directed edge: the target node's
// name plus the input channel and index it receives on.
type ConnectionTarget struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NodeOutputs maps a channel name ("main") to an array of output indexes,
// each holding the list of targets fanned out from that index. This is the
// wire shape the visual editor produces: outputIndex -> []target.
type NodeOutputs map[string][][]ConnectionTarget

// ConnectionMap keys every outgoing edge set by source node name.
type ConnectionMap map[string]NodeOutputs

// Targets returns the target list at (channel, index), or nil when the
// channel or index is not populated.
func (slf NodeOutputs) Targets(channel string, index int) []ConnectionTarget {
	outputs, ok := slf[channel]
	if !ok || index < 0 || index >= len(outputs) {
		return nil
	}
	return outputs[index]
}

// Clone deep-copies the connection map.
func (slf ConnectionMap) Clone() ConnectionMap {
	if slf == nil {
		return nil
	}
	out := make(ConnectionMap, len(slf))
	for source, channels := range slf {
		cc := make(NodeOutputs, len(channels))
		for channel, indexes := range channels {
			ii := make([][]ConnectionTarget, len(indexes))
			for i, targets := range indexes {
				if targets == nil {
					continue
				}
				ii[i] = make([]ConnectionTarget, len(targets))
				copy(ii[i], targets)
			}
			cc[channel] = ii
		}
		out[source] = cc
	}
	return out
}

// Has reports whether an edge from source (channel, sourceIndex) to the
// given target already exists.
func (slf ConnectionMap) Has(source, channel string, sourceIndex int, target ConnectionTarget) bool {
	for _, t := range slf[source].Targets(channel, sourceIndex) {
		if t == target {
			return true
		}
	}
	return false
}

// Add appends an edge, growing the output-index array as needed. Adding an
// edge that already exists is a no-op.
func (slf ConnectionMap) Add(source, channel string, sourceIndex int, target ConnectionTarget) {
	if slf.Has(source, channel, sourceIndex, target) {
		return
	}
	channels, ok := slf[source]
	if !ok {
		channels = make(NodeOutputs)
		slf[source] = channels
	}
	outputs := channels[channel]
	for len(outputs) <= sourceIndex {
		outputs = append(outputs, []ConnectionTarget{})
	}
	outputs[sourceIndex] = append(outputs[sourceIndex], target)
	channels[channel] = outputs
}

// Remove drops every edge from source to targetNode on the given channel
// and source index. It reports whether anything was removed.
func (slf ConnectionMap) Remove(source, channel string, sourceIndex int, targetNode string) bool {
	channels, ok := slf[source]
	if !ok {
		return false
	}
	outputs := channels[channel]
	if sourceIndex < 0 || sourceIndex >= len(outputs) {
		return false
	}
	kept := outputs[sourceIndex][:0]
	removed := false
	for _, t := range outputs[sourceIndex] {
		if t.Node == targetNode {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	outputs[sourceIndex] = kept
	return removed
}

// RemoveNode strips every edge that references name, as source or target.
func (slf ConnectionMap) RemoveNode(name string) {
	delete(slf, name)
	for source, channels := range slf {
		for channel, outputs := range channels {
			for i, targets := range outputs {
				kept := targets[:0]
				for _, t := range targets {
					if t.Node != name {
						kept = append(kept, t)
					}
				}
				outputs[i] = kept
			}
			channels[channel] = outputs
		}
		slf[source] = channels
	}
}

// RenameNode rewrites every reference to oldName, as source key or target.
func (slf ConnectionMap) RenameNode(oldName, newName string) {
	if channels, ok := slf[oldName]; ok {
		delete(slf, oldName)
		slf[newName] = channels
	}
	for _, channels := range slf {
		for _, outputs := range channels {
			for _, targets := range outputs {
				for i := range targets {
					if targets[i].Node == oldName {
						targets[i].Node = newName
					}
				}
			}
		}
	}
}
