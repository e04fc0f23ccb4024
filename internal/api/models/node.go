package models

// OnError controls where a node routes its failures.
type OnError string

const (
	OnErrorStopWorkflow    OnError = "stopWorkflow"
	OnErrorContinueRegular OnError = "continueRegularOutput"
	OnErrorContinueError   OnError = "continueErrorOutput"
)

// Node is one step of a workflow graph as it appears on the wire.
// Connections reference nodes by Name, not ID; the editor keeps names
// unique within a workflow and the validator enforces it.
type Node struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TypeVersion float64        `json:"typeVersion,omitempty"`
	Position    [2]float64     `json:"position"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Credentials map[string]any `json:"credentials,omitempty"`
	OnError     OnError        `json:"onError,omitempty"`
	Disabled    bool           `json:"disabled,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

// Clone returns a deep copy of the node. Parameters and Credentials are
// copied through deepCopyMap so callers can mutate the copy freely.
func (slf Node) Clone() Node {
	out := slf
	out.Parameters = deepCopyMap(slf.Parameters)
	out.Credentials = deepCopyMap(slf.Credentials)
	return out
}

func deepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// MergeParameters deep-merges patch into the node's parameters: nested maps
// merge key by key, everything else (including slices) is replaced.
func (slf *Node) MergeParameters(patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	if slf.Parameters == nil {
		slf.Parameters = make(map[string]any, len(patch))
	}
	deepMerge(slf.Parameters, patch)
}

func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				deepMerge(existing, sub)
				continue
			}
			dst[k] = deepCopyMap(sub)
			continue
		}
		dst[k] = deepCopyValue(v)
	}
}
