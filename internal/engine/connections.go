package engine

import (
	"fmt"
	"sort"
	"strings"

	"api/internal/api/models"
)

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validateConnections checks endpoint resolution, overall connectivity,
// main-path acyclicity and the error-output routing convention. Skipped
// for workflows of zero or one node, where only the trigger-shape warning
// applies.
func (slf *Validator) validateConnections(wf *models.Workflow, report *ValidationReport) {
	if len(wf.Nodes) <= 1 {
		if len(wf.Nodes) == 1 && !slf.isTriggerShaped(wf.Nodes[0]) {
			report.addWarning(wf.Nodes[0].Name,
				"Single-node workflow without a trigger or webhook node will never run")
		}
		return
	}

	if !wf.HasConnections() {
		report.addError("",
			fmt.Sprintf("Multi-node workflow has no connections; %d nodes are defined but nothing is wired together", len(wf.Nodes)))
		return
	}

	slf.checkEndpoints(wf, report)
	slf.checkCycles(wf, report)
	for _, node := range wf.Nodes {
		slf.checkErrorRouting(wf, node, report)
	}
}

// checkEndpoints verifies every connection endpoint resolves to a node
// name, giving a more helpful message when an id was used instead.
func (slf *Validator) checkEndpoints(wf *models.Workflow, report *ValidationReport) {
	resolve := func(name string) {
		if wf.HasNode(name) {
			report.Statistics.ValidConnections++
			return
		}
		report.Statistics.InvalidConnections++
		if byID := wf.NodeByID(name); byID != nil {
			report.addError(byID.Name,
				fmt.Sprintf("Connection uses node ID %q where a node name belongs; use %q instead", name, byID.Name))
			return
		}
		report.addError("", fmt.Sprintf("Connection references unknown node %q", name))
	}

	// Sorted iteration keeps error ordering stable across runs.
	for _, source := range sortedKeys(wf.Connections) {
		resolve(source)
		channels := wf.Connections[source]
		for _, channel := range sortedKeys(channels) {
			for _, targets := range channels[channel] {
				for _, target := range targets {
					resolve(target.Node)
				}
			}
		}
	}
}

// checkCycles runs a DFS over main-output edges only. Error-output edges
// (main index 1) may legitimately loop back toward earlier stages, so they
// are excluded.
func (slf *Validator) checkCycles(wf *models.Workflow, report *ValidationReport) {
	adjacency := make(map[string][]string)
	for source, channels := range wf.Connections {
		for _, target := range channels.Targets(models.ChannelMain, models.MainOutput) {
			adjacency[source] = append(adjacency[source], target.Node)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	reported := make(map[string]bool)

	var dfs func(name string)
	dfs = func(name string) {
		color[name] = gray
		for _, next := range adjacency[name] {
			switch color[next] {
			case gray:
				key := name + "->" + next
				if !reported[key] {
					reported[key] = true
					report.addError(name,
						fmt.Sprintf("Cycle detected on the main path: %q connects back to %q", name, next))
				}
			case white:
				dfs(next)
			}
		}
		color[name] = black
	}

	for _, node := range wf.Nodes {
		if color[node.Name] == white {
			dfs(node.Name)
		}
	}
}

// checkErrorRouting flags error-handler-looking targets crammed into the
// success output, and onError/error-output mismatches in both directions.
func (slf *Validator) checkErrorRouting(wf *models.Workflow, node models.Node, report *ValidationReport) {
	channels := wf.Connections[node.Name]
	mainTargets := channels.Targets(models.ChannelMain, models.MainOutput)
	errorTargets := channels.Targets(models.ChannelMain, models.ErrorOutput)

	if len(mainTargets) > 1 {
		for _, target := range mainTargets {
			if !slf.looksLikeErrorHandler(wf, target.Node) {
				continue
			}
			report.addError(node.Name, fmt.Sprintf(
				"Incorrect error output configuration on %q: %q looks like an error handler but shares main[0] with the success targets; move it to main[1] and set onError: %q on %q",
				node.Name, target.Node, models.OnErrorContinueError, node.Name))
			break
		}
	}

	if node.OnError == models.OnErrorContinueError && len(errorTargets) == 0 {
		report.addWarning(node.Name,
			fmt.Sprintf("%q declares onError: %q but has no error output connections (main[1] is empty)", node.Name, models.OnErrorContinueError))
	}
	if node.OnError != models.OnErrorContinueError && len(errorTargets) > 0 {
		report.addWarning(node.Name,
			fmt.Sprintf("%q has error output connections on main[1] but onError is not %q", node.Name, models.OnErrorContinueError))
	}
}

// looksLikeErrorHandler is the structural heuristic for dedicated failure
// targets: a name containing "error", or a node type conventionally used
// for failure responses.
func (slf *Validator) looksLikeErrorHandler(wf *models.Workflow, name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "error") {
		return true
	}
	node := wf.NodeByName(name)
	if node == nil {
		return false
	}
	typeShort := strings.ToLower(node.Type)
	if i := strings.LastIndex(typeShort, "."); i >= 0 {
		typeShort = typeShort[i+1:]
	}
	switch {
	case strings.Contains(typeShort, "error"):
		return true
	case typeShort == "respondtowebhook" && strings.Contains(lower, "fail"):
		return true
	}
	return false
}

// isTriggerShaped decides whether a lone node can start a workflow on its
// own: catalog-declared triggers and webhooks, with a name/type fallback
// when the catalog does not know the type.
func (slf *Validator) isTriggerShaped(node models.Node) bool {
	if meta, err := slf.catalog.GetNodeMetadata(node.Type); err == nil {
		return meta.IsTrigger || meta.IsWebhook
	}
	lower := strings.ToLower(node.Type)
	return strings.Contains(lower, "trigger") || strings.Contains(lower, "webhook")
}
