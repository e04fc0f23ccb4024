package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"api/internal/api/models"
)

const maxTypeSuggestions = 3

// Validator checks a workflow graph for reference, structural and
// expression-syntax problems. It holds no per-request state; one instance
// serves any number of concurrent calls.
type Validator struct {
	catalog NodeCatalog
	aliases AliasTable
	logger  zerolog.Logger
}

func NewValidator(catalog NodeCatalog, logger zerolog.Logger) *Validator {
	return &Validator{
		catalog: catalog,
		aliases: DefaultAliases(),
		logger:  logger,
	}
}

// WithAliases swaps the legacy type-prefix table.
func (slf *Validator) WithAliases(aliases AliasTable) *Validator {
	slf.aliases = aliases
	return slf
}

// Validate runs the selected passes over the workflow and returns the
// aggregated report. Every anomaly in the graph data becomes an Issue;
// only a nil workflow short-circuits.
func (slf *Validator) Validate(wf *models.Workflow, opts ValidateOptions) *ValidationReport {
	report := newReport()

	if wf == nil {
		report.addError("", "workflow is null or undefined")
		return report.finalize()
	}

	if opts.CheckNodes {
		slf.validateNodes(wf, report)
	}
	if opts.CheckConnections {
		slf.validateConnections(wf, report)
	}
	if opts.CheckExpressions {
		slf.validateExpressions(wf, report)
	}

	slf.logger.Debug().
		Str("workflow", wf.Name).
		Int("errors", len(report.Errors)).
		Int("warnings", len(report.Warnings)).
		Msg("Workflow validated")

	return report.finalize()
}

// validateNodes resolves every node against the catalog and checks name
// uniqueness and version currency.
func (slf *Validator) validateNodes(wf *models.Workflow, report *ValidationReport) {
	report.Statistics.TotalNodes = len(wf.Nodes)

	seen := make(map[string]int, len(wf.Nodes))
	for i, node := range wf.Nodes {
		if !node.Disabled {
			report.Statistics.EnabledNodes++
		}

		if first, dup := seen[node.Name]; dup {
			report.addError(node.Name,
				fmt.Sprintf("Duplicate node name %q (nodes #%d and #%d)", node.Name, first+1, i+1))
		} else {
			seen[node.Name] = i
		}

		slf.checkNodeType(node, report)
	}
}

func (slf *Validator) checkNodeType(node models.Node, report *ValidationReport) {
	meta, err := slf.catalog.GetNodeMetadata(node.Type)
	if err == nil {
		if meta.IsTrigger || meta.IsWebhook {
			report.Statistics.TriggerNodes++
		}
		if meta.IsVersioned && node.TypeVersion > 0 && node.TypeVersion < meta.LatestVersion {
			report.addWarning(node.Name,
				fmt.Sprintf("Outdated typeVersion %g for %s; latest is %g", node.TypeVersion, node.Type, meta.LatestVersion))
		}
		return
	}
	if !errors.Is(err, ErrTypeNotFound) {
		report.addError(node.Name, fmt.Sprintf("Failed to resolve node type %q: %v", node.Type, err))
		return
	}

	// A legacy short-prefix form gets a precise correction instead of the
	// generic unknown-type error.
	if corrected, ok := slf.aliases.Resolve(node.Type); ok {
		if _, cerr := slf.catalog.GetNodeMetadata(corrected); cerr == nil {
			report.addError(node.Name,
				fmt.Sprintf("Invalid node type %q: use %q instead", node.Type, corrected))
			return
		}
	}

	issue := Issue{
		NodeName: node.Name,
		Message:  fmt.Sprintf("Unknown node type %q", node.Type),
	}
	if suggestions := slf.catalog.SuggestSimilar(node.Type, maxTypeSuggestions); len(suggestions) > 0 {
		issue.Details = suggestions
		names := make([]string, len(suggestions))
		for i, s := range suggestions {
			names[i] = s.Type
		}
		issue.Message = fmt.Sprintf("Unknown node type %q. Did you mean: %s", node.Type, strings.Join(names, ", "))
	}
	report.Errors = append(report.Errors, issue)
}

// validateExpressions scans every string parameter for templating syntax
// problems.
func (slf *Validator) validateExpressions(wf *models.Workflow, report *ValidationReport) {
	for _, node := range wf.Nodes {
		name := node.Name
		walkStrings(node.Parameters, func(s string) {
			if !strings.Contains(s, exprOpen) && !strings.Contains(s, exprClose) {
				return
			}
			report.Statistics.ExpressionsValidated++
			for _, problem := range checkExpressionSyntax(s) {
				report.addError(name, fmt.Sprintf("Expression error: %s", problem))
			}
		})
	}
}
