package engine

// Issue is one validation finding, attributed to a node when one is at
// fault.
type Issue struct {
	NodeName string `json:"nodeName,omitempty"`
	Message  string `json:"message"`
	Details  any    `json:"details,omitempty"`
}

// Statistics aggregates what the validator looked at.
type Statistics struct {
	TotalNodes           int `json:"totalNodes"`
	EnabledNodes         int `json:"enabledNodes"`
	TriggerNodes         int `json:"triggerNodes"`
	ValidConnections     int `json:"validConnections"`
	InvalidConnections   int `json:"invalidConnections"`
	ExpressionsValidated int `json:"expressionsValidated"`
}

// ValidationReport is the structured result of a Validate call. Valid is
// true exactly when there are no errors; warnings and suggestions never
// block it.
type ValidationReport struct {
	Valid       bool       `json:"valid"`
	Errors      []Issue    `json:"errors"`
	Warnings    []Issue    `json:"warnings"`
	Suggestions []string   `json:"suggestions"`
	Statistics  Statistics `json:"statistics"`
}

func newReport() *ValidationReport {
	return &ValidationReport{
		Errors:      []Issue{},
		Warnings:    []Issue{},
		Suggestions: []string{},
	}
}

func (slf *ValidationReport) addError(nodeName, message string, details ...any) {
	issue := Issue{NodeName: nodeName, Message: message}
	if len(details) > 0 {
		issue.Details = details[0]
	}
	slf.Errors = append(slf.Errors, issue)
}

func (slf *ValidationReport) addWarning(nodeName, message string, details ...any) {
	issue := Issue{NodeName: nodeName, Message: message}
	if len(details) > 0 {
		issue.Details = details[0]
	}
	slf.Warnings = append(slf.Warnings, issue)
}

func (slf *ValidationReport) finalize() *ValidationReport {
	slf.Valid = len(slf.Errors) == 0
	return slf
}

// ValidateOptions selects which passes run. The zero value is not useful;
// use DefaultValidateOptions for the all-on default.
type ValidateOptions struct {
	CheckNodes       bool `json:"checkNodes"`
	CheckConnections bool `json:"checkConnections"`
	CheckExpressions bool `json:"checkExpressions"`
}

// DefaultValidateOptions enables every pass.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		CheckNodes:       true,
		CheckConnections: true,
		CheckExpressions: true,
	}
}
