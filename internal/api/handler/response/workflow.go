package response

import (
	"time"

	"api/internal/api/models"
	"api/internal/engine"
)

// Workflow response without the definition (for listing)
type Workflow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Version   int       `json:"version"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkflowWithDefinition includes the stored graph (for single get)
type WorkflowWithDefinition struct {
	Workflow
	Definition models.Document `json:"definition"`
}

// OperationsApplied is the success shape of an operations batch: one entry
// per operation in the caller's original order.
type OperationsApplied struct {
	Workflow   *WorkflowWithDefinition  `json:"workflow,omitempty"`
	Results    []engine.OperationResult `json:"results"`
	Validation *engine.ValidationReport `json:"validation,omitempty"`
}

// OperationsRejected identifies the offending operation and reason.
type OperationsRejected struct {
	Index   int    `json:"index"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}
