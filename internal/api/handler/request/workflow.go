package request

import (
	"api/internal/api/models"
	"api/internal/engine"
)

// ListWorkflows carries pagination query parameters; zero values fall back
// to the first page with the default size.
type ListWorkflows struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type CreateWorkflow struct {
	Name       string          `json:"name"`
	Definition models.Document `json:"definition" validate:"required"`
}

// UpdateWorkflow replaces a stored definition wholesale.
type UpdateWorkflow struct {
	Name       string          `json:"name"`
	Definition models.Document `json:"definition" validate:"required"`
}

// ValidateWorkflow carries a caller-supplied graph plus pass selection.
// Omitted options default to all passes on.
type ValidateWorkflow struct {
	Workflow *models.Workflow        `json:"workflow" validate:"required"`
	Options  *engine.ValidateOptions `json:"options,omitempty"`
}

// ApplyOperations is the wire shape of an operation batch:
// {"id": ..., "operations": [...], "validateOnly": false}
type ApplyOperations struct {
	Operations    []engine.Operation `json:"operations" validate:"required,min=1"`
	ValidateOnly  bool               `json:"validateOnly"`
	ValidateAfter bool               `json:"validateAfter"`
}

type RegisterCatalogNodes struct {
	Nodes []models.CatalogNode `json:"nodes" validate:"required,min=1,dive"`
}
