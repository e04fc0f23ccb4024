package mapper

import (
	"strings"

	"api/internal/api/handler/response"
	"api/internal/api/models"
)

type WorkflowMapper struct{}

func NewWorkflowMapper() WorkflowMapper {
	return WorkflowMapper{}
}

func (slf WorkflowMapper) ToResponse(record models.WorkflowRecord) response.Workflow {
	var tags []string
	if record.Tags != "" {
		tags = strings.Split(record.Tags, ",")
	}
	return response.Workflow{
		ID:        record.ID,
		Name:      record.Name,
		Active:    record.Active,
		Version:   record.Version,
		Tags:      tags,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (slf WorkflowMapper) ToResponses(records []models.WorkflowRecord) []response.Workflow {
	out := make([]response.Workflow, 0, len(records))
	for _, r := range records {
		out = append(out, slf.ToResponse(r))
	}
	return out
}

func (slf WorkflowMapper) ToResponseWithDefinition(record models.WorkflowRecord) response.WorkflowWithDefinition {
	return response.WorkflowWithDefinition{
		Workflow:   slf.ToResponse(record),
		Definition: record.Definition,
	}
}
