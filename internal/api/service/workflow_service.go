package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/engine"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrValidationFailed carries the report of a post-mutation validation that
// blocked a save.
type ErrValidationFailed struct {
	Report *engine.ValidationReport
}

func (slf *ErrValidationFailed) Error() string {
	return "mutated workflow failed validation"
}

// WorkflowService orchestrates the store, the validator and the diff
// engine. The engines themselves never touch persistence.
type WorkflowService struct {
	workflowRepo *repo.WorkflowRepository
	validator    *engine.Validator
	diff         *engine.DiffEngine
	events       *EventPublisher
	logger       zerolog.Logger
}

func NewWorkflowService(catalog engine.NodeCatalog) *WorkflowService {
	return &WorkflowService{
		workflowRepo: repo.NewWorkflowRepository(),
		validator:    engine.NewValidator(catalog, api.Logger),
		diff:         engine.NewDiffEngine(api.Logger),
		events:       NewEventPublisher(),
		logger:       api.Logger,
	}
}

// FindPage lists one page of stored workflows with the total count.
func (slf *WorkflowService) FindPage(page, pageSize int) ([]models.WorkflowRecord, int64, error) {
	records, total, err := slf.workflowRepo.FindPage((page-1)*pageSize, pageSize)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error listing workflows")
	}
	return records, total, err
}

// FindByID loads one stored workflow
func (slf *WorkflowService) FindByID(id string) (*models.WorkflowRecord, error) {
	record, err := slf.workflowRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkflowNotFound
		}
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error loading workflow")
		return nil, err
	}
	return &record, nil
}

// Create parses and stores a new workflow definition
func (slf *WorkflowService) Create(name string, definition models.Document) (*models.WorkflowRecord, error) {
	wf, err := models.ParseWorkflow(definition)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = wf.Name
	}

	record := &models.WorkflowRecord{
		ID:         uuid.NewString(),
		Name:       name,
		Definition: definition,
		Version:    1,
		Tags:       strings.Join(wf.Tags, ","),
	}
	if err := slf.workflowRepo.Create(record); err != nil {
		slf.logger.Error().Err(err).Str("name", name).Msg("Error creating workflow")
		return nil, err
	}
	return record, nil
}

// Update replaces a stored workflow's definition wholesale and bumps the
// version counter.
func (slf *WorkflowService) Update(id, name string, definition models.Document) (*models.WorkflowRecord, error) {
	record, err := slf.FindByID(id)
	if err != nil {
		return nil, err
	}
	wf, err := models.ParseWorkflow(definition)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = wf.Name
	}

	record.Name = name
	record.Definition = definition
	record.Tags = strings.Join(wf.Tags, ",")
	if err := slf.workflowRepo.Save(record); err != nil {
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error updating workflow")
		return nil, err
	}

	slf.events.WorkflowUpdated(WorkflowEvent{
		WorkflowID: record.ID,
		Name:       record.Name,
		Version:    record.Version,
		AppliedAt:  time.Now(),
	})
	return record, nil
}

// Delete removes a stored workflow
func (slf *WorkflowService) Delete(id string) error {
	if _, err := slf.FindByID(id); err != nil {
		return err
	}
	return slf.workflowRepo.Delete(id)
}

// ValidateDefinition runs the validator over a caller-supplied graph.
func (slf *WorkflowService) ValidateDefinition(wf *models.Workflow, opts engine.ValidateOptions) *engine.ValidationReport {
	return slf.validator.Validate(wf, opts)
}

// Validate loads a stored workflow and validates it.
func (slf *WorkflowService) Validate(id string, opts engine.ValidateOptions) (*engine.ValidationReport, error) {
	record, err := slf.FindByID(id)
	if err != nil {
		return nil, err
	}
	wf, err := record.Graph()
	if err != nil {
		return nil, err
	}
	return slf.validator.Validate(wf, opts), nil
}

// ApplyOptions tunes one operations batch.
type ApplyOptions struct {
	ValidateOnly  bool
	ValidateAfter bool
}

// ApplyOperations loads a workflow, applies a batch through the diff
// engine and, unless validateOnly, persists the mutated definition and
// publishes an update event. With ValidateAfter set the mutated graph must
// pass validation before it is accepted.
func (slf *WorkflowService) ApplyOperations(id string, operations []engine.Operation, opts ApplyOptions) (*models.WorkflowRecord, []engine.OperationResult, *engine.ValidationReport, error) {
	record, err := slf.FindByID(id)
	if err != nil {
		return nil, nil, nil, err
	}
	wf, err := record.Graph()
	if err != nil {
		return nil, nil, nil, err
	}

	mutated, results, err := slf.diff.Apply(wf, operations, engine.ApplyOptions{ValidateOnly: opts.ValidateOnly})
	if err != nil {
		return nil, nil, nil, err
	}

	var report *engine.ValidationReport
	if opts.ValidateAfter {
		checked := mutated
		if opts.ValidateOnly {
			// The engine discarded its working copy; rebuild it to
			// validate what would have been saved.
			checked, _, err = slf.diff.Apply(wf, operations, engine.ApplyOptions{})
			if err != nil {
				return nil, nil, nil, err
			}
		}
		report = slf.validator.Validate(checked, engine.DefaultValidateOptions())
		if !report.Valid && !opts.ValidateOnly {
			return nil, results, report, &ErrValidationFailed{Report: report}
		}
	}

	if opts.ValidateOnly {
		return record, results, report, nil
	}

	definition, err := json.Marshal(mutated)
	if err != nil {
		return nil, nil, nil, err
	}
	record.Name = mutated.Name
	record.Definition = definition
	record.Tags = strings.Join(mutated.Tags, ",")
	if err := slf.workflowRepo.Save(record); err != nil {
		slf.logger.Error().Err(err).Str("workflowId", id).Msg("Error saving mutated workflow")
		return nil, nil, nil, err
	}

	slf.events.WorkflowUpdated(WorkflowEvent{
		WorkflowID: record.ID,
		Name:       record.Name,
		Version:    record.Version,
		Operations: len(operations),
		AppliedAt:  time.Now(),
	})

	return record, results, report, nil
}
