package endpoints

import (
	"api"
	"api/internal/api/handler/mapper"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/service"
	"api/internal/engine"
	"api/pkg"
	"errors"
	"net/http"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type workflowHandler struct {
	workflowService *service.WorkflowService
	workflowMapper  mapper.WorkflowMapper
	config          api.AppConfig
	logger          zerolog.Logger
}

func newWorkflowHandler(workflowService *service.WorkflowService) *workflowHandler {
	return &workflowHandler{
		workflowService: workflowService,
		workflowMapper:  mapper.NewWorkflowMapper(),
		config:          api.GetConfig(),
		logger:          api.Logger,
	}
}

func WorkflowHandler(router *graceful.Graceful, workflowService *service.WorkflowService) {
	h := newWorkflowHandler(workflowService)

	routes := router.Group("/api/v1/workflows")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.getAll)
		routes.GET("/:id", h.getByID)
		routes.POST("", h.create)
		routes.PUT("/:id", h.update)
		routes.DELETE("/:id", h.delete)

		routes.POST("/validate", h.validateDefinition)
		routes.POST("/:id/validate", h.validateStored)
		routes.POST("/:id/operations", h.applyOperations)
	}
}

// getAll returns a page of stored workflows without their definitions
func (slf *workflowHandler) getAll(c *gin.Context) {
	var query request.ListWorkflows
	if err := pkg.ParseQuery(c, &query); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid pagination parameters", Data: err.Error()})
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = 20
	}

	records, total, err := slf.workflowService.FindPage(query.Page, query.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve workflows"})
		return
	}

	totalPages := int((total + int64(query.PageSize) - 1) / int64(query.PageSize))
	c.JSON(http.StatusOK, response.Page[response.Workflow]{
		Data:       slf.workflowMapper.ToResponses(records),
		Total:      total,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalPages: totalPages,
	})
}

// getByID returns a single workflow with its definition
func (slf *workflowHandler) getByID(c *gin.Context) {
	record, err := slf.workflowService.FindByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrWorkflowNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve workflow"})
		return
	}
	c.JSON(http.StatusOK, slf.workflowMapper.ToResponseWithDefinition(*record))
}

func (slf *workflowHandler) create(c *gin.Context) {
	var req request.CreateWorkflow
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid request", Data: err.Error()})
		return
	}

	record, err := slf.workflowService.Create(req.Name, req.Definition)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid workflow definition", Data: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, slf.workflowMapper.ToResponseWithDefinition(*record))
}

func (slf *workflowHandler) update(c *gin.Context) {
	var req request.UpdateWorkflow
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid request", Data: err.Error()})
		return
	}

	record, err := slf.workflowService.Update(c.Param("id"), req.Name, req.Definition)
	if err != nil {
		if errors.Is(err, service.ErrWorkflowNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Workflow not found"})
			return
		}
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid workflow definition", Data: err.Error()})
		return
	}
	c.JSON(http.StatusOK, slf.workflowMapper.ToResponseWithDefinition(*record))
}

func (slf *workflowHandler) delete(c *gin.Context) {
	err := slf.workflowService.Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrWorkflowNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to delete workflow"})
		return
	}
	c.Status(http.StatusNoContent)
}

// validateDefinition validates a caller-supplied graph without storing it
func (slf *workflowHandler) validateDefinition(c *gin.Context) {
	var req request.ValidateWorkflow
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid request", Data: err.Error()})
		return
	}

	opts := engine.DefaultValidateOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	c.JSON(http.StatusOK, slf.workflowService.ValidateDefinition(req.Workflow, opts))
}

// validateStored validates a stored workflow by id
func (slf *workflowHandler) validateStored(c *gin.Context) {
	report, err := slf.workflowService.Validate(c.Param("id"), engine.DefaultValidateOptions())
	if err != nil {
		if errors.Is(err, service.ErrWorkflowNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Workflow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to validate workflow"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// applyOperations runs an operation batch against a stored workflow
func (slf *workflowHandler) applyOperations(c *gin.Context) {
	var req request.ApplyOperations
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid request", Data: err.Error()})
		return
	}

	record, results, report, err := slf.workflowService.ApplyOperations(c.Param("id"), req.Operations, service.ApplyOptions{
		ValidateOnly:  req.ValidateOnly,
		ValidateAfter: req.ValidateAfter,
	})
	if err != nil {
		slf.rejectOperations(c, err, results, report)
		return
	}

	resp := response.OperationsApplied{Results: results, Validation: report}
	if !req.ValidateOnly {
		withDef := slf.workflowMapper.ToResponseWithDefinition(*record)
		resp.Workflow = &withDef
	}
	c.JSON(http.StatusOK, resp)
}

func (slf *workflowHandler) rejectOperations(c *gin.Context, err error, results []engine.OperationResult, report *engine.ValidationReport) {
	if errors.Is(err, service.ErrWorkflowNotFound) {
		c.JSON(http.StatusNotFound, response.APIError{Message: "Workflow not found"})
		return
	}

	var opErr *engine.OperationError
	if errors.As(err, &opErr) {
		c.JSON(http.StatusUnprocessableEntity, response.OperationsRejected{
			Index:   opErr.Index,
			Type:    string(opErr.Type),
			Message: opErr.Reason,
		})
		return
	}

	var failed *service.ErrValidationFailed
	if errors.As(err, &failed) {
		c.JSON(http.StatusUnprocessableEntity, response.OperationsApplied{
			Results:    results,
			Validation: failed.Report,
		})
		return
	}

	slf.logger.Error().Err(err).Str("workflowId", c.Param("id")).Msg("Failed to apply operations")
	c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to apply operations"})
}
