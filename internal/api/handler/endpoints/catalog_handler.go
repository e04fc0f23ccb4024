package endpoints

import (
	"api"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/service"
	"api/internal/engine"
	"api/pkg"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type catalogHandler struct {
	catalogService *service.CatalogService
	config         api.AppConfig
	logger         zerolog.Logger
}

func newCatalogHandler(catalogService *service.CatalogService) *catalogHandler {
	return &catalogHandler{
		catalogService: catalogService,
		config:         api.GetConfig(),
		logger:         api.Logger,
	}
}

func CatalogHandler(router *graceful.Graceful, catalogService *service.CatalogService) {
	h := newCatalogHandler(catalogService)

	routes := router.Group("/api/v1/catalog")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.getAll)
		routes.GET("/:type", h.getByType)
		routes.GET("/:type/similar", h.suggestSimilar)
		routes.POST("", h.register)
	}
}

func (slf *catalogHandler) getAll(c *gin.Context) {
	entries, err := slf.catalogService.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to list catalog"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (slf *catalogHandler) getByType(c *gin.Context) {
	meta, err := slf.catalogService.GetNodeMetadata(c.Param("type"))
	if err != nil {
		if errors.Is(err, engine.ErrTypeNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Unknown node type"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to read catalog"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

// suggestSimilar ranks known types against an unknown one; used by editor
// tooling to offer corrections.
func (slf *catalogHandler) suggestSimilar(c *gin.Context) {
	limit := 3
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, response.APIError{Message: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, slf.catalogService.SuggestSimilar(c.Param("type"), limit))
}

func (slf *catalogHandler) register(c *gin.Context) {
	var req request.RegisterCatalogNodes
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid request", Data: err.Error()})
		return
	}

	if err := slf.catalogService.Register(req.Nodes); err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to register catalog entries"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"registered": len(req.Nodes)})
}
