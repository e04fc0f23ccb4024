package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/engine"
	"api/pkg"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	catalogEntryTTL = 10 * time.Minute
	catalogListTTL  = 10 * time.Minute
	catalogListKey  = "catalog:all"
	catalogEntryKey = "catalog:type:"
)

// CatalogService serves node type metadata to the validator and the API.
// It satisfies engine.NodeCatalog; lookups go through Redis before hitting
// the catalog table.
type CatalogService struct {
	catalogRepo *repo.CatalogRepository
	scorer      engine.TypeScorer
	logger      zerolog.Logger
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		catalogRepo: repo.NewCatalogRepository(),
		scorer:      engine.DefaultScorer{},
		logger:      api.Logger,
	}
}

// GetNodeMetadata resolves a fully-qualified type key. Unknown types map
// to engine.ErrTypeNotFound so the validator can tell "unknown" from
// "lookup failed".
func (slf *CatalogService) GetNodeMetadata(nodeType string) (engine.NodeMetadata, error) {
	var cached engine.NodeMetadata
	if err := pkg.RedisGet(catalogEntryKey+nodeType, &cached); err == nil {
		return cached, nil
	} else if !pkg.IsRedisNil(err) {
		slf.logger.Warn().Err(err).Str("type", nodeType).Msg("Catalog cache read failed")
	}

	entry, err := slf.catalogRepo.FindByType(nodeType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.NodeMetadata{}, engine.ErrTypeNotFound
		}
		slf.logger.Error().Err(err).Str("type", nodeType).Msg("Error reading catalog entry")
		return engine.NodeMetadata{}, err
	}

	meta := engine.NodeMetadata{
		Type:           entry.Type,
		LatestVersion:  entry.LatestVersion,
		IsVersioned:    entry.IsVersioned,
		IsTrigger:      entry.IsTrigger,
		IsWebhook:      entry.IsWebhook,
		PropertySchema: entry.PropertySchema,
	}
	if err := pkg.RedisSet(catalogEntryKey+nodeType, meta, catalogEntryTTL); err != nil {
		slf.logger.Warn().Err(err).Str("type", nodeType).Msg("Catalog cache write failed")
	}
	return meta, nil
}

// SuggestSimilar ranks the whole catalog against an unknown type key.
func (slf *CatalogService) SuggestSimilar(invalidType string, limit int) []engine.TypeSuggestion {
	entries, err := slf.listAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error listing catalog for suggestions")
		return nil
	}
	return engine.RankSuggestions(slf.scorer, invalidType, entries, limit)
}

// FindAll lists the catalog for the API.
func (slf *CatalogService) FindAll() ([]models.CatalogNode, error) {
	return slf.listAll()
}

// Register upserts catalog entries and drops the affected cache keys.
func (slf *CatalogService) Register(nodes []models.CatalogNode) error {
	if err := slf.catalogRepo.Upsert(nodes); err != nil {
		slf.logger.Error().Err(err).Int("count", len(nodes)).Msg("Error upserting catalog entries")
		return err
	}
	if err := pkg.RedisDelete(catalogListKey); err != nil && !pkg.IsRedisNil(err) {
		slf.logger.Warn().Err(err).Msg("Catalog list cache invalidation failed")
	}
	for _, n := range nodes {
		if err := pkg.RedisDelete(catalogEntryKey + n.Type); err != nil && !pkg.IsRedisNil(err) {
			slf.logger.Warn().Err(err).Str("type", n.Type).Msg("Catalog entry cache invalidation failed")
		}
	}
	return nil
}

func (slf *CatalogService) listAll() ([]models.CatalogNode, error) {
	var cached []models.CatalogNode
	if err := pkg.RedisGet(catalogListKey, &cached); err == nil {
		return cached, nil
	} else if !pkg.IsRedisNil(err) {
		slf.logger.Warn().Err(err).Msg("Catalog list cache read failed")
	}

	entries, err := slf.catalogRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if err := pkg.RedisSet(catalogListKey, entries, catalogListTTL); err != nil {
		slf.logger.Warn().Err(err).Msg("Catalog list cache write failed")
	}
	return entries, nil
}
