package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository struct {
	Db *gorm.DB
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{Db: api.DB}
}

// FindByType retrieves one catalog entry by its fully-qualified type key
func (slf *CatalogRepository) FindByType(nodeType string) (models.CatalogNode, error) {
	var node models.CatalogNode
	err := slf.Db.First(&node, "type = ?", nodeType).Error
	return node, err
}

// FindAll retrieves the whole catalog, ordered by type key
func (slf *CatalogRepository) FindAll() ([]models.CatalogNode, error) {
	var nodes []models.CatalogNode
	err := slf.Db.Order("type").Find(&nodes).Error
	return nodes, err
}

// Upsert inserts or replaces catalog entries by type key
func (slf *CatalogRepository) Upsert(nodes []models.CatalogNode) error {
	if len(nodes) == 0 {
		return nil
	}
	return slf.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		UpdateAll: true,
	}).Create(&nodes).Error
}

// Count returns the number of known node types
func (slf *CatalogRepository) Count() (int64, error) {
	var count int64
	err := slf.Db.Model(&models.CatalogNode{}).Count(&count).Error
	return count, err
}
