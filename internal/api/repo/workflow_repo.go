package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type WorkflowRepository struct {
	Db *gorm.DB
}

func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{Db: api.DB}
}

// FindByID retrieves a stored workflow by id
func (slf *WorkflowRepository) FindByID(id string) (models.WorkflowRecord, error) {
	var record models.WorkflowRecord
	err := slf.Db.First(&record, "id = ?", id).Error
	return record, err
}

// FindPage retrieves one page of stored workflows, most recently updated
// first, along with the total row count.
func (slf *WorkflowRepository) FindPage(offset, limit int) ([]models.WorkflowRecord, int64, error) {
	var total int64
	if err := slf.Db.Model(&models.WorkflowRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.WorkflowRecord
	err := slf.Db.Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}

// Create stores a new workflow record
func (slf *WorkflowRepository) Create(record *models.WorkflowRecord) error {
	return slf.Db.Create(record).Error
}

// Save persists a mutated definition and bumps the version counter in one
// statement so concurrent writers cannot both win.
func (slf *WorkflowRepository) Save(record *models.WorkflowRecord) error {
	record.Version++
	return slf.Db.Model(&models.WorkflowRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"name":       record.Name,
			"active":     record.Active,
			"definition": record.Definition,
			"version":    record.Version,
			"tags":       record.Tags,
		}).Error
}

// Delete removes a stored workflow
func (slf *WorkflowRepository) Delete(id string) error {
	return slf.Db.Delete(&models.WorkflowRecord{}, "id = ?", id).Error
}
