package models

import "time"

// WorkflowRecord is the stored form of a workflow. The graph itself lives
// in Definition as raw jsonb; Version is bumped on every save so concurrent
// editors can detect lost updates at the store layer.
type WorkflowRecord struct {
	ID         string   `gorm:"primaryKey" json:"id"`
	Name       string   `json:"name"`
	Active     bool     `json:"active"`
	Definition Document `gorm:"type:jsonb" json:"definition"`
	Version    int      `json:"version"`
	Tags       string   `json:"tags"` // comma-separated, denormalized for listing
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Graph decodes the stored definition into the in-memory model.
func (slf WorkflowRecord) Graph() (*Workflow, error) {
	wf, err := ParseWorkflow(slf.Definition)
	if err != nil {
		return nil, err
	}
	if wf.ID == "" {
		wf.ID = slf.ID
	}
	return wf, nil
}
