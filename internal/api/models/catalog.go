package models

// CatalogNode describes one known node type: its fully-qualified type key,
// latest version and property schema. The validator resolves every node of
// a workflow against this table.
type CatalogNode struct {
	Type           string   `gorm:"primaryKey" json:"type"`
	DisplayName    string   `json:"displayName"`
	Category       string   `json:"category"`
	Package        string   `json:"package"`
	LatestVersion  float64  `json:"latestVersion"`
	IsVersioned    bool     `json:"isVersioned"`
	IsTrigger      bool     `json:"isTrigger"`
	IsWebhook      bool     `json:"isWebhook"`
	PropertySchema Document `gorm:"type:jsonb" json:"propertySchema,omitempty"`
}
