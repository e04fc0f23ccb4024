package engine

import (
	"errors"

	"api/internal/api/models"
)

// ErrTypeNotFound is returned by a NodeCatalog when a type key is unknown.
var ErrTypeNotFound = errors.New("node type not found")

// NodeMetadata is what the validator needs to know about a node type.
type NodeMetadata struct {
	Type           string
	LatestVersion  float64
	IsVersioned    bool
	IsTrigger      bool
	IsWebhook      bool
	PropertySchema models.Document
}

// TypeSuggestion is one similarity-ranked alternative for an unknown type.
type TypeSuggestion struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// NodeCatalog resolves node type keys against the known node catalog. The
// engine never talks to storage directly; the service layer implements this
// over the catalog table with a Redis cache in front.
type NodeCatalog interface {
	// GetNodeMetadata returns metadata for a fully-qualified type key, or
	// ErrTypeNotFound.
	GetNodeMetadata(nodeType string) (NodeMetadata, error)

	// SuggestSimilar ranks known types by similarity to an unknown one.
	// Used only to enrich "unknown node type" errors.
	SuggestSimilar(invalidType string, limit int) []TypeSuggestion
}
