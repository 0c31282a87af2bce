package entity

import (
	"time"

	"github.com/google/uuid"
)

type CatalogEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	CatalogItemId  uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
