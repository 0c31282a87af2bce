package contract

import (
	"context"

	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredCatalogEmbedding wraps CatalogEmbedding with its similarity score
type ScoredCatalogEmbedding struct {
	Embedding  *entity.CatalogEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type CatalogEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.CatalogEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.CatalogEmbedding) error
	Update(ctx context.Context, embedding *entity.CatalogEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCatalogItemId(ctx context.Context, itemId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CatalogEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.CatalogEmbedding, error)
	// SearchSimilarWithScore returns embeddings with their similarity scores, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredCatalogEmbedding, error)
}
