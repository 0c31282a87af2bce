package mapper

import (
	"time"

	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CatalogEmbeddingMapper struct{}

func NewCatalogEmbeddingMapper() *CatalogEmbeddingMapper {
	return &CatalogEmbeddingMapper{}
}

func (m *CatalogEmbeddingMapper) ToEntity(e *model.CatalogEmbedding) *entity.CatalogEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.CatalogEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CatalogItemId:  e.CatalogItemId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *CatalogEmbeddingMapper) ToModel(e *entity.CatalogEmbedding) *model.CatalogEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.CatalogEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CatalogItemId:  e.CatalogItemId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *CatalogEmbeddingMapper) ToEntities(embeddings []*model.CatalogEmbedding) []*entity.CatalogEmbedding {
	entities := make([]*entity.CatalogEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *CatalogEmbeddingMapper) ToModels(embeddings []*entity.CatalogEmbedding) []*model.CatalogEmbedding {
	models := make([]*model.CatalogEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
