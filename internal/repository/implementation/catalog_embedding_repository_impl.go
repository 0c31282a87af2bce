package implementation

import (
	"context"
	"errors"

	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/mapper"
	"kalkulai-be/internal/model"
	"kalkulai-be/internal/repository/contract"
	"kalkulai-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CatalogEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogEmbeddingMapper
}

func NewCatalogEmbeddingRepository(db *gorm.DB) contract.CatalogEmbeddingRepository {
	return &CatalogEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogEmbeddingMapper(),
	}
}

func (r *CatalogEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CatalogEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.CatalogEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *CatalogEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.CatalogEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.CatalogEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	// Update IDs back to entities
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CatalogEmbeddingRepositoryImpl) Update(ctx context.Context, embedding *entity.CatalogEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *CatalogEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CatalogEmbedding{}, id).Error
}

func (r *CatalogEmbeddingRepositoryImpl) DeleteByCatalogItemId(ctx context.Context, itemId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("catalog_item_id = ?", itemId).Delete(&model.CatalogEmbedding{}).Error
}

func (r *CatalogEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CatalogEmbedding, error) {
	var m model.CatalogEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CatalogEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogEmbedding, error) {
	var models []*model.CatalogEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CatalogEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *CatalogEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.CatalogEmbedding{}).Count(&count).Error
	return count, err
}

func (r *CatalogEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.CatalogEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.CatalogEmbedding

	// Using pgvector cosine distance: embedding_value <=> vector
	// Filter out soft-deleted embeddings AND catalog items
	err := r.db.WithContext(ctx).
		Joins("JOIN catalog_items ON catalog_items.id = catalog_embeddings.catalog_item_id").
		Where("catalog_embeddings.deleted_at IS NULL").
		Where("catalog_items.deleted_at IS NULL").
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	entities := make([]*entity.CatalogEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// SearchSimilarWithScore returns embeddings with similarity scores, filtered by threshold
func (r *CatalogEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredCatalogEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.CatalogEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("catalog_embeddings").
		Select("catalog_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN catalog_items ON catalog_items.id = catalog_embeddings.catalog_item_id").
		Where("catalog_embeddings.deleted_at IS NULL").
		Where("catalog_items.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredCatalogEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredCatalogEmbedding{
			Embedding:  r.mapper.ToEntity(&res.CatalogEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
