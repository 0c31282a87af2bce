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
	"gorm.io/gorm"
)

type CatalogItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogItemMapper
}

func NewCatalogItemRepository(db *gorm.DB) contract.CatalogItemRepository {
	return &CatalogItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogItemMapper(),
	}
}

func (r *CatalogItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CatalogItemRepositoryImpl) Create(ctx context.Context, item *entity.CatalogItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *CatalogItemRepositoryImpl) CreateBulk(ctx context.Context, items []*entity.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]*model.CatalogItem, len(items))
	for i, item := range items {
		models[i] = r.mapper.ToModel(item)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	// Update IDs back to entities
	for i, m := range models {
		*items[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CatalogItemRepositoryImpl) Update(ctx context.Context, item *entity.CatalogItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *CatalogItemRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CatalogItem{}, id).Error
}

func (r *CatalogItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CatalogItem, error) {
	var m model.CatalogItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CatalogItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogItem, error) {
	var models []*model.CatalogItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CatalogItem, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *CatalogItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.CatalogItem{}).Count(&count).Error
	return count, err
}
