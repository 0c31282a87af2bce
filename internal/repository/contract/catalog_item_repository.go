package contract

import (
	"context"

	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CatalogItemRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	CreateBulk(ctx context.Context, items []*entity.CatalogItem) error
	Update(ctx context.Context, item *entity.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CatalogItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
