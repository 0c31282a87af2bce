package unitofwork

import (
	"context"

	"kalkulai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CatalogItemRepository() contract.CatalogItemRepository
	CatalogEmbeddingRepository() contract.CatalogEmbeddingRepository
}
