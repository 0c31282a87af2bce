package service

import (
	"context"

	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/repository/specification"
	"kalkulai-be/internal/repository/unitofwork"
	"kalkulai-be/pkg/embedding"
	"kalkulai-be/pkg/rank"

	"github.com/google/uuid"
)

// CatalogVectorSource serves ranked candidate documents out of the pgvector
// index. It is the primary document source of the ranker; the ranker falls
// back to the lexical snapshot path when this source errors or comes up empty.
type CatalogVectorSource struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	threshold         float64
}

func NewCatalogVectorSource(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	threshold float64,
) *CatalogVectorSource {
	if threshold <= 0 {
		threshold = 0.35 // balanced default for recall
	}
	return &CatalogVectorSource{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		threshold:         threshold,
	}
}

func (s *CatalogVectorSource) FetchCandidates(ctx context.Context, query string, limit int) ([]rank.Document, error) {
	res, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.CatalogEmbeddingRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, limit, s.threshold)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	// Deduplicate item ids while preserving similarity order
	// (multiple chunks of the same item may be in the top K).
	ids := make([]uuid.UUID, 0, len(scored))
	seen := make(map[uuid.UUID]bool, len(scored))
	for _, sr := range scored {
		if !seen[sr.Embedding.CatalogItemId] {
			ids = append(ids, sr.Embedding.CatalogItemId)
			seen[sr.Embedding.CatalogItemId] = true
		}
	}

	items, err := uow.CatalogItemRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.CatalogItem, len(items))
	for _, item := range items {
		byId[item.Id] = item
	}

	docs := make([]rank.Document, 0, len(ids))
	for _, id := range ids {
		item, ok := byId[id]
		if !ok {
			continue // deleted between search and fetch
		}
		docs = append(docs, rank.Document{
			SKU:      item.SKU,
			Name:     item.Name,
			Unit:     item.Unit,
			Category: item.Category,
			Brand:    item.Brand,
			Synonyms: item.Synonyms,
		})
	}
	return docs, nil
}
