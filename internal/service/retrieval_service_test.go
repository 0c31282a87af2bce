package service

import (
	"context"
	"testing"
	"time"

	"kalkulai-be/internal/dto"
	"kalkulai-be/internal/repository/memory"
	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/rank"
	"kalkulai-be/pkg/textnorm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalogService serves a fixed snapshot and counts how often it is asked.
type stubCatalogService struct {
	entries       []catalog.Entry
	business      catalog.BusinessConfig
	snapshotCalls int
}

func (s *stubCatalogService) Create(ctx context.Context, req *dto.CreateCatalogItemRequest) (*dto.CreateCatalogItemResponse, error) {
	return nil, nil
}

func (s *stubCatalogService) Update(ctx context.Context, req *dto.UpdateCatalogItemRequest) (*dto.UpdateCatalogItemResponse, error) {
	return nil, nil
}

func (s *stubCatalogService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubCatalogService) Show(ctx context.Context, id uuid.UUID) (*dto.CatalogItemResponse, error) {
	return nil, nil
}

func (s *stubCatalogService) List(ctx context.Context, req *dto.ListCatalogItemsRequest) ([]*dto.CatalogItemResponse, error) {
	return nil, nil
}

func (s *stubCatalogService) Snapshot(ctx context.Context) ([]catalog.Entry, catalog.BusinessConfig, error) {
	s.snapshotCalls++
	return s.entries, s.business, nil
}

func (s *stubCatalogService) InvalidateCaches()                 {}
func (s *stubCatalogService) InvalidateAll(ctx context.Context) {}

type stubDocSource struct {
	docs []rank.Document
}

func (s *stubDocSource) FetchCandidates(ctx context.Context, query string, limit int) ([]rank.Document, error) {
	return s.docs, nil
}

func paintSnapshot() ([]catalog.Entry, catalog.BusinessConfig) {
	unit := "L"
	entries := []catalog.Entry{
		{SKU: "GRU-TG-10", Name: "Tiefgrund LF 10 L", Unit: &unit, Category: "grundierung"},
		{SKU: "WF-WM-12", Name: "Wandfarbe Weiss Matt 12,5 L", Unit: &unit, Category: "wandfarbe"},
	}
	business := catalog.BusinessConfig{
		Availability: map[string]int{"GRU-TG-10": 1},
	}
	return entries, business
}

func newTestRetrievalService(catalogSvc ICatalogService, source rank.DocumentSource) IRetrievalService {
	return NewRetrievalService(
		catalogSvc,
		source,
		textnorm.SynonymMap{},
		catalog.UnitRules{},
		memory.NewResultCache(time.Minute),
		5,
		noopLogger{},
	)
}

func TestSearchCachesResults(t *testing.T) {
	entries, business := paintSnapshot()
	catalogSvc := &stubCatalogService{entries: entries, business: business}
	svc := newTestRetrievalService(catalogSvc, nil)

	first, err := svc.Search(context.Background(), &dto.SearchCatalogRequest{Query: "Tiefgrund"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Candidates)
	assert.Equal(t, "GRU-TG-10", first.Candidates[0].SKU)
	assert.False(t, first.Cached)

	second, err := svc.Search(context.Background(), &dto.SearchCatalogRequest{Query: "tiefgrund"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Candidates, second.Candidates)

	// The normalized cache key absorbs the casing difference; only the first
	// call should have touched the snapshot.
	assert.Equal(t, 1, catalogSvc.snapshotCalls)
}

func TestRankUsesStoreBusinessAndCaches(t *testing.T) {
	entries, business := paintSnapshot()
	catalogSvc := &stubCatalogService{entries: entries, business: business}

	unit := "L"
	source := &stubDocSource{docs: []rank.Document{
		{SKU: "GRU-HG-10", Name: "Haftgrund Spezial 10 L", Unit: &unit, Category: "grundierung"},
		{SKU: "GRU-TG-10", Name: "Tiefgrund LF 10 L", Unit: &unit, Category: "grundierung"},
	}}
	svc := newTestRetrievalService(catalogSvc, source)

	first, err := svc.Rank(context.Background(), &dto.RankCatalogRequest{Query: "Tiefgrund 10 L"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Candidates)
	assert.Equal(t, "GRU-TG-10", first.Candidates[0].SKU)
	assert.False(t, first.Cached)

	second, err := svc.Rank(context.Background(), &dto.RankCatalogRequest{Query: "Tiefgrund 10 L"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Candidates, second.Candidates)
}

func TestRankCustomBusinessBypassesCache(t *testing.T) {
	entries, business := paintSnapshot()
	catalogSvc := &stubCatalogService{entries: entries, business: business}

	unit := "L"
	source := &stubDocSource{docs: []rank.Document{
		{SKU: "GRU-TG-10", Name: "Tiefgrund LF 10 L", Unit: &unit, Category: "grundierung"},
	}}
	svc := newTestRetrievalService(catalogSvc, source)

	custom := catalog.BusinessConfig{BrandBoost: map[string]float64{"caparol": 0.05}}

	for i := 0; i < 2; i++ {
		res, err := svc.Rank(context.Background(), &dto.RankCatalogRequest{Query: "Tiefgrund", Business: custom})
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}
}
