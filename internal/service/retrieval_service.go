package service

import (
	"context"

	"kalkulai-be/internal/dto"
	"kalkulai-be/internal/pkg/logger"
	"kalkulai-be/internal/repository/memory"
	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/match"
	"kalkulai-be/pkg/rank"
	"kalkulai-be/pkg/textnorm"
)

type IRetrievalService interface {
	// Search is the thin lexical path: matcher over the full snapshot.
	Search(ctx context.Context, req *dto.SearchCatalogRequest) (*dto.SearchCatalogResponse, error)
	// Rank is the main pipeline: vector source, domain rules, business layer.
	Rank(ctx context.Context, req *dto.RankCatalogRequest) (*dto.RankCatalogResponse, error)
	// Match adapts Rank for the adoption engine.
	Match(ctx context.Context, query string, topK int) ([]catalog.RankedCandidate, error)
}

type retrievalService struct {
	catalogService ICatalogService
	ranker         *rank.Ranker
	synonyms       textnorm.SynonymMap
	matchParams    match.Params
	resultCache    *memory.ResultCache
	defaultTopK    int
	logger         logger.ILogger
}

func NewRetrievalService(
	catalogService ICatalogService,
	vectorSource rank.DocumentSource,
	synonyms textnorm.SynonymMap,
	unitRules catalog.UnitRules,
	resultCache *memory.ResultCache,
	defaultTopK int,
	sysLogger logger.ILogger,
) IRetrievalService {
	matchParams := match.DefaultParams()
	matchParams.UnitRules = unitRules

	rankParams := rank.DefaultParams()
	rankParams.Match = matchParams

	snapshot := func(ctx context.Context) ([]catalog.Entry, error) {
		entries, _, err := catalogService.Snapshot(ctx)
		return entries, err
	}

	return &retrievalService{
		catalogService: catalogService,
		ranker:         rank.NewRanker(vectorSource, snapshot, synonyms, rankParams),
		synonyms:       synonyms,
		matchParams:    matchParams,
		resultCache:    resultCache,
		defaultTopK:    defaultTopK,
		logger:         sysLogger,
	}
}

func (r *retrievalService) Search(ctx context.Context, req *dto.SearchCatalogRequest) (*dto.SearchCatalogResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = r.defaultTopK
	}

	key := "search|" + r.resultCache.Key(req.Query, topK)
	if candidates, found := r.resultCache.Get(key); found {
		return &dto.SearchCatalogResponse{Query: req.Query, Candidates: candidates, Cached: true}, nil
	}

	entries, _, err := r.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	candidates := match.Search(req.Query, topK, entries, r.synonyms, r.matchParams)
	r.resultCache.Set(key, candidates)

	return &dto.SearchCatalogResponse{Query: req.Query, Candidates: candidates}, nil
}

func (r *retrievalService) Rank(ctx context.Context, req *dto.RankCatalogRequest) (*dto.RankCatalogResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = r.defaultTopK
	}

	// Caller-supplied business signals vary per call, so only the
	// store-derived default path is cacheable.
	custom := hasBusinessOverride(req.Business)

	key := "rank|" + r.resultCache.Key(req.Query, topK)
	if !custom {
		if candidates, found := r.resultCache.Get(key); found {
			return &dto.RankCatalogResponse{Query: req.Query, Candidates: candidates, Cached: true}, nil
		}
	}

	business := req.Business
	if !custom {
		_, stored, err := r.catalogService.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		business = stored
	}

	candidates := r.ranker.Rank(ctx, req.Query, topK, business)
	if !custom {
		r.resultCache.Set(key, candidates)
	}

	return &dto.RankCatalogResponse{Query: req.Query, Candidates: candidates}, nil
}

func (r *retrievalService) Match(ctx context.Context, query string, topK int) ([]catalog.RankedCandidate, error) {
	res, err := r.Rank(ctx, &dto.RankCatalogRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, err
	}
	return res.Candidates, nil
}

func hasBusinessOverride(cfg catalog.BusinessConfig) bool {
	return len(cfg.Availability) > 0 || len(cfg.Price) > 0 || len(cfg.Margin) > 0 || len(cfg.BrandBoost) > 0
}
