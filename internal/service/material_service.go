package service

import (
	"context"

	"kalkulai-be/internal/dto"
	"kalkulai-be/internal/pkg/logger"
	"kalkulai-be/pkg/adoption"
)

type IMaterialService interface {
	// Resolve maps one turn's extracted material lines onto catalog items and
	// serializes the decisions into a machine block.
	Resolve(ctx context.Context, req *dto.ResolveMaterialsRequest) (*dto.ResolveMaterialsResponse, error)
	// ParseBlocks recovers earlier resolution batches from history text.
	ParseBlocks(req *dto.ParseBlocksRequest) *dto.ParseBlocksResponse
}

type materialService struct {
	retrieval IRetrievalService
	cfg       adoption.Config
	logger    logger.ILogger
}

func NewMaterialService(
	retrieval IRetrievalService,
	cfg adoption.Config,
	sysLogger logger.ILogger,
) (IMaterialService, error) {
	// Validate eagerly so misconfiguration fails at startup.
	if _, err := adoption.NewEngine(retrieval, cfg); err != nil {
		return nil, err
	}
	return &materialService{
		retrieval: retrieval,
		cfg:       cfg,
		logger:    sysLogger,
	}, nil
}

func (m *materialService) Resolve(ctx context.Context, req *dto.ResolveMaterialsRequest) (*dto.ResolveMaterialsResponse, error) {
	cfg := m.cfg
	if req.Mode != "" {
		mode, err := adoption.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}

	engine, err := adoption.NewEngine(m.retrieval, cfg)
	if err != nil {
		return nil, err
	}

	lines := make([]adoption.MaterialLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = adoption.MaterialLine{Name: l.Name, Quantity: l.Quantity, Unit: l.Unit}
	}

	candidates := engine.Resolve(ctx, lines)

	m.logger.Info("material", "resolved material lines", map[string]interface{}{
		"requested": len(req.Lines),
		"resolved":  len(candidates),
		"mode":      string(cfg.Mode),
	})

	return &dto.ResolveMaterialsResponse{
		Candidates: candidates,
		Block:      adoption.MarshalBlock(candidates),
	}, nil
}

func (m *materialService) ParseBlocks(req *dto.ParseBlocksRequest) *dto.ParseBlocksResponse {
	return &dto.ParseBlocksResponse{
		Batches: adoption.ExtractBlocks(req.Text),
	}
}
