package dto

import (
	"kalkulai-be/pkg/adoption"
)

type ResolveMaterialsRequest struct {
	Lines []MaterialLineRequest `json:"lines" validate:"required,min=1,dive"`
	// Mode optionally overrides the configured adoption mode for this call.
	Mode string `json:"mode"`
}

type MaterialLineRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type ResolveMaterialsResponse struct {
	Candidates []adoption.MaterialCandidate `json:"candidates"`
	// Block is the serialized machine block for conversation history.
	Block string `json:"block"`
}

type ParseBlocksRequest struct {
	Text string `json:"text" validate:"required"`
}

type ParseBlocksResponse struct {
	Batches [][]adoption.MaterialCandidate `json:"batches"`
}
