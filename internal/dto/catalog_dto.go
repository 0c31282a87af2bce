package dto

import (
	"time"

	"kalkulai-be/pkg/catalog"

	"github.com/google/uuid"
)

type CreateCatalogItemRequest struct {
	SKU         string   `json:"sku" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Unit        *string  `json:"unit"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Synonyms    []string `json:"synonyms"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Margin      *float64 `json:"margin"`
	Available   *bool    `json:"available"`
}

type CreateCatalogItemResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateCatalogItemRequest struct {
	Id          uuid.UUID
	Name        string   `json:"name" validate:"required"`
	Unit        *string  `json:"unit"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Synonyms    []string `json:"synonyms"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Margin      *float64 `json:"margin"`
	Available   *bool    `json:"available"`
}

type UpdateCatalogItemResponse struct {
	Id uuid.UUID `json:"id"`
}

type CatalogItemResponse struct {
	Id          uuid.UUID  `json:"id"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	Unit        *string    `json:"unit,omitempty"`
	Category    string     `json:"category,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Synonyms    []string   `json:"synonyms,omitempty"`
	Description string     `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Margin      *float64   `json:"margin,omitempty"`
	Available   bool       `json:"available"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ListCatalogItemsRequest struct {
	Category      string `query:"category"`
	Brand         string `query:"brand"`
	Name          string `query:"name"`
	AvailableOnly bool   `query:"available_only"`
	Limit         int    `query:"limit"`
	Offset        int    `query:"offset"`
}

type SearchCatalogRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k"`
}

type SearchCatalogResponse struct {
	Query      string                    `json:"query"`
	Candidates []catalog.RankedCandidate `json:"candidates"`
	Cached     bool                      `json:"cached"`
}

type RankCatalogRequest struct {
	Query    string                 `json:"query" validate:"required"`
	TopK     int                    `json:"top_k"`
	Business catalog.BusinessConfig `json:"business"`
}

type RankCatalogResponse struct {
	Query      string                    `json:"query"`
	Candidates []catalog.RankedCandidate `json:"candidates"`
	Cached     bool                      `json:"cached"`
}

// PublishEmbedCatalogItemMessage is the internal queue payload that requests
// (re-)embedding of one catalog item.
type PublishEmbedCatalogItemMessage struct {
	CatalogItemId uuid.UUID `json:"catalog_item_id"`
}
