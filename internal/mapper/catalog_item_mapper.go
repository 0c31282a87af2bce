package mapper

import (
	"encoding/json"
	"time"

	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CatalogItemMapper struct{}

func NewCatalogItemMapper() *CatalogItemMapper {
	return &CatalogItemMapper{}
}

func (m *CatalogItemMapper) ToEntity(c *model.CatalogItem) *entity.CatalogItem {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var synonyms []string
	if len(c.Synonyms) > 0 {
		// Malformed rows degrade to no synonyms rather than failing the read.
		_ = json.Unmarshal(c.Synonyms, &synonyms)
	}

	return &entity.CatalogItem{
		Id:          c.Id,
		SKU:         c.SKU,
		Name:        c.Name,
		Unit:        c.Unit,
		Category:    c.Category,
		Brand:       c.Brand,
		Synonyms:    synonyms,
		Description: c.Description,
		Price:       c.Price,
		Margin:      c.Margin,
		Available:   c.Available,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   c.DeletedAt.Valid,
	}
}

func (m *CatalogItemMapper) ToModel(c *entity.CatalogItem) *model.CatalogItem {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var synonyms datatypes.JSON
	if len(c.Synonyms) > 0 {
		if raw, err := json.Marshal(c.Synonyms); err == nil {
			synonyms = raw
		}
	}

	return &model.CatalogItem{
		Id:          c.Id,
		SKU:         c.SKU,
		Name:        c.Name,
		Unit:        c.Unit,
		Category:    c.Category,
		Brand:       c.Brand,
		Synonyms:    synonyms,
		Description: c.Description,
		Price:       c.Price,
		Margin:      c.Margin,
		Available:   c.Available,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *CatalogItemMapper) ToEntities(items []*model.CatalogItem) []*entity.CatalogItem {
	entities := make([]*entity.CatalogItem, len(items))
	for i, c := range items {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CatalogItemMapper) ToModels(items []*entity.CatalogItem) []*model.CatalogItem {
	models := make([]*model.CatalogItem, len(items))
	for i, c := range items {
		models[i] = m.ToModel(c)
	}
	return models
}
