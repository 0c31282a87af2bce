package entity

import (
	"time"

	"github.com/google/uuid"
)

type CatalogItem struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU         string
	Name        string
	Unit        *string
	Category    string
	Brand       string
	Synonyms    []string
	Description string
	Price       *float64
	Margin      *float64
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
