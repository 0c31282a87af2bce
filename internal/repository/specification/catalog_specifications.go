package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySKU struct {
	SKU string
}

func (s BySKU) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sku = ?", s.SKU)
}

type BySKUs struct {
	SKUs []string
}

func (s BySKUs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sku IN ?", s.SKUs)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

type ByBrand struct {
	Brand string
}

func (s ByBrand) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("brand = ?", s.Brand)
}

type AvailableOnly struct{}

func (s AvailableOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("available = ?", true)
}

type ByCatalogItemID struct {
	CatalogItemID uuid.UUID
}

func (s ByCatalogItemID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("catalog_item_id = ?", s.CatalogItemID)
}

type NameContains struct {
	Fragment string
}

func (s NameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Fragment+"%")
}
