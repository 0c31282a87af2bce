package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CatalogItem struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU         string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(255);not null"`
	Unit        *string        `gorm:"type:varchar(16)"`
	Category    string         `gorm:"type:varchar(64);index"`
	Brand       string         `gorm:"type:varchar(128)"`
	Synonyms    datatypes.JSON `gorm:"type:jsonb"`
	Description string         `gorm:"type:text"`
	Price       *float64       `gorm:"type:numeric(12,2)"`
	Margin      *float64       `gorm:"type:numeric(5,4)"`
	Available   bool           `gorm:"default:true"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}
