package products

import (
	"time"

	"gorm.io/datatypes"
)

type Product struct {
	ID          string    `gorm:"primaryKey;type:char(36)"`
	Name        string    `gorm:"size:255;not null"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex:ux_products_slug"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"size:16;not null;default:draft"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt   time.Time `gorm:"type:datetime(3);not null"`

	Variants []Variant `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

// Variant is one persisted row of the variant matrix. SKU is NULL until the
// admin sets one so the unique index tolerates many blank SKUs.
type Variant struct {
	ID             string                      `gorm:"primaryKey;type:char(36)"`
	ProductID      string                      `gorm:"type:char(36);not null;index:ix_product_variants_product_id"`
	SKU            *string                     `gorm:"column:sku;size:64;uniqueIndex:ux_product_variants_sku"`
	Options        datatypes.JSONMap           `gorm:"column:options_json;type:json;not null"`
	Position       int                         `gorm:"not null;default:0"`
	PriceCents     int                         `gorm:"not null;default:0"`
	CompareAtCents int                         `gorm:"not null;default:0"`
	CostCents      int                         `gorm:"not null;default:0"`
	Currency       string                      `gorm:"type:char(3);not null;default:EUR"`
	Stock          int                         `gorm:"not null;default:0"`
	StockStatus    string                      `gorm:"size:16;not null;default:instock"`
	Description    string                      `gorm:"type:text"`
	Images         datatypes.JSONSlice[string] `gorm:"column:images_json;type:json"`
	CreatedAt      time.Time                   `gorm:"type:datetime(3);not null"`
	UpdatedAt      time.Time                   `gorm:"type:datetime(3);not null"`
}

func (Variant) TableName() string { return "product_variants" }
