package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ProductType carries the default tax code for every product of that type.
type ProductType struct {
	Name    string
	TaxCode string
}

type Product struct {
	Code            string
	TaxCodeOverride string
	Type            ProductType
}

// Sku is the catalog view consumed by tax calculation.
type Sku struct {
	Code            string
	DisplayName     string
	TaxCodeOverride string
	Shippable       bool
	Product         Product
}

// EffectiveTaxCode resolves SKU override, then product override, then the product type default.
func (s *Sku) EffectiveTaxCode() string {
	if s == nil {
		return ""
	}
	for _, code := range []string{s.TaxCodeOverride, s.Product.TaxCodeOverride, s.Product.Type.TaxCode} {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// SkuRecord is the flattened persisted row behind a Sku.
type SkuRecord struct {
	ID                     snowflake.ID `gorm:"primaryKey"`
	Code                   string       `gorm:"type:text;not null;uniqueIndex"`
	DisplayName            string       `gorm:"type:text;not null"`
	TaxCodeOverride        string       `gorm:"column:tax_code_override;type:text"`
	Shippable              bool         `gorm:"not null"`
	ProductCode            string       `gorm:"column:product_code;type:text;not null"`
	ProductTaxCodeOverride string       `gorm:"column:product_tax_code_override;type:text"`
	ProductTypeName        string       `gorm:"column:product_type_name;type:text"`
	ProductTypeTaxCode     string       `gorm:"column:product_type_tax_code;type:text"`
	CreatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SkuRecord) TableName() string { return "catalog_skus" }

func (r SkuRecord) ToSku() *Sku {
	return &Sku{
		Code:            r.Code,
		DisplayName:     r.DisplayName,
		TaxCodeOverride: r.TaxCodeOverride,
		Shippable:       r.Shippable,
		Product: Product{
			Code:            r.ProductCode,
			TaxCodeOverride: r.ProductTaxCodeOverride,
			Type: ProductType{
				Name:    r.ProductTypeName,
				TaxCode: r.ProductTypeTaxCode,
			},
		},
	}
}
