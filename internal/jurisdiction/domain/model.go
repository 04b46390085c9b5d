package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

type PriceCalculationMethod string

const (
	PriceCalculationInclusive PriceCalculationMethod = "INCLUSIVE"
	PriceCalculationExclusive PriceCalculationMethod = "EXCLUSIVE"
)

// FieldMatchType selects the address field a category's regions are matched against.
type FieldMatchType string

const (
	FieldMatchCountry    FieldMatchType = "COUNTRY"
	FieldMatchSubCountry FieldMatchType = "SUBCOUNTRY"
	FieldMatchCity       FieldMatchType = "CITY"
	FieldMatchPostalCode FieldMatchType = "ZIP_POSTAL_CODE"
)

// RegionWildcard matches any value of the category's field.
const RegionWildcard = "*"

// TaxJurisdiction groups the tax categories collected in one country.
type TaxJurisdiction struct {
	ID                     snowflake.ID           `gorm:"primaryKey"`
	RegionCode             string                 `gorm:"type:text;not null;index"`
	Name                   string                 `gorm:"type:text;not null"`
	PriceCalculationMethod PriceCalculationMethod `gorm:"type:text;not null;default:'EXCLUSIVE'"`
	Categories             []TaxCategory          `gorm:"foreignKey:JurisdictionID"`
	CreatedAt              time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt              time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxJurisdiction) TableName() string { return "tax_jurisdictions" }

func (j *TaxJurisdiction) IsInclusive() bool {
	return j != nil && j.PriceCalculationMethod == PriceCalculationInclusive
}

// Category looks up a category by name, ignoring case.
func (j *TaxJurisdiction) Category(name string) (*TaxCategory, bool) {
	if j == nil {
		return nil, false
	}
	for i := range j.Categories {
		if strings.EqualFold(j.Categories[i].Name, name) {
			return &j.Categories[i], true
		}
	}
	return nil, false
}

type TaxCategory struct {
	ID             snowflake.ID   `gorm:"primaryKey"`
	JurisdictionID snowflake.ID   `gorm:"not null;index"`
	Name           string         `gorm:"type:text;not null"`
	DisplayName    string         `gorm:"type:text;not null"`
	FieldMatchType FieldMatchType `gorm:"type:text;not null"`
	Position       int            `gorm:"not null;default:0"`
	Regions        []TaxRegion    `gorm:"foreignKey:CategoryID"`
}

func (TaxCategory) TableName() string { return "tax_categories" }

// MatchValue picks the address field this category matches on.
func (c TaxCategory) MatchValue(addr taxdomain.Address) string {
	switch c.FieldMatchType {
	case FieldMatchSubCountry:
		return addr.SubCountry
	case FieldMatchCity:
		return addr.City
	case FieldMatchPostalCode:
		return addr.ZipOrPostalCode
	default:
		return addr.Country
	}
}

type TaxRegion struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	CategoryID snowflake.ID `gorm:"not null;index"`
	RegionName string       `gorm:"type:text;not null"`
	Values     []TaxValue   `gorm:"foreignKey:RegionID"`
}

func (TaxRegion) TableName() string { return "tax_regions" }

func (r TaxRegion) Matches(value string) bool {
	name := strings.TrimSpace(r.RegionName)
	if name == RegionWildcard {
		return true
	}
	return strings.EqualFold(name, strings.TrimSpace(value))
}

// Rate returns the fractional rate for a tax code.
func (r TaxRegion) Rate(taxCode string) (decimal.Decimal, bool) {
	for _, v := range r.Values {
		if strings.EqualFold(v.TaxCode, taxCode) {
			return v.Fraction(), true
		}
	}
	return decimal.Zero, false
}

// TaxValue is a percent rate (8.25 means 8.25%) for one tax code.
type TaxValue struct {
	ID       snowflake.ID    `gorm:"primaryKey"`
	RegionID snowflake.ID    `gorm:"not null;index"`
	TaxCode  string          `gorm:"type:text;not null"`
	Percent  decimal.Decimal `gorm:"type:numeric(9,4);not null"`
}

func (TaxValue) TableName() string { return "tax_values" }

var hundred = decimal.NewFromInt(100)

func (v TaxValue) Fraction() decimal.Decimal {
	return v.Percent.Div(hundred)
}

// AppliedRate is one category rate resolved for a tax code.
type AppliedRate struct {
	Category    string
	DisplayName string
	Region      string
	Rate        decimal.Decimal
}
