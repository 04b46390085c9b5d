package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taxengine/pkg/money"
)

// CategoryValue is the tax collected for one category of the matched jurisdiction.
// Synthetic marks categories built from a record name the jurisdiction does not know.
type CategoryValue struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Synthetic   bool            `json:"synthetic"`
	Value       decimal.Decimal `json:"value"`
}

// TaxCalculationResult is the currency-scoped outcome of one calculation.
type TaxCalculationResult struct {
	Currency              string
	TaxInclusive          bool
	BeforeTaxSubTotal     money.Money
	BeforeTaxShippingCost money.Money
	TaxInItemPrice        money.Money
	ShippingTax           money.Money
	TotalTaxes            money.Money
	ItemTaxes             map[string]decimal.Decimal
	ItemPricesBeforeTax   map[string]decimal.Decimal
	CategoryValues        []CategoryValue
	Jurisdiction          string
	Document              *TaxDocument
}

func NewTaxCalculationResult(currency string) *TaxCalculationResult {
	currency = money.NormalizeCurrency(currency)
	return &TaxCalculationResult{
		Currency:              currency,
		BeforeTaxSubTotal:     money.Zero(currency),
		BeforeTaxShippingCost: money.Zero(currency),
		TaxInItemPrice:        money.Zero(currency),
		ShippingTax:           money.Zero(currency),
		TotalTaxes:            money.Zero(currency),
		ItemTaxes:             make(map[string]decimal.Decimal),
		ItemPricesBeforeTax:   make(map[string]decimal.Decimal),
	}
}

// ItemTax returns the tax on a line item, zero when unknown.
func (r *TaxCalculationResult) ItemTax(guid string) decimal.Decimal {
	if v, ok := r.ItemTaxes[guid]; ok {
		return v
	}
	return decimal.Zero
}

// AddCategoryValue accumulates value under the category, keeping first-seen order.
func (r *TaxCalculationResult) AddCategoryValue(category CategoryValue, value decimal.Decimal) {
	for i := range r.CategoryValues {
		if r.CategoryValues[i].Name == category.Name {
			r.CategoryValues[i].Value = r.CategoryValues[i].Value.Add(value)
			return
		}
	}
	category.Value = value
	r.CategoryValues = append(r.CategoryValues, category)
}

func (r *TaxCalculationResult) CategoryValue(name string) (CategoryValue, bool) {
	for _, c := range r.CategoryValues {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryValue{}, false
}
