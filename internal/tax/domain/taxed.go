package domain

import "github.com/shopspring/decimal"

// TaxRecord is one applied rate on one item.
type TaxRecord struct {
	TaxName      string          `json:"tax_name"`
	TaxCode      string          `json:"tax_code"`
	Jurisdiction string          `json:"jurisdiction"`
	Region       string          `json:"region"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxProvider  string          `json:"tax_provider"`
	TaxValue     decimal.Decimal `json:"tax_value"`
}

func (r TaxRecord) IsNoTax() bool {
	return r.TaxName == TaxNameNoTax
}

// TaxedItem is the post-tax view of a TaxableItem.
type TaxedItem struct {
	TaxableItem    TaxableItem     `json:"taxable_item"`
	PriceBeforeTax decimal.Decimal `json:"price_before_tax"`
	TaxInPrice     bool            `json:"tax_in_price"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	Records        []TaxRecord     `json:"records"`
}

func (t TaxedItem) clone() TaxedItem {
	out := t
	if t.Records != nil {
		out.Records = make([]TaxRecord, len(t.Records))
		copy(out.Records, t.Records)
	}
	return out
}

type TaxedItemContainer struct {
	Items        []TaxedItem `json:"items"`
	Destination  Address     `json:"destination"`
	Origin       Address     `json:"origin"`
	StoreCode    string      `json:"store_code"`
	Currency     string      `json:"currency"`
	TaxInclusive bool        `json:"tax_inclusive"`
}
