// Package provider holds the built-in TaxManager implementations.
package provider

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

const (
	NameJurisdictionRates = "jurisdiction-rates"
	NameNoTax             = "no-tax"
)

func noTaxRecord(provider, taxCode string) taxdomain.TaxRecord {
	return taxdomain.TaxRecord{
		TaxName:     taxdomain.TaxNameNoTax,
		TaxCode:     taxCode,
		TaxRate:     decimal.Zero,
		TaxProvider: provider,
		TaxValue:    decimal.Zero,
	}
}

func untaxed(provider string, item taxdomain.TaxableItem) taxdomain.TaxedItem {
	return taxdomain.TaxedItem{
		TaxableItem:    item,
		PriceBeforeTax: item.TaxableAmount(),
		TotalTax:       decimal.Zero,
		Records:        []taxdomain.TaxRecord{noTaxRecord(provider, item.TaxCode)},
	}
}

func newDocument(provider string, container *taxdomain.TaxableItemContainer, items []taxdomain.TaxedItem, inclusive bool) *taxdomain.TaxDocument {
	journalType := container.Operation.JournalType
	if journalType == "" {
		journalType = taxdomain.JournalTypePurchase
	}
	return &taxdomain.TaxDocument{
		DocumentID:  container.Operation.DocumentID,
		JournalType: journalType,
		Provider:    provider,
		Container: taxdomain.TaxedItemContainer{
			Items:        items,
			Destination:  container.Destination,
			Origin:       container.Origin,
			StoreCode:    container.StoreCode,
			Currency:     container.Currency,
			TaxInclusive: inclusive,
		},
	}
}
