package service

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
)

// DocumentAdapter converts between tax documents and journal rows.
type DocumentAdapter struct {
	genID *snowflake.Node
}

func NewDocumentAdapter(genID *snowflake.Node) *DocumentAdapter {
	return &DocumentAdapter{genID: genID}
}

// ToJournalRecords flattens doc into one signed row per item and tax record.
// Items without records still get a single zero-tax row so they can be rebuilt.
func (a *DocumentAdapter) ToJournalRecords(
	doc *taxdomain.TaxDocument,
	operation taxdomain.TaxOperationContext,
	entryID snowflake.ID,
	when time.Time,
) []journaldomain.TaxJournalRecord {
	if doc == nil {
		return nil
	}

	journalType := journalTypeOf(doc, operation)
	sign := journalType.Sign()
	container := doc.Container

	storeCode := container.StoreCode
	if storeCode == "" {
		storeCode = operation.StoreCode
	}
	currency := container.Currency
	if currency == "" {
		currency = operation.Currency
	}
	exemptionCode := ""
	if operation.TaxExemption != nil {
		exemptionCode = operation.TaxExemption.Code
	}

	base := journaldomain.TaxJournalRecord{
		JournalEntryID:         entryID,
		DocumentID:             doc.DocumentID,
		JournalType:            journalType,
		TransactionType:        operation.TransactionType,
		TransactionDate:        when.UTC(),
		OrderNumber:            operation.OrderNumber,
		StoreCode:              storeCode,
		Currency:               currency,
		Provider:               doc.Provider,
		TaxInclusive:           container.TaxInclusive,
		CustomerCode:           operation.CustomerCode,
		CustomerBusinessNumber: operation.CustomerBusinessNumber,
		ExemptionCode:          exemptionCode,
		DestinationStreet1:     container.Destination.Street1,
		DestinationStreet2:     container.Destination.Street2,
		DestinationCity:        container.Destination.City,
		DestinationSubCountry:  container.Destination.SubCountry,
		DestinationPostalCode:  container.Destination.ZipOrPostalCode,
		DestinationCountry:     container.Destination.Country,
		OriginStreet1:          container.Origin.Street1,
		OriginStreet2:          container.Origin.Street2,
		OriginCity:             container.Origin.City,
		OriginSubCountry:       container.Origin.SubCountry,
		OriginPostalCode:       container.Origin.ZipOrPostalCode,
		OriginCountry:          container.Origin.Country,
		TaxRate:                decimal.Zero,
		TaxValue:               decimal.Zero,
		CreatedAt:              when.UTC(),
	}

	records := make([]journaldomain.TaxJournalRecord, 0, len(container.Items))
	for i, item := range container.Items {
		taxable := item.TaxableItem
		row := base
		row.LineNumber = i
		row.ItemGUID = taxable.GUID
		if taxable.IsShipping() && operation.ShippingItemReferenceID != "" {
			row.ItemGUID = operation.ShippingItemReferenceID
		}
		row.ItemCode = taxable.ItemCode
		row.ItemDescription = taxable.ItemDescription
		row.ItemTaxCode = taxable.TaxCode
		row.TaxCodeActive = taxable.TaxCodeActive
		row.Quantity = taxable.Quantity
		row.Price = taxable.Price.Mul(sign)
		row.Discount = taxable.Discount.Mul(sign)
		row.PriceBeforeTax = item.PriceBeforeTax.Mul(sign)
		row.TaxInPrice = item.TaxInPrice
		row.TotalTax = item.TotalTax.Mul(sign)

		if len(item.Records) == 0 {
			row.ID = a.genID.Generate()
			records = append(records, row)
			continue
		}
		for _, rec := range item.Records {
			r := row
			r.ID = a.genID.Generate()
			r.TaxName = rec.TaxName
			r.TaxCode = rec.TaxCode
			r.Jurisdiction = rec.Jurisdiction
			r.Region = rec.Region
			r.TaxRate = rec.TaxRate
			r.TaxProvider = rec.TaxProvider
			r.TaxValue = rec.TaxValue.Mul(sign)
			records = append(records, r)
		}
	}
	return records
}

// ToTaxDocument groups rows by item back into a document with unsigned amounts.
// Rows must belong to a single journal entry.
func (a *DocumentAdapter) ToTaxDocument(records []journaldomain.TaxJournalRecord) *taxdomain.TaxDocument {
	if len(records) == 0 {
		return nil
	}

	first := records[0]
	doc := &taxdomain.TaxDocument{
		DocumentID:  first.DocumentID,
		JournalType: first.JournalType,
		Provider:    first.Provider,
		Container: taxdomain.TaxedItemContainer{
			Destination:  first.Destination(),
			Origin:       first.Origin(),
			StoreCode:    first.StoreCode,
			Currency:     first.Currency,
			TaxInclusive: first.TaxInclusive,
		},
	}

	index := make(map[string]int)
	for _, row := range records {
		sign := row.JournalType.Sign()
		key := row.ItemGUID + "|" + row.ItemCode
		pos, ok := index[key]
		if !ok {
			pos = len(doc.Container.Items)
			index[key] = pos
			doc.Container.Items = append(doc.Container.Items, taxdomain.TaxedItem{
				TaxableItem: taxdomain.TaxableItem{
					GUID:            row.ItemGUID,
					ItemCode:        row.ItemCode,
					ItemDescription: row.ItemDescription,
					TaxCode:         row.ItemTaxCode,
					TaxCodeActive:   row.TaxCodeActive,
					Quantity:        row.Quantity,
					Price:           row.Price.Mul(sign),
					Discount:        row.Discount.Mul(sign),
					Currency:        row.Currency,
				},
				PriceBeforeTax: row.PriceBeforeTax.Mul(sign),
				TaxInPrice:     row.TaxInPrice,
				TotalTax:       row.TotalTax.Mul(sign),
			})
		}
		if !row.HasTaxRecord() {
			continue
		}
		item := &doc.Container.Items[pos]
		item.Records = append(item.Records, taxdomain.TaxRecord{
			TaxName:      row.TaxName,
			TaxCode:      row.TaxCode,
			Jurisdiction: row.Jurisdiction,
			Region:       row.Region,
			TaxRate:      row.TaxRate,
			TaxProvider:  row.TaxProvider,
			TaxValue:     row.TaxValue.Mul(sign),
		})
	}
	return doc
}

func journalTypeOf(doc *taxdomain.TaxDocument, operation taxdomain.TaxOperationContext) taxdomain.JournalType {
	if doc.JournalType != "" {
		return doc.JournalType
	}
	if operation.JournalType != "" {
		return operation.JournalType
	}
	return taxdomain.JournalTypePurchase
}
