package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNode, _ = snowflake.NewNode(1)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sampleDocument(journalType taxdomain.JournalType) *taxdomain.TaxDocument {
	return &taxdomain.TaxDocument{
		DocumentID:  "SH-1-01HX",
		JournalType: journalType,
		Provider:    "jurisdiction-rates",
		Container: taxdomain.TaxedItemContainer{
			StoreCode:   "US",
			Currency:    "USD",
			Destination: taxdomain.Address{City: "Austin", SubCountry: "TX", Country: "US"},
			Origin:      taxdomain.Address{City: "Dallas", SubCountry: "TX", Country: "US"},
			Items: []taxdomain.TaxedItem{
				{
					TaxableItem:    taxdomain.TaxableItem{GUID: "g-1", ItemCode: "SKU-1", TaxCode: "GENERAL", TaxCodeActive: true, Quantity: 2, Price: d("20.00"), Discount: d("2.00"), Currency: "USD"},
					PriceBeforeTax: d("18.00"),
					TotalTax:       d("1.80"),
					Records: []taxdomain.TaxRecord{
						{TaxName: "STATE", TaxCode: "GENERAL", Jurisdiction: "US", Region: "TX", TaxRate: d("0.06"), TaxProvider: "jurisdiction-rates", TaxValue: d("1.08")},
						{TaxName: "CITY", TaxCode: "GENERAL", Jurisdiction: "US", Region: "Austin", TaxRate: d("0.04"), TaxProvider: "jurisdiction-rates", TaxValue: d("0.72")},
					},
				},
				{
					TaxableItem:    taxdomain.TaxableItem{GUID: "cart-shipping", ItemCode: taxdomain.ItemCodeShipping, TaxCode: taxdomain.TaxCodeShipping, Quantity: 1, Price: d("5.00"), Currency: "USD"},
					PriceBeforeTax: d("5.00"),
				},
			},
		},
	}
}

func TestToJournalRecordsSignsAndFlattens(t *testing.T) {
	adapter := NewDocumentAdapter(testNode)
	when := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	op := taxdomain.TaxOperationContext{
		TransactionType:         taxdomain.TransactionTypeOrder,
		OrderNumber:             "ORD-1",
		CustomerCode:            "C-9",
		TaxExemption:            &taxdomain.TaxExemption{Code: "EX-1"},
		ShippingItemReferenceID: "SH-1",
	}

	t.Run("purchase", func(t *testing.T) {
		records := adapter.ToJournalRecords(sampleDocument(taxdomain.JournalTypePurchase), op, 42, when)
		require.Len(t, records, 3)

		assert.Equal(t, "STATE", records[0].TaxName)
		assert.True(t, records[0].TaxValue.Equal(d("1.08")))
		assert.True(t, records[1].TaxValue.Equal(d("0.72")))
		assert.Equal(t, "EX-1", records[0].ExemptionCode)
		assert.Equal(t, "Austin", records[0].DestinationCity)
		assert.Equal(t, snowflake.ID(42), records[0].JournalEntryID)
		assert.NotEqual(t, records[0].ID, records[1].ID)

		shipping := records[2]
		assert.Equal(t, "SH-1", shipping.ItemGUID)
		assert.False(t, shipping.HasTaxRecord())
		assert.True(t, shipping.TaxValue.IsZero())
	})

	t.Run("reversal negates amounts", func(t *testing.T) {
		records := adapter.ToJournalRecords(sampleDocument(taxdomain.JournalTypeReversal), op, 43, when)
		require.Len(t, records, 3)

		assert.True(t, records[0].TaxValue.Equal(d("-1.08")))
		assert.True(t, records[0].Price.Equal(d("-20.00")))
		assert.True(t, records[0].TaxRate.Equal(d("0.06")))
		assert.Equal(t, taxdomain.JournalTypeReversal, records[0].JournalType)
	})
}

func TestToJournalRecordsNilDocument(t *testing.T) {
	assert.Nil(t, NewDocumentAdapter(testNode).ToJournalRecords(nil, taxdomain.TaxOperationContext{}, 1, time.Now()))
}

func TestToTaxDocumentRebuildsItems(t *testing.T) {
	adapter := NewDocumentAdapter(testNode)
	original := sampleDocument(taxdomain.JournalTypeReversal)
	records := adapter.ToJournalRecords(original, taxdomain.TaxOperationContext{TransactionType: taxdomain.TransactionTypeOrderCancel}, 7, time.Now())

	doc := adapter.ToTaxDocument(records)
	require.NotNil(t, doc)
	assert.Equal(t, original.DocumentID, doc.DocumentID)
	assert.Equal(t, taxdomain.JournalTypeReversal, doc.JournalType)
	assert.Equal(t, original.Container.Destination, doc.Container.Destination)
	require.Len(t, doc.Container.Items, 2)

	item := doc.Container.Items[0]
	assert.Equal(t, "g-1", item.TaxableItem.GUID)
	assert.True(t, item.TaxableItem.Price.Equal(d("20.00")))
	assert.True(t, item.TotalTax.Equal(d("1.80")))
	require.Len(t, item.Records, 2)
	assert.Equal(t, "CITY", item.Records[1].TaxName)
	assert.True(t, item.Records[1].TaxValue.Equal(d("0.72")))

	assert.Empty(t, doc.Container.Items[1].Records)
}

func TestToTaxDocumentEmpty(t *testing.T) {
	assert.Nil(t, NewDocumentAdapter(testNode).ToTaxDocument(nil))
}
