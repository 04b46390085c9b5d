package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taxengine/internal/apportion"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRequest(discount string, items ...taxdomain.PricedItem) taxdomain.CalculationRequest {
	shipping := money.MustParse("5.00", "USD")
	preTax := money.MustParse(discount, "USD")
	return taxdomain.CalculationRequest{
		StoreCode:      "web",
		Currency:       "USD",
		Destination:    taxdomain.Address{City: "Austin", SubCountry: "tx", Country: "us"},
		ShippingCost:   &shipping,
		PreTaxDiscount: &preTax,
		Items:          items,
	}
}

func TestCalculateTaxesTotals(t *testing.T) {
	svc := newTestService(texas())

	result, err := svc.CalculateTaxes(context.Background(), cartRequest("0",
		item("l1", "TSHIRT", "20.00"),
		item("l2", "EBOOK", "10.00"),
	))
	require.NoError(t, err)

	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, "US", result.Jurisdiction)
	assert.False(t, result.TaxInclusive)
	assert.True(t, result.BeforeTaxSubTotal.Amount.Equal(d("30.00")))
	assert.True(t, result.BeforeTaxShippingCost.Amount.Equal(d("5.00")))
	assert.True(t, result.ShippingTax.Amount.Equal(d("0.30")))
	assert.True(t, result.TotalTaxes.Amount.Equal(d("1.90")), result.TotalTaxes.String())
	assert.True(t, result.TaxInItemPrice.IsZero())

	assert.True(t, result.ItemTax("l1").Equal(d("1.60")))
	assert.True(t, result.ItemTax("l2").IsZero())

	state, ok := result.CategoryValue("STATE")
	require.True(t, ok)
	assert.Equal(t, "State Tax", state.DisplayName)
	assert.False(t, state.Synthetic)
	assert.True(t, state.Value.Equal(d("1.50")))

	city, ok := result.CategoryValue("CITY")
	require.True(t, ok)
	assert.True(t, city.Value.Equal(d("0.40")))

	_, ok = result.CategoryValue(taxdomain.TaxNameNoTax)
	assert.False(t, ok)

	require.NotNil(t, result.Document)
	assert.NotEmpty(t, result.Document.DocumentID)
	assert.Equal(t, taxdomain.JournalTypePurchase, result.Document.JournalType)
}

func TestCalculateTaxesAddsShippingLine(t *testing.T) {
	svc := newTestService(texas())
	items := []taxdomain.PricedItem{
		item("l1", "TSHIRT", "20.00"),
		item("l2", "EBOOK", "10.00"),
	}

	result, err := svc.CalculateTaxes(context.Background(), cartRequest("0", items...))
	require.NoError(t, err)

	container := result.Document.Container
	require.Len(t, container.Items, len(items)+1)
	shipping := container.Items[len(items)].TaxableItem
	assert.True(t, shipping.IsShipping())
	assert.Equal(t, taxdomain.TaxCodeShipping, shipping.TaxCode)
	assert.Equal(t, taxdomain.ShippingDescription, shipping.ItemDescription)
}

func TestCalculateTaxesApportionsDiscount(t *testing.T) {
	svc := newTestService(texas())

	result, err := svc.CalculateTaxes(context.Background(), cartRequest("6.00",
		item("l1", "TSHIRT", "20.00"),
		item("l2", "HOODIE", "10.00"),
	))
	require.NoError(t, err)

	items := result.Document.Container.Items
	assert.True(t, items[0].TaxableItem.Discount.Equal(d("4.00")))
	assert.True(t, items[1].TaxableItem.Discount.Equal(d("2.00")))
	assert.True(t, result.ItemTax("l1").Equal(d("1.28")))
	assert.True(t, result.ItemTax("l2").Equal(d("0.64")))
	assert.True(t, result.BeforeTaxSubTotal.Amount.Equal(d("24.00")))
}

func TestCalculateTaxesApportionsYenDiscountInWholeUnits(t *testing.T) {
	svc := newTestService(texas())

	shipping := money.MustParse("0", "JPY")
	discount := money.MustParse("100", "JPY")
	result, err := svc.CalculateTaxes(context.Background(), taxdomain.CalculationRequest{
		StoreCode:      "jp",
		Currency:       "JPY",
		Destination:    taxdomain.Address{City: "Austin", SubCountry: "tx", Country: "us"},
		ShippingCost:   &shipping,
		PreTaxDiscount: &discount,
		Items: []taxdomain.PricedItem{
			item("l1", "TSHIRT", "300"),
			item("l2", "TSHIRT", "300"),
			item("l3", "TSHIRT", "300"),
		},
	})
	require.NoError(t, err)

	total := decimal.Zero
	for _, taxed := range result.Document.Container.Items {
		if taxed.TaxableItem.ItemCode == taxdomain.ItemCodeShipping {
			continue
		}
		share := taxed.TaxableItem.Discount
		assert.True(t, share.Equal(d("33")) || share.Equal(d("34")), share.String())
		total = total.Add(share)
	}
	assert.True(t, total.Equal(d("100")), total.String())
}

func TestCalculateTaxesSyntheticCategories(t *testing.T) {
	svc := newTestService(nil)

	result, err := svc.CalculateTaxes(context.Background(), cartRequest("0", item("l1", "TSHIRT", "20.00")))
	require.NoError(t, err)

	assert.Empty(t, result.Jurisdiction)
	state, ok := result.CategoryValue("STATE")
	require.True(t, ok)
	assert.True(t, state.Synthetic)
	assert.Equal(t, "STATE", state.DisplayName)
}

func TestCalculateTaxesRejectsExcessDiscount(t *testing.T) {
	svc := newTestService(texas())

	_, err := svc.CalculateTaxes(context.Background(), cartRequest("50.00",
		item("l1", "TSHIRT", "20.00"),
		item("l2", "HOODIE", "20.00"),
	))
	assert.ErrorIs(t, err, apportion.ErrAmountExceedsTotal)
}

func TestCalculateTaxesValidation(t *testing.T) {
	svc := newTestService(texas())
	ctx := context.Background()
	base := func() taxdomain.CalculationRequest { return cartRequest("0", item("l1", "TSHIRT", "20.00")) }

	tests := []struct {
		name   string
		mutate func(*taxdomain.CalculationRequest)
		want   error
	}{
		{"missing shipping", func(r *taxdomain.CalculationRequest) { r.ShippingCost = nil }, taxdomain.ErrMissingShippingCost},
		{"missing discount", func(r *taxdomain.CalculationRequest) { r.PreTaxDiscount = nil }, taxdomain.ErrMissingDiscount},
		{"missing items", func(r *taxdomain.CalculationRequest) { r.Items = nil }, taxdomain.ErrMissingItems},
		{"missing currency", func(r *taxdomain.CalculationRequest) { r.Currency = " " }, taxdomain.ErrMissingCurrency},
		{"currency mismatch", func(r *taxdomain.CalculationRequest) {
			eur := money.MustParse("5.00", "EUR")
			r.ShippingCost = &eur
		}, money.ErrCurrencyMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			_, err := svc.CalculateTaxes(ctx, req)
			assert.ErrorIs(t, err, taxdomain.ErrInvalidArgument)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculateTaxesUnknownStoreAndSku(t *testing.T) {
	svc := newTestService(texas())
	ctx := context.Background()

	req := cartRequest("0", item("l1", "TSHIRT", "20.00"))
	req.StoreCode = "kiosk"
	_, err := svc.CalculateTaxes(ctx, req)
	assert.ErrorIs(t, err, taxdomain.ErrStoreNotFound)

	_, err = svc.CalculateTaxes(ctx, cartRequest("0", item("l1", "GHOST", "20.00")))
	assert.ErrorIs(t, err, taxdomain.ErrUnknownSku)
}

func TestCalculateTaxesKeepsCallerDocumentID(t *testing.T) {
	svc := newTestService(texas())

	req := cartRequest("0", item("l1", "TSHIRT", "20.00"))
	req.Operation = taxdomain.TaxOperationContext{DocumentID: "SH-7-abc", TransactionType: taxdomain.TransactionTypeOrder}
	result, err := svc.CalculateTaxes(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "SH-7-abc", result.Document.DocumentID)
}
