package domain

import (
	"context"

	"github.com/smallbiznis/taxengine/pkg/money"
)

// CalculationRequest is one tax calculation for a cart, shipment or return.
// ShippingCost and PreTaxDiscount are required; pass zero amounts when absent.
type CalculationRequest struct {
	StoreCode      string
	Currency       string
	Destination    Address
	Origin         Address
	ShippingCost   *money.Money
	PreTaxDiscount *money.Money
	Items          []PricedItem
	Operation      TaxOperationContext
}

type CalculationService interface {
	CalculateTaxes(ctx context.Context, req CalculationRequest) (*TaxCalculationResult, error)
}
