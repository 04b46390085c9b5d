package domain

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

// Subject is the taxable view shared by shipments and returns.
type Subject struct {
	Number       string
	Order        OrderRef
	Destination  taxdomain.Address
	Items        []taxdomain.PricedItem
	ShippingCost decimal.Decimal
	Discount     decimal.Decimal
	DocumentID   string
}
