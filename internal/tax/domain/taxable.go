package domain

import (
	"github.com/shopspring/decimal"
)

const (
	// ItemCodeShipping identifies the synthetic shipping line.
	ItemCodeShipping = "shipping"
	// TaxCodeShipping is the tax code applied to shipping cost.
	TaxCodeShipping = "SHIPPING"
	// ShippingDescription is the display text of the synthetic shipping line.
	ShippingDescription = "Shipping Cost"
	// TaxNameNoTax marks a record emitted when no rate applies. Excluded from totals.
	TaxNameNoTax = "NO_TAX"
)

type JournalType string

const (
	JournalTypePurchase JournalType = "PURCHASE"
	JournalTypeReversal JournalType = "REVERSAL"
)

// Sign is +1 for purchases and -1 for reversals.
func (j JournalType) Sign() decimal.Decimal {
	if j == JournalTypeReversal {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

func (j JournalType) Opposite() JournalType {
	if j == JournalTypeReversal {
		return JournalTypePurchase
	}
	return JournalTypeReversal
}

type TransactionType string

const (
	TransactionTypeCart         TransactionType = "CART"
	TransactionTypeOrder        TransactionType = "ORDER"
	TransactionTypeOrderCancel  TransactionType = "ORDER_CANCEL"
	TransactionTypeOrderChange  TransactionType = "ORDER_CHANGE"
	TransactionTypeReturn       TransactionType = "RETURN"
	TransactionTypeReturnCancel TransactionType = "RETURN_CANCEL"
	TransactionTypeReturnChange TransactionType = "RETURN_CHANGE"
)

// TaxExemption is a customer's exemption certificate.
type TaxExemption struct {
	Code string            `json:"code,omitempty"`
	Data map[string]string `json:"data,omitempty"`
}

// TaxOperationContext carries the journal metadata of one calculation.
type TaxOperationContext struct {
	JournalType             JournalType     `json:"journal_type"`
	TransactionType         TransactionType `json:"transaction_type"`
	DocumentID              string          `json:"document_id"`
	OrderNumber             string          `json:"order_number,omitempty"`
	CustomerCode            string          `json:"customer_code,omitempty"`
	CustomerBusinessNumber  string          `json:"customer_business_number,omitempty"`
	TaxExemption            *TaxExemption   `json:"tax_exemption,omitempty"`
	ShippingItemReferenceID string          `json:"shipping_item_reference_id,omitempty"`
	StoreCode               string          `json:"store_code,omitempty"`
	Currency                string          `json:"currency,omitempty"`
}

// TaxableItem is the provider-neutral pre-tax line.
type TaxableItem struct {
	GUID            string          `json:"guid"`
	ItemCode        string          `json:"item_code"`
	ItemDescription string          `json:"item_description,omitempty"`
	TaxCode         string          `json:"tax_code"`
	TaxCodeActive   bool            `json:"tax_code_active"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Discount        decimal.Decimal `json:"discount"`
	Currency        string          `json:"currency"`
}

// TaxableAmount is price less apportioned discount.
func (t TaxableItem) TaxableAmount() decimal.Decimal {
	return t.Price.Sub(t.Discount)
}

func (t TaxableItem) IsShipping() bool {
	return t.ItemCode == ItemCodeShipping
}

// TaxableItemContainer is the full request handed to a tax provider.
type TaxableItemContainer struct {
	Items       []TaxableItem       `json:"items"`
	Destination Address             `json:"destination"`
	Origin      Address             `json:"origin"`
	StoreCode   string              `json:"store_code"`
	Currency    string              `json:"currency"`
	Operation   TaxOperationContext `json:"operation"`
}
