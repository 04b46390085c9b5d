package domain

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "PENDING"
	ShipmentStatusShipped   ShipmentStatus = "SHIPPED"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
	ShipmentStatusCancelled ShipmentStatus = "CANCELLED"
)

type ShipmentType string

const (
	ShipmentTypePhysical   ShipmentType = "PHYSICAL"
	ShipmentTypeElectronic ShipmentType = "ELECTRONIC"
)

// Shipment is the unit of order taxation. DocumentID names the tax document
// last committed for it and is empty until the first commit.
type Shipment struct {
	Number       string
	Order        OrderRef
	Type         ShipmentType
	Status       ShipmentStatus
	Address      taxdomain.Address
	Skus         []OrderSku
	ShippingCost decimal.Decimal
	Discount     decimal.Decimal
	DocumentID   string
}

func (s *Shipment) IsCancelled() bool {
	return s != nil && s.Status == ShipmentStatusCancelled
}

func (s *Shipment) Subject() Subject {
	shipping := s.ShippingCost
	if s.Type == ShipmentTypeElectronic {
		shipping = decimal.Zero
	}
	items := make([]taxdomain.PricedItem, 0, len(s.Skus))
	for _, sku := range s.Skus {
		items = append(items, sku.Priced())
	}
	return Subject{
		Number:       s.Number,
		Order:        s.Order,
		Destination:  s.Address,
		Items:        items,
		ShippingCost: shipping,
		Discount:     s.Discount,
		DocumentID:   s.DocumentID,
	}
}

type ChangeKind string

const (
	ChangeNew       ChangeKind = "NEW"
	ChangeChanged   ChangeKind = "CHANGED"
	ChangeCancelled ChangeKind = "CANCELLED"
)

// ShipmentChange describes one shipment affected by an order modification.
type ShipmentChange struct {
	Kind     ChangeKind
	Shipment *Shipment
}
