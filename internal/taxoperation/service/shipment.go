package service

import (
	"context"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
	opdomain "github.com/smallbiznis/taxengine/internal/taxoperation/domain"
)

type ShipmentService struct {
	op *operator
}

func NewTaxOperationService(p Params) opdomain.TaxOperationService {
	return &ShipmentService{op: newOperator(p, shipmentLifecycle)}
}

// CalculateTaxes prices the shipment without persisting anything.
func (s *ShipmentService) CalculateTaxes(ctx context.Context, shipment *opdomain.Shipment) (*taxdomain.TaxCalculationResult, error) {
	if shipment == nil {
		return nil, opdomain.ErrNilShipment
	}
	return s.op.calculate(ctx, shipment.Subject(), s.op.life.commit)
}

func (s *ShipmentService) CommitDocument(ctx context.Context, doc *taxdomain.TaxDocument, shipment *opdomain.Shipment) (*journaldomain.JournalEntry, error) {
	if shipment == nil {
		return nil, opdomain.ErrNilShipment
	}
	var entry *journaldomain.JournalEntry
	err := s.op.withLock(ctx, s.op.orderLock(shipment.Order.Number, shipment.Number), func(ctx context.Context) error {
		var err error
		entry, err = s.op.commit(ctx, s.op.journal, doc, shipment.Subject(), s.op.life.commit)
		return err
	})
	if err != nil {
		return nil, err
	}
	shipment.DocumentID = entry.DocumentID
	return entry, nil
}

func (s *ShipmentService) ReverseTaxes(ctx context.Context, shipment *opdomain.Shipment) (*journaldomain.JournalEntry, error) {
	if shipment == nil {
		return nil, opdomain.ErrNilShipment
	}
	if !shipment.IsCancelled() {
		return nil, s.op.life.notCancelled
	}
	var entry *journaldomain.JournalEntry
	err := s.op.withLock(ctx, s.op.orderLock(shipment.Order.Number, shipment.Number), func(ctx context.Context) error {
		var err error
		entry, err = s.op.reverse(ctx, s.op.journal, shipment.Subject(), s.op.life.cancel)
		return err
	})
	return entry, err
}

func (s *ShipmentService) UpdateTaxes(ctx context.Context, order *opdomain.Order, changes []opdomain.ShipmentChange) (*opdomain.UpdateResult, error) {
	if order == nil {
		return nil, opdomain.ErrNilOrder
	}
	items := make([]change, 0, len(changes))
	for _, c := range changes {
		shipment := c.Shipment
		if shipment == nil {
			return nil, opdomain.ErrNilShipment
		}
		if shipment.Order.Number == "" {
			shipment.Order = order.OrderRef
		}
		items = append(items, change{
			kind:    c.Kind,
			subject: shipment.Subject(),
			assign:  func(documentID string) { shipment.DocumentID = documentID },
		})
	}
	return s.op.update(ctx, s.op.orderLock(order.Number, ""), items)
}
