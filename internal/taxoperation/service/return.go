package service

import (
	"context"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
	opdomain "github.com/smallbiznis/taxengine/internal/taxoperation/domain"
)

type ReturnService struct {
	op *operator
}

func NewReturnTaxOperationService(p Params) opdomain.ReturnTaxOperationService {
	return &ReturnService{op: newOperator(p, returnLifecycle)}
}

func (s *ReturnService) CalculateTaxes(ctx context.Context, ret *opdomain.Return) (*taxdomain.TaxCalculationResult, error) {
	if ret == nil {
		return nil, opdomain.ErrNilReturn
	}
	return s.op.calculate(ctx, ret.Subject(), s.op.life.commit)
}

func (s *ReturnService) CommitDocument(ctx context.Context, doc *taxdomain.TaxDocument, ret *opdomain.Return) (*journaldomain.JournalEntry, error) {
	if ret == nil {
		return nil, opdomain.ErrNilReturn
	}
	var entry *journaldomain.JournalEntry
	err := s.op.withLock(ctx, s.op.orderLock(ret.Order.Number, ret.RMANumber), func(ctx context.Context) error {
		var err error
		entry, err = s.op.commit(ctx, s.op.journal, doc, ret.Subject(), s.op.life.commit)
		return err
	})
	if err != nil {
		return nil, err
	}
	ret.DocumentID = entry.DocumentID
	return entry, nil
}

func (s *ReturnService) ReverseTaxes(ctx context.Context, ret *opdomain.Return) (*journaldomain.JournalEntry, error) {
	if ret == nil {
		return nil, opdomain.ErrNilReturn
	}
	if !ret.IsCancelled() {
		return nil, s.op.life.notCancelled
	}
	var entry *journaldomain.JournalEntry
	err := s.op.withLock(ctx, s.op.orderLock(ret.Order.Number, ret.RMANumber), func(ctx context.Context) error {
		var err error
		entry, err = s.op.reverse(ctx, s.op.journal, ret.Subject(), s.op.life.cancel)
		return err
	})
	return entry, err
}

// UpdateTaxes locks the order of the first change; changes are expected to share one order.
func (s *ReturnService) UpdateTaxes(ctx context.Context, changes []opdomain.ReturnChange) (*opdomain.UpdateResult, error) {
	items := make([]change, 0, len(changes))
	for _, c := range changes {
		ret := c.Return
		if ret == nil {
			return nil, opdomain.ErrNilReturn
		}
		items = append(items, change{
			kind:    c.Kind,
			subject: ret.Subject(),
			assign:  func(documentID string) { ret.DocumentID = documentID },
		})
	}
	if len(items) == 0 {
		return &opdomain.UpdateResult{}, nil
	}
	return s.op.update(ctx, s.op.orderLock(items[0].subject.Order.Number, items[0].subject.Number), items)
}
