package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	opdomain "github.com/smallbiznis/taxengine/internal/taxoperation/domain"
	"github.com/smallbiznis/taxengine/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCalculateTaxesIsPure(t *testing.T) {
	f := newFixture(t)
	shipment := newShipment("SH-1", 2)

	result, err := f.shipping.CalculateTaxes(context.Background(), shipment)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Document.DocumentID, "SH-1-"))
	assert.True(t, result.TotalTaxes.Amount.Equal(d("2.50")), result.TotalTaxes.String())
	assert.True(t, result.ShippingTax.Amount.Equal(d("0.50")))
	assert.Empty(t, shipment.DocumentID)

	entries, err := f.journal.FindByDocumentID(context.Background(), result.Document.DocumentID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestElectronicShipmentHasNoShippingTax(t *testing.T) {
	f := newFixture(t)
	shipment := newShipment("SH-E", 1)
	shipment.Type = opdomain.ShipmentTypeElectronic
	shipment.Skus = []opdomain.OrderSku{{ID: "e1", Sku: "EBOOK", Qty: 1, UnitPrice: d("8.00")}}

	result, err := f.shipping.CalculateTaxes(context.Background(), shipment)
	require.NoError(t, err)
	assert.Len(t, result.Document.Container.Items, 1)
	assert.True(t, result.ShippingTax.IsZero())
	assert.True(t, result.TotalTaxes.Amount.Equal(d("0.80")))
}

func TestCommitAndReverseNetToZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shipment := newShipment("SH-1", 2)

	entry := f.commitShipment(t, shipment)
	assert.Equal(t, taxdomain.TransactionTypeOrder, entry.TransactionType)
	assert.Equal(t, entry.DocumentID, shipment.DocumentID)
	assert.True(t, netTax(t, f.journal, shipment.DocumentID).Equal(d("2.50")))

	shipment.Status = opdomain.ShipmentStatusCancelled
	f.manager.EXPECT().DeleteDocument(gomock.Any(), shipment.DocumentID, gomock.Any()).Return(nil).Times(1)

	reversal, err := f.shipping.ReverseTaxes(ctx, shipment)
	require.NoError(t, err)
	require.NotNil(t, reversal)
	assert.Equal(t, taxdomain.JournalTypeReversal, reversal.JournalType)
	assert.Equal(t, taxdomain.TransactionTypeOrderCancel, reversal.TransactionType)
	assert.True(t, netTax(t, f.journal, shipment.DocumentID).IsZero())

	again, err := f.shipping.ReverseTaxes(ctx, shipment)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestReverseRequiresCancelledShipment(t *testing.T) {
	f := newFixture(t)
	shipment := newShipment("SH-1", 1)
	f.commitShipment(t, shipment)
	shipment.Status = opdomain.ShipmentStatusShipped

	entry, err := f.shipping.ReverseTaxes(context.Background(), shipment)
	assert.ErrorIs(t, err, opdomain.ErrShipmentNotCancelled)
	assert.Nil(t, entry)

	entries, err := f.journal.FindByDocumentID(context.Background(), shipment.DocumentID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, taxdomain.JournalTypePurchase, entries[0].JournalType)
}

func TestReverseWithoutHistoryIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	shipment := newShipment("SH-9", 1)
	shipment.Status = opdomain.ShipmentStatusCancelled

	entry, err := f.shipping.ReverseTaxes(ctx, shipment)
	require.NoError(t, err)
	assert.Nil(t, entry)

	shipment.DocumentID = "SH-9-missing"
	entry, err = f.shipping.ReverseTaxes(ctx, shipment)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCommitPropagatesProviderError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shipment := newShipment("SH-1", 1)
	boom := errors.New("provider down")

	result, err := f.shipping.CalculateTaxes(ctx, shipment)
	require.NoError(t, err)

	f.manager.EXPECT().CommitDocument(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)
	_, err = f.shipping.CommitDocument(ctx, result.Document, shipment)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, shipment.DocumentID)

	entries, err := f.journal.FindByDocumentID(ctx, result.Document.DocumentID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommitRejectsConcurrentOperation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shipment := newShipment("SH-1", 1)

	_, ok, err := f.locker.TryLock(ctx, lockKey("order", "ORD-1"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	result, err := f.shipping.CalculateTaxes(ctx, shipment)
	require.NoError(t, err)
	_, err = f.shipping.CommitDocument(ctx, result.Document, shipment)
	assert.ErrorIs(t, err, opdomain.ErrOperationInProgress)
}

func TestReverseSharesOrderLockWithUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shipment := newShipment("SH-1", 1)
	f.commitShipment(t, shipment)
	shipment.Status = opdomain.ShipmentStatusCancelled

	// an update on the same order is in flight
	token, ok, err := f.locker.TryLock(ctx, lockKey("order", shipment.Order.Number), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.shipping.ReverseTaxes(ctx, shipment)
	assert.ErrorIs(t, err, opdomain.ErrOperationInProgress)

	_, err = f.shipping.UpdateTaxes(ctx, &opdomain.Order{OrderRef: shipment.Order}, []opdomain.ShipmentChange{
		{Kind: opdomain.ChangeCancelled, Shipment: shipment},
	})
	assert.ErrorIs(t, err, opdomain.ErrOperationInProgress)

	require.NoError(t, f.locker.Release(ctx, lockKey("order", shipment.Order.Number), token))
	f.manager.EXPECT().DeleteDocument(gomock.Any(), shipment.DocumentID, gomock.Any()).Return(nil).Times(1)
	entry, err := f.shipping.ReverseTaxes(ctx, shipment)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, netTax(t, f.journal, shipment.DocumentID).IsZero())
}

func TestUpdateTaxes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	changed := newShipment("SH-1", 1)
	cancelled := newShipment("SH-2", 1)
	f.commitShipment(t, changed)
	f.commitShipment(t, cancelled)
	supersededID := changed.DocumentID

	changed.Skus[0].Qty = 3
	cancelled.Status = opdomain.ShipmentStatusCancelled
	added := newShipment("SH-3", 2)
	added.Order = opdomain.OrderRef{}

	order := &opdomain.Order{OrderRef: orderRef(), Shipments: []*opdomain.Shipment{changed, cancelled, added}}

	f.manager.EXPECT().DeleteDocument(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.manager.EXPECT().CommitDocument(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	result, err := f.shipping.UpdateTaxes(ctx, order, []opdomain.ShipmentChange{
		{Kind: opdomain.ChangeChanged, Shipment: changed},
		{Kind: opdomain.ChangeCancelled, Shipment: cancelled},
		{Kind: opdomain.ChangeNew, Shipment: added},
	})
	require.NoError(t, err)
	require.Len(t, result.Reversed, 2)
	require.Len(t, result.Committed, 2)

	assert.Equal(t, taxdomain.TransactionTypeOrderChange, result.Reversed[0].TransactionType)
	assert.Equal(t, taxdomain.TransactionTypeOrderCancel, result.Reversed[1].TransactionType)
	for _, entry := range result.Committed {
		assert.Equal(t, taxdomain.TransactionTypeOrderChange, entry.TransactionType)
		assert.Equal(t, "ORD-1", entry.OrderNumber)
	}

	assert.NotEqual(t, supersededID, changed.DocumentID)
	assert.True(t, strings.HasPrefix(changed.DocumentID, "SH-1-"))
	assert.True(t, netTax(t, f.journal, supersededID).IsZero())
	assert.True(t, netTax(t, f.journal, cancelled.DocumentID).IsZero())
	assert.True(t, netTax(t, f.journal, changed.DocumentID).Equal(d("3.50")))
	assert.True(t, netTax(t, f.journal, added.DocumentID).Equal(d("2.50")))
	assert.Equal(t, "ORD-1", added.Order.Number)
}

func TestUpdateTaxesRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	changed := newShipment("SH-1", 1)
	f.commitShipment(t, changed)
	supersededID := changed.DocumentID
	changed.Skus[0].Qty = 2

	boom := errors.New("provider down")
	f.manager.EXPECT().DeleteDocument(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.manager.EXPECT().CommitDocument(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

	order := &opdomain.Order{OrderRef: orderRef(), Shipments: []*opdomain.Shipment{changed}}
	_, err := f.shipping.UpdateTaxes(ctx, order, []opdomain.ShipmentChange{{Kind: opdomain.ChangeChanged, Shipment: changed}})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, supersededID, changed.DocumentID)
	entries, err := f.journal.FindByDocumentID(ctx, supersededID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpdateTaxesRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	order := &opdomain.Order{OrderRef: orderRef()}

	_, err := f.shipping.UpdateTaxes(context.Background(), order, []opdomain.ShipmentChange{{Kind: "MOVED", Shipment: newShipment("SH-1", 1)}})
	assert.ErrorIs(t, err, opdomain.ErrUnknownChangeKind)

	_, err = f.shipping.UpdateTaxes(context.Background(), nil, nil)
	assert.ErrorIs(t, err, opdomain.ErrNilOrder)
}

func TestReverseSharesCorrelationIDWithJournal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shipment := newShipment("SH-1", 1)
	f.commitShipment(t, shipment)
	shipment.Status = opdomain.ShipmentStatusCancelled
	f.manager.EXPECT().DeleteDocument(gomock.Any(), shipment.DocumentID, gomock.Any()).Return(nil).Times(1)

	_, err := f.shipping.ReverseTaxes(ctx, shipment)
	require.NoError(t, err)

	reversed := f.logs.FilterMessage("tax document reversed").All()
	require.Len(t, reversed, 1)
	id, _ := reversed[0].ContextMap()[correlation.Field].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, shipment.DocumentID, reversed[0].ContextMap()["document_id"])

	committed := f.logs.FilterMessage("journal entry committed").All()
	require.Len(t, committed, 2)
	assert.Equal(t, id, committed[1].ContextMap()[correlation.Field])
	assert.NotEqual(t, id, committed[0].ContextMap()[correlation.Field])
}
