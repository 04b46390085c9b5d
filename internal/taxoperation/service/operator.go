package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/taxengine/internal/lock"
	obslogger "github.com/smallbiznis/taxengine/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/taxengine/internal/observability/metrics"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
	opdomain "github.com/smallbiznis/taxengine/internal/taxoperation/domain"
	"github.com/smallbiznis/taxengine/pkg/money"
	"github.com/smallbiznis/taxengine/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lockTTL = 30 * time.Second

const (
	skipNoDocument      = "no_document"
	skipNoHistory       = "no_history"
	skipAlreadyReversed = "already_reversed"
)

// lifecycle names the transaction types an entity moves through. scope is the
// lock namespace shared by every operation on the entity's order.
type lifecycle struct {
	entity       string
	scope        string
	commit       taxdomain.TransactionType
	cancel       taxdomain.TransactionType
	change       taxdomain.TransactionType
	notCancelled error
}

var (
	shipmentLifecycle = lifecycle{
		entity:       "shipment",
		scope:        "order",
		commit:       taxdomain.TransactionTypeOrder,
		cancel:       taxdomain.TransactionTypeOrderCancel,
		change:       taxdomain.TransactionTypeOrderChange,
		notCancelled: opdomain.ErrShipmentNotCancelled,
	}
	returnLifecycle = lifecycle{
		entity:       "return",
		scope:        "returns",
		commit:       taxdomain.TransactionTypeReturn,
		cancel:       taxdomain.TransactionTypeReturnCancel,
		change:       taxdomain.TransactionTypeReturnChange,
		notCancelled: opdomain.ErrReturnNotCancelled,
	}
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Calculator taxdomain.CalculationService
	Manager    taxdomain.TaxManager
	Journal    journaldomain.Service
	Locker     lock.Locker         `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

// operator runs the calculate, commit, reverse and update lifecycle for one entity kind.
type operator struct {
	db         *gorm.DB
	log        *zap.Logger
	calculator taxdomain.CalculationService
	manager    taxdomain.TaxManager
	journal    journaldomain.Service
	locker     lock.Locker
	obsMetrics *obsmetrics.Metrics
	tracer     trace.Tracer
	life       lifecycle
}

func newOperator(p Params, life lifecycle) *operator {
	locker := p.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &operator{
		db:         p.DB,
		log:        p.Log.Named("taxoperation." + life.entity),
		calculator: p.Calculator,
		manager:    p.Manager,
		journal:    p.Journal,
		locker:     locker,
		obsMetrics: p.ObsMetrics,
		tracer:     otel.Tracer("github.com/smallbiznis/taxengine/internal/taxoperation"),
		life:       life,
	}
}

// change is one subject of an update; assign records the document committed for it.
type change struct {
	kind    opdomain.ChangeKind
	subject opdomain.Subject
	assign  func(documentID string)
}

func newDocumentID(number string) string {
	return fmt.Sprintf("%s-%s", number, ulid.Make().String())
}

func (o *operator) operation(subject opdomain.Subject, journalType taxdomain.JournalType, txType taxdomain.TransactionType, documentID string) taxdomain.TaxOperationContext {
	return taxdomain.TaxOperationContext{
		JournalType:             journalType,
		TransactionType:         txType,
		DocumentID:              documentID,
		OrderNumber:             subject.Order.Number,
		CustomerCode:            subject.Order.CustomerCode,
		CustomerBusinessNumber:  subject.Order.CustomerBusinessNumber,
		TaxExemption:            subject.Order.TaxExemption,
		ShippingItemReferenceID: subject.Number,
		StoreCode:               subject.Order.StoreCode,
		Currency:                subject.Order.Currency,
	}
}

func (o *operator) calculate(ctx context.Context, subject opdomain.Subject, txType taxdomain.TransactionType) (*taxdomain.TaxCalculationResult, error) {
	if strings.TrimSpace(subject.Number) == "" {
		return nil, opdomain.ErrMissingNumber
	}
	documentID := subject.DocumentID
	if documentID == "" {
		documentID = newDocumentID(subject.Number)
	}

	currency := subject.Order.Currency
	shipping := money.New(subject.ShippingCost, currency)
	discount := money.New(subject.Discount, currency)
	return o.calculator.CalculateTaxes(ctx, taxdomain.CalculationRequest{
		StoreCode:      subject.Order.StoreCode,
		Currency:       currency,
		Destination:    subject.Destination,
		ShippingCost:   &shipping,
		PreTaxDiscount: &discount,
		Items:          subject.Items,
		Operation:      o.operation(subject, taxdomain.JournalTypePurchase, txType, documentID),
	})
}

// commit hands the document to the provider and then journals it.
func (o *operator) commit(ctx context.Context, journal journaldomain.Service, doc *taxdomain.TaxDocument, subject opdomain.Subject, txType taxdomain.TransactionType) (*journaldomain.JournalEntry, error) {
	if doc == nil {
		return nil, journaldomain.ErrNilDocument
	}
	op := o.operation(subject, taxdomain.JournalTypePurchase, txType, doc.DocumentID)
	if err := o.manager.CommitDocument(ctx, doc, op); err != nil {
		return nil, fmt.Errorf("provider commit %s: %w", doc.DocumentID, err)
	}
	return journal.Commit(ctx, doc, op)
}

// reverse journals a negating copy of the latest purchase entry of the
// subject's document. It returns nil when there is nothing to reverse.
func (o *operator) reverse(ctx context.Context, journal journaldomain.Service, subject opdomain.Subject, txType taxdomain.TransactionType) (*journaldomain.JournalEntry, error) {
	log := obslogger.WithDocument(obslogger.WithContext(ctx, o.log), subject.DocumentID, subject.Order.StoreCode).With(
		zap.String("number", subject.Number),
		zap.String("transaction_type", string(txType)),
	)
	if subject.DocumentID == "" {
		return o.skip(ctx, log, skipNoDocument)
	}

	purchase, err := journal.FindLatestEntry(ctx, subject.DocumentID, taxdomain.JournalTypePurchase)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return o.skip(ctx, log, skipNoHistory)
	}
	reversed, err := journal.FindLatestEntry(ctx, subject.DocumentID, taxdomain.JournalTypeReversal)
	if err != nil {
		return nil, err
	}
	if reversed != nil && reversed.ID > purchase.ID {
		return o.skip(ctx, log, skipAlreadyReversed)
	}

	doc := journal.ToTaxDocument(purchase)
	doc.JournalType = taxdomain.JournalTypeReversal
	op := o.operation(subject, taxdomain.JournalTypeReversal, txType, subject.DocumentID)

	if err := o.manager.DeleteDocument(ctx, subject.DocumentID, op); err != nil {
		return nil, fmt.Errorf("provider delete %s: %w", subject.DocumentID, err)
	}
	entry, err := journal.Commit(ctx, doc, op)
	if err != nil {
		return nil, err
	}
	log.Info("tax document reversed", zap.String("journal_entry_id", entry.ID.String()))
	return entry, nil
}

func (o *operator) skip(ctx context.Context, log *zap.Logger, reason string) (*journaldomain.JournalEntry, error) {
	log.Info("nothing to reverse", zap.String("reason", reason))
	o.obsMetrics.RecordReversalSkipped(ctx, reason)
	return nil, nil
}

// update applies changes in one transaction. Reversals run before the fresh
// commit of a changed subject, and document ids are only assigned once the
// transaction succeeds.
func (o *operator) update(ctx context.Context, lockKey string, changes []change) (*opdomain.UpdateResult, error) {
	ctx, _ = correlation.Ensure(ctx)
	ctx, span := o.tracer.Start(ctx, "taxoperation.update", trace.WithAttributes(
		attribute.String("entity", o.life.entity),
		attribute.Int("changes", len(changes)),
	))
	defer span.End()

	result := &opdomain.UpdateResult{}
	assigned := make([]func(), 0, len(changes))

	err := o.withLock(ctx, lockKey, func(ctx context.Context) error {
		return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			journal := o.journal.WithTx(tx)
			for _, c := range changes {
				subject := c.subject
				switch c.kind {
				case opdomain.ChangeCancelled:
					entry, err := o.reverse(ctx, journal, subject, o.life.cancel)
					if err != nil {
						return err
					}
					if entry != nil {
						result.Reversed = append(result.Reversed, *entry)
					}
					continue
				case opdomain.ChangeChanged:
					entry, err := o.reverse(ctx, journal, subject, o.life.change)
					if err != nil {
						return err
					}
					if entry != nil {
						result.Reversed = append(result.Reversed, *entry)
					}
					subject.DocumentID = ""
				case opdomain.ChangeNew:
				default:
					return fmt.Errorf("%w: %q", opdomain.ErrUnknownChangeKind, c.kind)
				}

				calculated, err := o.calculate(ctx, subject, o.life.change)
				if err != nil {
					return err
				}
				entry, err := o.commit(ctx, journal, calculated.Document, subject, o.life.change)
				if err != nil {
					return err
				}
				result.Committed = append(result.Committed, *entry)
				if c.assign != nil {
					assign, documentID := c.assign, entry.DocumentID
					assigned = append(assigned, func() { assign(documentID) })
				}
			}
			return nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, fn := range assigned {
		fn()
	}
	obslogger.WithContext(ctx, o.log).Info("tax update applied",
		zap.String("lock_key", lockKey),
		zap.Int("reversed", len(result.Reversed)),
		zap.Int("committed", len(result.Committed)),
	)
	return result, nil
}

// withLock seeds the correlation id before taking the lock, so every log and
// journal entry written under it shares one id.
func (o *operator) withLock(ctx context.Context, key string, fn func(context.Context) error) error {
	ctx, _ = correlation.Ensure(ctx)
	token, ok, err := o.locker.TryLock(ctx, key, lockTTL)
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", opdomain.ErrOperationInProgress, key)
	}
	defer func() {
		if err := o.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			obslogger.WithContext(ctx, o.log).Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn(ctx)
}

// orderLock is the key held by commit, reverse and update for one order.
func (o *operator) orderLock(orderNumber, number string) string {
	if n := strings.TrimSpace(orderNumber); n != "" {
		return lockKey(o.life.scope, n)
	}
	return lockKey(o.life.entity, number)
}

func lockKey(entity, number string) string {
	return "tax:operation:" + entity + ":" + number
}
