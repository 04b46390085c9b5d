// Package cache decorates a TaxManager with a structural document cache.
package cache

import (
	"context"
	"strconv"
	"time"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/pkg/telemetry"
	"go.uber.org/zap"
)

const DefaultTTL = 15 * time.Minute

// CachingTaxManager serves repeated calculations of structurally identical
// containers from a DocumentStore. Every hit is rebuilt around the request's own
// items and document id, so callers never see another request's identifiers.
type CachingTaxManager struct {
	delegate   taxdomain.TaxManager
	store      DocumentStore
	ttl        time.Duration
	log        *zap.Logger
	metrics    *telemetry.Metrics
	generation func() uint64
}

type Option func(*CachingTaxManager)

func WithTTL(ttl time.Duration) Option {
	return func(m *CachingTaxManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(m *CachingTaxManager) { m.metrics = metrics }
}

// WithGeneration scopes cache keys to a config generation, so entries computed
// before a reload are never served after it.
func WithGeneration(generation func() uint64) Option {
	return func(m *CachingTaxManager) { m.generation = generation }
}

func NewCachingTaxManager(delegate taxdomain.TaxManager, store DocumentStore, log *zap.Logger, opts ...Option) *CachingTaxManager {
	m := &CachingTaxManager{
		delegate: delegate,
		store:    store,
		ttl:      DefaultTTL,
		log:      log.Named("tax.cache"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *CachingTaxManager) Name() string {
	return m.delegate.Name()
}

func (m *CachingTaxManager) Calculate(ctx context.Context, container *taxdomain.TaxableItemContainer) (*taxdomain.TaxDocument, error) {
	if container == nil {
		return nil, taxdomain.ErrNilContainer
	}

	key := m.key(container)
	hashes := ItemHashes(container.Items)

	entry, found, err := m.store.Get(ctx, key)
	switch {
	case err != nil:
		m.metrics.RecordCacheLookup(telemetry.CacheResultError)
		m.log.Warn("tax cache read failed, recalculating", zap.String("key", key), zap.Error(err))
	case !found:
		m.metrics.RecordCacheLookup(telemetry.CacheResultMiss)
	case !entry.matches(hashes):
		m.metrics.RecordCacheLookup(telemetry.CacheResultStale)
		m.log.Debug("tax cache entry stale", zap.String("key", key))
	default:
		m.metrics.RecordCacheLookup(telemetry.CacheResultHit)
		return Rebind(entry.Document, container), nil
	}

	doc, err := m.delegate.Calculate(ctx, container)
	if err != nil {
		return nil, err
	}

	if err := m.store.Put(ctx, key, &Entry{Document: doc.Clone(), ItemHashes: hashes}, m.ttl); err != nil {
		m.log.Warn("tax cache write failed", zap.String("key", key), zap.Error(err))
	}
	return doc, nil
}

func (m *CachingTaxManager) CommitDocument(ctx context.Context, doc *taxdomain.TaxDocument, operation taxdomain.TaxOperationContext) error {
	return m.delegate.CommitDocument(ctx, doc, operation)
}

func (m *CachingTaxManager) DeleteDocument(ctx context.Context, documentID string, operation taxdomain.TaxOperationContext) error {
	return m.delegate.DeleteDocument(ctx, documentID, operation)
}

func (m *CachingTaxManager) key(container *taxdomain.TaxableItemContainer) string {
	key := ContainerKey(container)
	if m.generation == nil {
		return key
	}
	return "g" + strconv.FormatUint(m.generation(), 10) + ":" + key
}

func (e *Entry) matches(hashes []uint64) bool {
	if e == nil || e.Document == nil {
		return false
	}
	if len(e.ItemHashes) != len(hashes) || len(e.Document.Container.Items) != len(hashes) {
		return false
	}
	for i := range hashes {
		if e.ItemHashes[i] != hashes[i] {
			return false
		}
	}
	return true
}

// Rebind builds a new document from cached numbers and the request's items,
// document id and journal type. cached must match request positionally.
func Rebind(cached *taxdomain.TaxDocument, request *taxdomain.TaxableItemContainer) *taxdomain.TaxDocument {
	journalType := request.Operation.JournalType
	if journalType == "" {
		journalType = cached.JournalType
	}

	items := make([]taxdomain.TaxedItem, len(request.Items))
	for i, taxable := range request.Items {
		source := cached.Container.Items[i]
		records := make([]taxdomain.TaxRecord, len(source.Records))
		copy(records, source.Records)
		items[i] = taxdomain.TaxedItem{
			TaxableItem:    taxable,
			PriceBeforeTax: source.PriceBeforeTax,
			TaxInPrice:     source.TaxInPrice,
			TotalTax:       source.TotalTax,
			Records:        records,
		}
	}

	return &taxdomain.TaxDocument{
		DocumentID:  request.Operation.DocumentID,
		JournalType: journalType,
		Provider:    cached.Provider,
		Container: taxdomain.TaxedItemContainer{
			Items:        items,
			Destination:  request.Destination,
			Origin:       request.Origin,
			StoreCode:    request.StoreCode,
			Currency:     request.Currency,
			TaxInclusive: cached.Container.TaxInclusive,
		},
	}
}
