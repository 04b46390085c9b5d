package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxengine/internal/clock"
	obslogger "github.com/smallbiznis/taxengine/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/taxengine/internal/observability/metrics"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
	"github.com/smallbiznis/taxengine/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repository journaldomain.Repository
	Clock      clock.Clock
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
	Telemetry  *telemetry.Metrics  `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       journaldomain.Repository
	clock      clock.Clock
	adapter    *DocumentAdapter
	obsMetrics *obsmetrics.Metrics
	telemetry  *telemetry.Metrics
}

func NewService(p Params) journaldomain.Service {
	c := p.Clock
	if c == nil {
		c = clock.NewSystemClock()
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("taxjournal.service"),
		genID:      p.GenID,
		repo:       p.Repository,
		clock:      c,
		adapter:    NewDocumentAdapter(p.GenID),
		obsMetrics: p.ObsMetrics,
		telemetry:  p.Telemetry,
	}
}

// WithTx binds the service to the caller's transaction.
func (s *Service) WithTx(tx *gorm.DB) journaldomain.Service {
	out := *s
	out.db = tx
	out.repo = s.repo.WithTx(tx)
	return &out
}

func (s *Service) Commit(ctx context.Context, doc *taxdomain.TaxDocument, operation taxdomain.TaxOperationContext) (*journaldomain.JournalEntry, error) {
	if doc == nil {
		return nil, journaldomain.ErrNilDocument
	}
	if strings.TrimSpace(doc.DocumentID) == "" {
		return nil, journaldomain.ErrMissingDocumentID
	}
	if operation.TransactionType == "" {
		return nil, journaldomain.ErrMissingTransaction
	}
	journalType := journalTypeOf(doc, operation)
	if journalType != taxdomain.JournalTypePurchase && journalType != taxdomain.JournalTypeReversal {
		return nil, journaldomain.ErrInvalidJournalType
	}
	if len(doc.Container.Items) == 0 {
		return nil, journaldomain.ErrEmptyJournalEntry
	}

	entryID := s.genID.Generate()
	when := s.clock.Now().UTC()
	records := s.adapter.ToJournalRecords(doc, operation, entryID, when)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Insert(ctx, records)
	})
	if err != nil {
		return nil, fmt.Errorf("commit journal entry for document %s: %w", doc.DocumentID, err)
	}

	log := obslogger.WithDocument(obslogger.WithContext(ctx, s.log), doc.DocumentID, operation.StoreCode)
	log.Info("journal entry committed",
		zap.String("journal_entry_id", entryID.String()),
		zap.String("journal_type", string(journalType)),
		zap.String("transaction_type", string(operation.TransactionType)),
		zap.Int("rows", len(records)),
	)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordJournalEntry(ctx, string(journalType), string(operation.TransactionType))
	}
	if s.telemetry != nil {
		s.telemetry.ObserveJournalRows(string(journalType), string(operation.TransactionType), len(records))
	}

	return &journaldomain.JournalEntry{
		ID:              entryID,
		DocumentID:      doc.DocumentID,
		JournalType:     journalType,
		TransactionType: operation.TransactionType,
		TransactionDate: when,
		OrderNumber:     operation.OrderNumber,
		Records:         records,
	}, nil
}

func (s *Service) FindByDocumentID(ctx context.Context, documentID string) ([]journaldomain.JournalEntry, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, journaldomain.ErrMissingDocumentID
	}
	records, err := s.repo.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return groupEntries(records), nil
}

// FindLatestEntry returns nil when the document has no entry of journalType.
func (s *Service) FindLatestEntry(ctx context.Context, documentID string, journalType taxdomain.JournalType) (*journaldomain.JournalEntry, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, journaldomain.ErrMissingDocumentID
	}
	entryID, err := s.repo.LatestEntryID(ctx, documentID, journalType)
	if err != nil {
		return nil, err
	}
	if entryID == 0 {
		return nil, nil
	}
	records, err := s.repo.ListByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entries := groupEntries(records)
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (s *Service) FindByOrderNumber(ctx context.Context, storeCode, orderNumber string) ([]journaldomain.JournalEntry, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, taxdomain.ErrInvalidArgument
	}
	records, err := s.repo.ListByOrderNumber(ctx, storeCode, orderNumber)
	if err != nil {
		return nil, err
	}
	return groupEntries(records), nil
}

// FindTransactionDate returns the date of the document's first journal entry.
func (s *Service) FindTransactionDate(ctx context.Context, documentID string) (*time.Time, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, journaldomain.ErrMissingDocumentID
	}
	return s.repo.FirstTransactionDate(ctx, documentID)
}

func (s *Service) ToTaxDocument(entry *journaldomain.JournalEntry) *taxdomain.TaxDocument {
	if entry == nil {
		return nil
	}
	return s.adapter.ToTaxDocument(entry.Records)
}

// groupEntries splits rows ordered by entry id into journal entries.
func groupEntries(records []journaldomain.TaxJournalRecord) []journaldomain.JournalEntry {
	var entries []journaldomain.JournalEntry
	for _, row := range records {
		if n := len(entries); n > 0 && entries[n-1].ID == row.JournalEntryID {
			entries[n-1].Records = append(entries[n-1].Records, row)
			continue
		}
		entries = append(entries, journaldomain.JournalEntry{
			ID:              row.JournalEntryID,
			DocumentID:      row.DocumentID,
			JournalType:     row.JournalType,
			TransactionType: row.TransactionType,
			TransactionDate: row.TransactionDate,
			OrderNumber:     row.OrderNumber,
			Records:         []journaldomain.TaxJournalRecord{row},
		})
	}
	return entries
}
