package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, records []TaxJournalRecord) error
	ListByDocumentID(ctx context.Context, documentID string) ([]TaxJournalRecord, error)
	ListByEntryID(ctx context.Context, entryID snowflake.ID) ([]TaxJournalRecord, error)
	ListByOrderNumber(ctx context.Context, storeCode, orderNumber string) ([]TaxJournalRecord, error)
	// LatestEntryID returns zero when the document has no entry of that journal type.
	LatestEntryID(ctx context.Context, documentID string, journalType taxdomain.JournalType) (snowflake.ID, error)
	FirstTransactionDate(ctx context.Context, documentID string) (*time.Time, error)
}

// Service persists tax documents as journal entries and reads them back.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Commit(ctx context.Context, doc *taxdomain.TaxDocument, operation taxdomain.TaxOperationContext) (*JournalEntry, error)
	FindByDocumentID(ctx context.Context, documentID string) ([]JournalEntry, error)
	FindLatestEntry(ctx context.Context, documentID string, journalType taxdomain.JournalType) (*JournalEntry, error)
	FindByOrderNumber(ctx context.Context, storeCode, orderNumber string) ([]JournalEntry, error)
	FindTransactionDate(ctx context.Context, documentID string) (*time.Time, error)
	// ToTaxDocument rebuilds the document committed by an entry.
	ToTaxDocument(entry *JournalEntry) *taxdomain.TaxDocument
}
