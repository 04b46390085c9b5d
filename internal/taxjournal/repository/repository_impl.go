package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
	"github.com/smallbiznis/taxengine/pkg/db"
	"gorm.io/gorm"
)

const insertBatchSize = 100

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) journaldomain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) journaldomain.Repository {
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, records []journaldomain.TaxJournalRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).CreateInBatches(records, insertBatchSize).Error
	if db.IsDuplicateKeyErr(err) {
		return fmt.Errorf("%w: entry %s", journaldomain.ErrDuplicateRecord, records[0].JournalEntryID)
	}
	return err
}

func (r *repository) ListByDocumentID(ctx context.Context, documentID string) ([]journaldomain.TaxJournalRecord, error) {
	var records []journaldomain.TaxJournalRecord
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Order("journal_entry_id ASC, line_number ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByEntryID(ctx context.Context, entryID snowflake.ID) ([]journaldomain.TaxJournalRecord, error) {
	var records []journaldomain.TaxJournalRecord
	err := r.db.WithContext(ctx).
		Where("journal_entry_id = ?", entryID).
		Order("line_number ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByOrderNumber matches the store code case-insensitively; rows keep the
// code as the store is configured.
func (r *repository) ListByOrderNumber(ctx context.Context, storeCode, orderNumber string) ([]journaldomain.TaxJournalRecord, error) {
	stmt := r.db.WithContext(ctx).Where("order_number = ?", strings.TrimSpace(orderNumber))
	if code := strings.ToUpper(strings.TrimSpace(storeCode)); code != "" {
		stmt = stmt.Where("UPPER(store_code) = ?", code)
	}

	var records []journaldomain.TaxJournalRecord
	if err := stmt.Order("journal_entry_id ASC, line_number ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) LatestEntryID(ctx context.Context, documentID string, journalType taxdomain.JournalType) (snowflake.ID, error) {
	var row struct {
		JournalEntryID snowflake.ID
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT journal_entry_id
		 FROM tax_journal_records
		 WHERE document_id = ? AND journal_type = ?
		 ORDER BY journal_entry_id DESC
		 LIMIT 1`,
		strings.TrimSpace(documentID),
		string(journalType),
	).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.JournalEntryID, nil
}

func (r *repository) FirstTransactionDate(ctx context.Context, documentID string) (*time.Time, error) {
	var records []journaldomain.TaxJournalRecord
	err := r.db.WithContext(ctx).
		Where("document_id = ?", strings.TrimSpace(documentID)).
		Order("transaction_date ASC, id ASC").
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	date := records[0].TransactionDate
	return &date, nil
}
