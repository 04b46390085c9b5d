package domain

import "errors"

var (
	ErrNilDocument        = errors.New("nil_document")
	ErrMissingDocumentID  = errors.New("missing_document_id")
	ErrInvalidJournalType = errors.New("invalid_journal_type")
	ErrMissingTransaction = errors.New("missing_transaction_type")
	ErrEmptyJournalEntry  = errors.New("empty_journal_entry")
	ErrDuplicateRecord    = errors.New("duplicate_journal_record")
)
