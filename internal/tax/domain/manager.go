package domain

import "context"

//go:generate mockgen -source=manager.go -destination=../mocks/mock_manager.go -package=mocks

// TaxManager is the provider boundary.
type TaxManager interface {
	// Name identifies the provider on records and journal rows.
	Name() string
	Calculate(ctx context.Context, container *TaxableItemContainer) (*TaxDocument, error)
	CommitDocument(ctx context.Context, doc *TaxDocument, operation TaxOperationContext) error
	DeleteDocument(ctx context.Context, documentID string, operation TaxOperationContext) error
}
