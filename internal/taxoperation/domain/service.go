package domain

import (
	"context"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
)

// UpdateResult reports the journal entries written by an update.
type UpdateResult struct {
	Reversed  []journaldomain.JournalEntry
	Committed []journaldomain.JournalEntry
}

type TaxOperationService interface {
	CalculateTaxes(ctx context.Context, shipment *Shipment) (*taxdomain.TaxCalculationResult, error)
	CommitDocument(ctx context.Context, doc *taxdomain.TaxDocument, shipment *Shipment) (*journaldomain.JournalEntry, error)
	// ReverseTaxes returns nil when there is nothing left to reverse.
	ReverseTaxes(ctx context.Context, shipment *Shipment) (*journaldomain.JournalEntry, error)
	UpdateTaxes(ctx context.Context, order *Order, changes []ShipmentChange) (*UpdateResult, error)
}

type ReturnTaxOperationService interface {
	CalculateTaxes(ctx context.Context, ret *Return) (*taxdomain.TaxCalculationResult, error)
	CommitDocument(ctx context.Context, doc *taxdomain.TaxDocument, ret *Return) (*journaldomain.JournalEntry, error)
	ReverseTaxes(ctx context.Context, ret *Return) (*journaldomain.JournalEntry, error)
	UpdateTaxes(ctx context.Context, changes []ReturnChange) (*UpdateResult, error)
}
