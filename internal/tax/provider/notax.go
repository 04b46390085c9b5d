package provider

import (
	"context"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

// NoTaxProvider returns zero tax for every item.
// Used for stores that do not collect tax or for exempt channels.
type NoTaxProvider struct{}

func NewNoTaxProvider() *NoTaxProvider {
	return &NoTaxProvider{}
}

func (p *NoTaxProvider) Name() string { return NameNoTax }

func (p *NoTaxProvider) Calculate(_ context.Context, container *taxdomain.TaxableItemContainer) (*taxdomain.TaxDocument, error) {
	if container == nil {
		return nil, taxdomain.ErrNilContainer
	}
	items := make([]taxdomain.TaxedItem, len(container.Items))
	for i, item := range container.Items {
		items[i] = untaxed(p.Name(), item)
	}
	return newDocument(p.Name(), container, items, false), nil
}

func (p *NoTaxProvider) CommitDocument(context.Context, *taxdomain.TaxDocument, taxdomain.TaxOperationContext) error {
	return nil
}

func (p *NoTaxProvider) DeleteDocument(context.Context, string, taxdomain.TaxOperationContext) error {
	return nil
}
