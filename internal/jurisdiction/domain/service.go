package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

var ErrInvalidRegionCode = errors.New("invalid_region_code")

type Repository interface {
	// ListByRegionCodes loads jurisdictions with their full category tree. No codes means all.
	ListByRegionCodes(ctx context.Context, codes []string) ([]TaxJurisdiction, error)
	FindByID(ctx context.Context, id snowflake.ID) (*TaxJurisdiction, error)
	Create(ctx context.Context, j *TaxJurisdiction) error
}

type Service interface {
	// FindJurisdiction returns the effective jurisdiction for an address, nil when none matches.
	FindJurisdiction(ctx context.Context, storeCode string, address taxdomain.Address) (*TaxJurisdiction, error)
	// Invalidate drops cached jurisdictions of a store.
	Invalidate(storeCode string)
}
