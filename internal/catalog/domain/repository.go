package domain

import (
	"context"
	"errors"
)

var ErrInvalidSkuCode = errors.New("invalid_sku_code")

// Catalog resolves SKU codes. A missing SKU is reported as (nil, nil).
type Catalog interface {
	FindSku(ctx context.Context, code string) (*Sku, error)
}
