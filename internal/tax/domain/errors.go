package domain

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid_argument")
	ErrMissingCurrency     = errors.New("missing_currency")
	ErrMissingItems        = errors.New("missing_items")
	ErrMissingShippingCost = errors.New("missing_shipping_cost")
	ErrMissingDiscount     = errors.New("missing_discount")
	ErrStoreNotFound       = errors.New("store_not_found")
	ErrUnknownSku          = errors.New("unknown_sku")
	ErrNilContainer        = errors.New("nil_container")
)
