package domain

import "errors"

var (
	ErrNilShipment          = errors.New("nil_shipment")
	ErrNilReturn            = errors.New("nil_return")
	ErrNilOrder             = errors.New("nil_order")
	ErrMissingNumber        = errors.New("missing_number")
	ErrShipmentNotCancelled = errors.New("shipment_not_cancelled")
	ErrReturnNotCancelled   = errors.New("return_not_cancelled")
	ErrUnknownChangeKind    = errors.New("unknown_change_kind")
	ErrOperationInProgress  = errors.New("operation_in_progress")
)
