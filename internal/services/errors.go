package services

import "errors"

// Sentinel errors handlers translate into HTTP statuses.
var (
	ErrNotApproved       = errors.New("invoice is not approved")
	ErrAlreadyDisbursed  = errors.New("invoice is already disbursed")
	ErrNotDisbursed      = errors.New("invoice is not disbursed")
	ErrInsufficientStock = errors.New("insufficient stock in batch")
	ErrBatchConflict     = errors.New("batch was modified concurrently, retry")
	ErrDuplicateName     = errors.New("product name already exists")
	ErrProductInUse      = errors.New("product is referenced by invoice items")
	ErrBatchInUse        = errors.New("batch is referenced by sales invoice items")
	ErrPurchaseConsumed  = errors.New("purchase invoice has partially sold batches")
	ErrEmptyInvoice      = errors.New("invoice has no items")
)
