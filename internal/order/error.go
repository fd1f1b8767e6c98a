package order

import "errors"

var (
	// -- Validation (no side effects yet) --
	ErrProductNotFound      = errors.New("product not found")
	ErrProductInactive      = errors.New("product is not purchasable")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrCouponNotAccepted    = errors.New("coupon codes are not accepted")

	// -- Lifecycle --
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// -- Access & lookup --
	ErrOrderNotFound = errors.New("order not found")
	ErrUnauthorized  = errors.New("unauthorized")

	// -- Transactional --
	ErrTransactionConflict = errors.New("transaction conflict, retry the placement")
	ErrDuplicateRequest    = errors.New("duplicate request, idempotency key already used")
)
