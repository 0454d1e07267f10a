package billing

import (
	"errors"
	"fmt"
)

// Validation failures reject the draft before anything is persisted; the
// operator corrects the input and resubmits.
var (
	ErrEmptyCart              = errors.New("bill has no line items")
	ErrInvalidQuantity        = errors.New("line item quantity must be positive")
	ErrMissingPaymentMethod   = errors.New("payment method is required")
	ErrUnknownPaymentMethod   = errors.New("unknown payment method")
	ErrCreditRequiresCustomer = errors.New("credit sales require a registered customer")
	ErrMissingWalkInName      = errors.New("walk-in sales require a customer name")
	ErrInvalidAmount          = errors.New("amount must be positive")
)

// Gateway-phase failures. Nothing has been persisted when these occur, so
// the draft can be retried with a fresh intent.
var (
	ErrConfirmationRequired = errors.New("gateway settlements need a payment confirmation")
	ErrUnknownIntent        = errors.New("unknown payment intent")
	ErrIntentRejected       = errors.New("payment intent was already rejected")
	ErrIntentConsumed       = errors.New("payment intent already settled an order")
	ErrAmountMismatch       = errors.New("payment amount does not match the bill total")
)

// PersistenceError wraps a failure inside the Committing phase. OrderID is
// non-zero when an order row already exists, so the operator can find and
// reconcile the partial record. No compensating rollback is attempted.
type PersistenceError struct {
	Step    string
	OrderID uint
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.OrderID != 0 {
		return fmt.Sprintf("settlement failed at %s (order %d): %v", e.Step, e.OrderID, e.Err)
	}
	return fmt.Sprintf("settlement failed at %s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// InvoiceError marks a settlement whose order committed but whose invoice
// document could not be produced. The order stands; the invoice is
// regenerated later through the orders API.
type InvoiceError struct {
	OrderID uint
	Err     error
}

func (e *InvoiceError) Error() string {
	return fmt.Sprintf("invoice generation failed for order %d: %v", e.OrderID, e.Err)
}

func (e *InvoiceError) Unwrap() error { return e.Err }
