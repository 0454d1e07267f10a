package models

import "time"

const (
	IntentCreated  = "created"
	IntentVerified = "verified"
	IntentRejected = "rejected"
	IntentConsumed = "consumed"
)

// PaymentIntent correlates the two phases of a gateway settlement. The
// server keeps no in-memory draft between intent creation and the payment
// callback; this row is the only state that survives the wait. A rejected
// intent stays rejected, and a consumed one settled exactly one order; in
// both cases the operator must start over with a fresh intent.
type PaymentIntent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IntentID    string    `gorm:"size:64;uniqueIndex;not null" json:"intent_id"`
	PaymentID   string    `gorm:"size:64" json:"payment_id,omitempty"`
	AmountMinor int64     `json:"amount_minor_units"`
	Currency    string    `gorm:"size:8" json:"currency"`
	Receipt     string    `gorm:"size:64" json:"receipt"`
	Status      string    `gorm:"size:16;default:'created'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
