package models

import "time"

const (
	KhatabookPending = "pending"
	KhatabookPaid    = "paid"
	KhatabookOverdue = "overdue"
)

// KhatabookEntry is one customer debt arising from a credit sale.
// PendingAmount is always total minus paid; the only way to short-circuit
// that formula is the explicit mark-paid transition.
type KhatabookEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CustomerID    uint      `json:"customer_id"`
	Customer      User      `gorm:"foreignKey:CustomerID" json:"customer"`
	OrderID       uint      `json:"order_id"`
	Order         Order     `gorm:"foreignKey:OrderID" json:"order"`
	TotalAmount   float64   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaidAmount    float64   `gorm:"type:decimal(10,2);default:0.00" json:"paid_amount"`
	PendingAmount float64   `gorm:"type:decimal(10,2);not null" json:"pending_amount"`
	DueDate       time.Time `json:"due_date"`
	Status        string    `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
