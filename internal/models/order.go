package models

import "time"

// Payment status moves forward only: pending -> paid | failed.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Fulfillment status is operator-controlled and independent of payment.
const (
	OrderBooked     = "booked"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderPacked     = "packed"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// FulfillmentStatuses are the states an operator may move an order into.
var FulfillmentStatuses = []string{
	OrderBooked, OrderConfirmed, OrderProcessing,
	OrderPacked, OrderShipped, OrderDelivered, OrderCancelled,
}

type Order struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	UserID            *uint       `json:"user_id"` // nil for walk-in sales
	User              *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	WalkInName        string      `gorm:"size:100" json:"walk_in_name,omitempty"`
	WalkInPhone       string      `gorm:"size:15" json:"walk_in_phone,omitempty"`
	TotalAmount       float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DiscountAmount    float64     `gorm:"type:decimal(10,2);default:0.00" json:"discount_amount"`
	GSTAmount         float64     `gorm:"type:decimal(10,2);default:0.00" json:"gst_amount"`
	PaymentStatus     string      `gorm:"size:20;default:'pending'" json:"payment_status"`
	OrderStatus       string      `gorm:"size:20;default:'booked'" json:"order_status"`
	PaymentMethod     string      `gorm:"size:20" json:"payment_method"`
	RazorpayOrderID   string      `gorm:"size:64;index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string      `gorm:"size:64" json:"razorpay_payment_id,omitempty"`
	InvoiceURL        string      `gorm:"size:500" json:"invoice_url,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	Items             []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem freezes the unit price at the time of sale; later catalogue
// price changes must not touch it.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `json:"order_id"`
	SparePartID uint      `json:"spare_part_id"`
	SparePart   SparePart `gorm:"foreignKey:SparePartID" json:"spare_part"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}
