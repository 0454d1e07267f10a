package billing

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saivarshithnaidu/car-spare/internal/inventory"
	"github.com/saivarshithnaidu/car-spare/internal/invoice"
	"github.com/saivarshithnaidu/car-spare/internal/khatabook"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/internal/payment"
)

// Payment methods accepted at the counter. Cash and UPI settle as paid on
// the spot; COD and credit leave the payment pending; razorpay goes through
// the two-phase gateway protocol.
const (
	MethodCash     = "cash"
	MethodUPI      = "upi"
	MethodCOD      = "cod"
	MethodCredit   = "credit"
	MethodRazorpay = "razorpay"
)

// Gateway is the slice of the payment adapter the orchestrator needs.
type Gateway interface {
	CreateIntent(amount decimal.Decimal) (*payment.Intent, error)
	VerifySignature(intentID, paymentID, signature string) bool
}

// Input is the complete bill snapshot for one settlement attempt. The
// orchestrator reads nothing from shared state; on the gateway path the
// caller re-sends the same snapshot when completing.
type Input struct {
	CustomerID    *uint
	WalkInName    string
	WalkInPhone   string
	Items         []LineItem
	Discount      decimal.Decimal
	PaymentMethod string
}

// GatewayConfirmation carries the callback result that correlates a
// completion with the intent created in the first phase.
type GatewayConfirmation struct {
	IntentID  string
	PaymentID string
	Signature string
}

// Result reports a settled order back to the caller.
type Result struct {
	OrderID       uint
	PaymentStatus string
	InvoiceURL    string
	Totals        Totals
}

// Settler drives a bill from draft to settled order: validation, optional
// gateway confirmation, then the fixed persistence sequence of order, line
// items, stock, credit ledger and invoice.
type Settler struct {
	db      *gorm.DB
	ledger  *inventory.Ledger
	credit  *khatabook.Service
	gateway Gateway
	store   invoice.Store
	render  func(invoice.Data) ([]byte, error)
	taxRate decimal.Decimal
	company string
}

func NewSettler(db *gorm.DB, ledger *inventory.Ledger, credit *khatabook.Service, gateway Gateway, store invoice.Store, taxRate decimal.Decimal, company string) *Settler {
	return &Settler{
		db:      db,
		ledger:  ledger,
		credit:  credit,
		gateway: gateway,
		store:   store,
		render:  invoice.Render,
		taxRate: taxRate,
		company: company,
	}
}

func (s *Settler) validate(in Input) error {
	if len(in.Items) == 0 {
		return ErrEmptyCart
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	switch in.PaymentMethod {
	case "":
		return ErrMissingPaymentMethod
	case MethodCash, MethodUPI, MethodCOD, MethodCredit, MethodRazorpay:
	default:
		return ErrUnknownPaymentMethod
	}
	if in.PaymentMethod == MethodCredit && in.CustomerID == nil {
		return ErrCreditRequiresCustomer
	}
	if in.CustomerID == nil && in.WalkInName == "" {
		return ErrMissingWalkInName
	}
	return nil
}

// CreateIntent opens the gateway phase. The intent row it persists is the
// only state that survives until the payment callback; a draft that fails
// verification later must come back through here for a fresh intent.
func (s *Settler) CreateIntent(amount decimal.Decimal) (*payment.Intent, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	intent, err := s.gateway.CreateIntent(amount)
	if err != nil {
		return nil, err
	}

	rec := models.PaymentIntent{
		IntentID:    intent.ID,
		AmountMinor: intent.AmountMinor,
		Currency:    intent.Currency,
		Receipt:     intent.Receipt,
		Status:      models.IntentCreated,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, &PersistenceError{Step: "payment_intent", Err: err}
	}
	return intent, nil
}

// VerifyPayment checks a callback against its intent and records the
// outcome. A mismatch permanently rejects the pair; an intent that already
// settled an order cannot be verified again.
func (s *Settler) VerifyPayment(conf GatewayConfirmation) error {
	var rec models.PaymentIntent
	if err := s.db.Where("intent_id = ?", conf.IntentID).First(&rec).Error; err != nil {
		return ErrUnknownIntent
	}
	if rec.Status == models.IntentRejected {
		return ErrIntentRejected
	}
	if rec.Status == models.IntentConsumed {
		return ErrIntentConsumed
	}
	if !s.gateway.VerifySignature(conf.IntentID, conf.PaymentID, conf.Signature) {
		s.db.Model(&rec).Updates(map[string]interface{}{
			"status":     models.IntentRejected,
			"payment_id": conf.PaymentID,
		})
		return payment.ErrInvalidSignature
	}
	return s.db.Model(&rec).Updates(map[string]interface{}{
		"status":     models.IntentVerified,
		"payment_id": conf.PaymentID,
	}).Error
}

// Settle commits an immediate-path bill (cash, upi, cod, credit) in one
// request. Razorpay bills must come through Complete with a confirmation.
func (s *Settler) Settle(in Input) (*Result, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if in.PaymentMethod == MethodRazorpay {
		return nil, ErrConfirmationRequired
	}

	status := models.PaymentPending
	if in.PaymentMethod == MethodCash || in.PaymentMethod == MethodUPI {
		status = models.PaymentPaid
	}
	return s.commit(in, status, nil)
}

// Complete finishes a gateway settlement once the payment widget reports
// back. Verification must pass before anything is persisted; a rejected
// intent/payment pair stays dead and the caller has to start over with a
// new intent. Each intent settles at most one order: the conditional
// update below claims it, so a replayed confirmation loses the race
// against its own first delivery.
func (s *Settler) Complete(in Input, conf GatewayConfirmation) (*Result, error) {
	if in.PaymentMethod != MethodRazorpay {
		return nil, ErrUnknownPaymentMethod
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if err := s.VerifyPayment(conf); err != nil {
		return nil, err
	}

	var rec models.PaymentIntent
	if err := s.db.Where("intent_id = ?", conf.IntentID).First(&rec).Error; err != nil {
		return nil, ErrUnknownIntent
	}
	totals := Compute(in.Items, in.Discount, s.taxRate)
	if rec.AmountMinor != payment.MinorUnits(totals.GrandTotal) {
		return nil, ErrAmountMismatch
	}

	claim := s.db.Model(&models.PaymentIntent{}).
		Where("intent_id = ? AND status = ?", conf.IntentID, models.IntentVerified).
		Update("status", models.IntentConsumed)
	if claim.Error != nil {
		return nil, &PersistenceError{Step: "payment_intent", Err: claim.Error}
	}
	if claim.RowsAffected == 0 {
		return nil, ErrIntentConsumed
	}
	return s.commit(in, models.PaymentPaid, &conf)
}

// commit is the Committing phase: order, line items, stock decrements,
// khatabook entry and invoice, in that fixed order. Stock and khatabook
// failures are logged and do not unwind the order; an invoice failure
// leaves a settled order without a document, regenerated later through the
// orders API.
func (s *Settler) commit(in Input, payStatus string, conf *GatewayConfirmation) (*Result, error) {
	totals := Compute(in.Items, in.Discount, s.taxRate)

	order := models.Order{
		UserID:         in.CustomerID,
		WalkInName:     in.WalkInName,
		WalkInPhone:    in.WalkInPhone,
		TotalAmount:    totals.GrandTotal.InexactFloat64(),
		DiscountAmount: totals.Discount.InexactFloat64(),
		GSTAmount:      totals.Tax.InexactFloat64(),
		PaymentStatus:  payStatus,
		OrderStatus:    models.OrderConfirmed,
		PaymentMethod:  in.PaymentMethod,
	}
	if conf != nil {
		order.RazorpayOrderID = conf.IntentID
		order.RazorpayPaymentID = conf.PaymentID
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, &PersistenceError{Step: "order", Err: err}
	}

	for _, it := range in.Items {
		item := models.OrderItem{
			OrderID:     order.ID,
			SparePartID: it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.InexactFloat64(),
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, &PersistenceError{Step: "order_items", OrderID: order.ID, Err: err}
		}
	}

	// Best effort from here down: the sale stands even when a stock row
	// cannot keep up. Short stock is reconciled manually.
	for _, it := range in.Items {
		if err := s.ledger.Decrement(it.ProductID, it.Quantity); err != nil {
			log.Printf("settlement: stock decrement failed for part %d on order %d: %v", it.ProductID, order.ID, err)
		}
	}

	if in.PaymentMethod == MethodCredit && in.CustomerID != nil {
		if _, err := s.credit.Open(*in.CustomerID, order.ID, totals.GrandTotal.InexactFloat64()); err != nil {
			log.Printf("settlement: khatabook entry failed for order %d: %v", order.ID, err)
		}
	}

	res := &Result{OrderID: order.ID, PaymentStatus: payStatus, Totals: totals}
	url, err := s.attachInvoice(&order)
	if err != nil {
		return res, &InvoiceError{OrderID: order.ID, Err: err}
	}
	res.InvoiceURL = url
	return res, nil
}

// RegenerateInvoice rebuilds the document for an already-settled order
// from its persisted rows. Used when the original generation failed or the
// document was lost.
func (s *Settler) RegenerateInvoice(orderID uint) (string, error) {
	var order models.Order
	if err := s.db.Preload("Items.SparePart").Preload("User").First(&order, orderID).Error; err != nil {
		return "", err
	}
	return s.attachInvoice(&order)
}

func (s *Settler) attachInvoice(order *models.Order) (string, error) {
	if len(order.Items) == 0 {
		if err := s.db.Preload("SparePart").Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
			return "", err
		}
	}

	name := order.WalkInName
	email, phone := "", order.WalkInPhone
	if order.UserID != nil {
		var u models.User
		if order.User != nil {
			u = *order.User
		} else if err := s.db.First(&u, *order.UserID).Error; err != nil {
			u = models.User{}
		}
		if u.ID != 0 {
			name, email, phone = u.FullName, u.Email, u.Phone
		}
	}

	items := make([]invoice.Item, 0, len(order.Items))
	subtotal := 0.0
	for _, it := range order.Items {
		total := it.UnitPrice * float64(it.Quantity)
		subtotal += total
		items = append(items, invoice.Item{
			Name:      it.SparePart.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Total:     total,
		})
	}

	number := invoice.Number(order.ID, time.Now())
	data := invoice.Data{
		InvoiceNumber: number,
		OrderID:       order.ID,
		Date:          order.CreatedAt,
		CompanyName:   s.company,
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      order.DiscountAmount,
		Tax:           order.GSTAmount,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
	}

	pdf, err := s.render(data)
	if err != nil {
		return "", err
	}
	url, err := s.store.Save(number, pdf)
	if err != nil {
		return "", err
	}
	if err := s.db.Model(order).Update("invoice_url", url).Error; err != nil {
		return "", err
	}
	return url, nil
}
