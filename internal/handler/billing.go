package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/saivarshithnaidu/car-spare/internal/billing"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/internal/payment"
	"github.com/saivarshithnaidu/car-spare/pkg/database"
)

type BillingHandler struct {
	Settler *billing.Settler
}

type lineItemRequest struct {
	SparePartID uint    `json:"spare_part_id" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
}

type settlementRequest struct {
	CustomerID    *uint             `json:"customer_id"`
	WalkInName    string            `json:"walk_in_name"`
	WalkInPhone   string            `json:"walk_in_phone"`
	Items         []lineItemRequest `json:"items"`
	Discount      float64           `json:"discount"`
	PaymentMethod string            `json:"payment_method" binding:"required"`

	// Gateway confirmation, only for payment_method "razorpay".
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (r settlementRequest) toInput() billing.Input {
	items := make([]billing.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, billing.LineItem{
			ProductID: it.SparePartID,
			UnitPrice: decimal.NewFromFloat(it.UnitPrice),
			Quantity:  it.Quantity,
		})
	}
	return billing.Input{
		CustomerID:    r.CustomerID,
		WalkInName:    r.WalkInName,
		WalkInPhone:   r.WalkInPhone,
		Items:         items,
		Discount:      decimal.NewFromFloat(r.Discount),
		PaymentMethod: r.PaymentMethod,
	}
}

// CreateSettlement commits a bill. Immediate methods settle in this one
// request; razorpay bills must carry the confirmation from the payment
// widget, correlated by the intent created earlier.
func (h *BillingHandler) CreateSettlement(c *gin.Context) {
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := req.toInput()
	var res *billing.Result
	var err error
	if req.PaymentMethod == billing.MethodRazorpay {
		res, err = h.Settler.Complete(in, billing.GatewayConfirmation{
			IntentID:  req.RazorpayOrderID,
			PaymentID: req.RazorpayPaymentID,
			Signature: req.RazorpaySignature,
		})
	} else {
		res, err = h.Settler.Settle(in)
	}
	if err != nil {
		h.renderSettlementError(c, res, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":       res.OrderID,
		"payment_status": res.PaymentStatus,
		"invoice_url":    res.InvoiceURL,
	})
}

func (h *BillingHandler) renderSettlementError(c *gin.Context, res *billing.Result, err error) {
	var perr *billing.PersistenceError
	var ierr *billing.InvoiceError

	switch {
	case errors.Is(err, billing.ErrEmptyCart),
		errors.Is(err, billing.ErrInvalidQuantity),
		errors.Is(err, billing.ErrMissingPaymentMethod),
		errors.Is(err, billing.ErrUnknownPaymentMethod),
		errors.Is(err, billing.ErrCreditRequiresCustomer),
		errors.Is(err, billing.ErrMissingWalkInName),
		errors.Is(err, billing.ErrConfirmationRequired),
		errors.Is(err, billing.ErrUnknownIntent),
		errors.Is(err, billing.ErrAmountMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, billing.ErrIntentRejected),
		errors.Is(err, billing.ErrIntentConsumed):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})

	case errors.Is(err, payment.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	case errors.As(err, &ierr):
		// The order is committed; only the document is missing. Report
		// success with a warning so the operator can retry the invoice
		// from the order page.
		c.JSON(http.StatusCreated, gin.H{
			"order_id":       ierr.OrderID,
			"payment_status": res.PaymentStatus,
			"invoice_url":    "",
			"warning":        "invoice generation failed; regenerate it from the order",
		})

	case errors.As(err, &perr):
		body := gin.H{"error": "settlement failed; manual reconciliation may be needed"}
		if perr.OrderID != 0 {
			body["order_id"] = perr.OrderID
		}
		c.JSON(http.StatusInternalServerError, body)

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
	}
}

// CreatePaymentIntent opens the gateway phase of an online settlement.
func (h *BillingHandler) CreatePaymentIntent(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.Settler.CreateIntent(decimal.NewFromFloat(req.Amount))
	if err != nil {
		if errors.Is(err, payment.ErrGatewayUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment intent"})
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// VerifyPayment checks a gateway callback without committing anything.
// Invalid signatures get a client error, distinct from server faults.
func (h *BillingHandler) VerifyPayment(c *gin.Context) {
	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Settler.VerifyPayment(billing.GatewayConfirmation{
		IntentID:  req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"valid": true})
	case errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, billing.ErrIntentRejected),
		errors.Is(err, billing.ErrIntentConsumed):
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
	case errors.Is(err, billing.ErrUnknownIntent):
		c.JSON(http.StatusNotFound, gin.H{"valid": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
	}
}

// SearchCustomers backs the customer picker on the billing screen.
func (h *BillingHandler) SearchCustomers(c *gin.Context) {
	query := c.Query("q")
	customers := []models.User{}

	db := database.DB.
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", "customer")
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("full_name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if err := db.Limit(20).Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}
