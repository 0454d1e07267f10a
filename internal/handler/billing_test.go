package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saivarshithnaidu/car-spare/internal/billing"
	"github.com/saivarshithnaidu/car-spare/internal/inventory"
	"github.com/saivarshithnaidu/car-spare/internal/khatabook"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/internal/payment"
)

const handlerTestSecret = "handler_test_secret"

type stubGateway struct{ n int }

func (g *stubGateway) CreateIntent(amount decimal.Decimal) (*payment.Intent, error) {
	g.n++
	return &payment.Intent{
		ID:          fmt.Sprintf("order_h%03d", g.n),
		AmountMinor: payment.MinorUnits(amount),
		Currency:    "INR",
	}, nil
}

func (g *stubGateway) VerifySignature(intentID, paymentID, sig string) bool {
	mac := hmac.New(sha256.New, []byte(handlerTestSecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(sig))
}

func handlerSign(intentID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(handlerTestSecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type failingStore struct{ fail bool }

func (s *failingStore) Save(name string, pdf []byte) (string, error) {
	if s.fail {
		return "", errors.New("blob store unavailable")
	}
	return "https://files.test/invoices/" + name + ".pdf", nil
}

func newBillingRouter(t *testing.T) (*gin.Engine, *gorm.DB, *billing.Settler, *failingStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{},
		&models.SparePart{}, &models.StockEntry{},
		&models.Order{}, &models.OrderItem{},
		&models.KhatabookEntry{}, &models.PaymentIntent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := &failingStore{}
	settler := billing.NewSettler(
		db,
		inventory.NewLedger(db),
		khatabook.NewService(db, 30),
		&stubGateway{},
		store,
		decimal.NewFromFloat(0.18),
		"Car Spare Parts Co.",
	)

	h := &BillingHandler{Settler: settler}
	r := gin.New()
	r.POST("/settlements", h.CreateSettlement)
	r.POST("/payments/verify", h.VerifyPayment)
	return r, db, settler, store
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSettlementCash(t *testing.T) {
	r, db, _, _ := newBillingRouter(t)
	part := models.SparePart{Name: "Brake Pad", UnitPrice: 100, StockQuantity: 10, IsActive: true}
	db.Create(&part)

	w := postJSON(t, r, "/settlements", gin.H{
		"walk_in_name":   "Walk-in",
		"payment_method": "cash",
		"items": []gin.H{
			{"spare_part_id": part.ID, "quantity": 2, "unit_price": 100},
		},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		OrderID       uint   `json:"order_id"`
		PaymentStatus string `json:"payment_status"`
		InvoiceURL    string `json:"invoice_url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderID == 0 {
		t.Error("order_id missing")
	}
	if resp.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment_status = %s, want paid", resp.PaymentStatus)
	}
	if resp.InvoiceURL == "" {
		t.Error("invoice_url missing")
	}
}

func TestCreateSettlementEmptyCart(t *testing.T) {
	r, _, _, _ := newBillingRouter(t)
	w := postJSON(t, r, "/settlements", gin.H{
		"walk_in_name":   "Walk-in",
		"payment_method": "cash",
		"items":          []gin.H{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestCreateSettlementWalkInCredit(t *testing.T) {
	r, db, _, _ := newBillingRouter(t)
	part := models.SparePart{Name: "Air Filter", UnitPrice: 80, StockQuantity: 5, IsActive: true}
	db.Create(&part)

	w := postJSON(t, r, "/settlements", gin.H{
		"walk_in_name":   "Walk-in",
		"payment_method": "credit",
		"items": []gin.H{
			{"spare_part_id": part.ID, "quantity": 1, "unit_price": 80},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}

	var n int64
	db.Model(&models.Order{}).Count(&n)
	if n != 0 {
		t.Errorf("orders created = %d, want 0", n)
	}
}

func TestCreateSettlementBadSignature(t *testing.T) {
	r, db, settler, _ := newBillingRouter(t)
	part := models.SparePart{Name: "Spark Plug", UnitPrice: 120, StockQuantity: 5, IsActive: true}
	db.Create(&part)

	intent, err := settler.CreateIntent(decimal.NewFromFloat(141.60))
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	w := postJSON(t, r, "/settlements", gin.H{
		"walk_in_name":   "Walk-in",
		"payment_method": "razorpay",
		"items": []gin.H{
			{"spare_part_id": part.ID, "quantity": 1, "unit_price": 120},
		},
		"razorpay_order_id":   intent.ID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "forged",
	})
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402; body: %s", w.Code, w.Body.String())
	}
}

func TestCreateSettlementRazorpayVerified(t *testing.T) {
	r, db, settler, _ := newBillingRouter(t)
	part := models.SparePart{Name: "Headlight", UnitPrice: 250, StockQuantity: 3, IsActive: true}
	db.Create(&part)

	intent, err := settler.CreateIntent(decimal.NewFromInt(295))
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	w := postJSON(t, r, "/settlements", gin.H{
		"walk_in_name":   "Walk-in",
		"payment_method": "razorpay",
		"items": []gin.H{
			{"spare_part_id": part.ID, "quantity": 1, "unit_price": 250},
		},
		"razorpay_order_id":   intent.ID,
		"razorpay_payment_id": "pay_2",
		"razorpay_signature":  handlerSign(intent.ID, "pay_2"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
}

func TestCreateSettlementInvoiceFailureStillCreated(t *testing.T) {
	r, db, _, store := newBillingRouter(t)
	part := models.SparePart{Name: "Radiator", UnitPrice: 500, StockQuantity: 2, IsActive: true}
	db.Create(&part)
	store.fail = true

	w := postJSON(t, r, "/settlements", gin.H{
		"walk_in_name":   "Walk-in",
		"payment_method": "upi",
		"items": []gin.H{
			{"spare_part_id": part.ID, "quantity": 1, "unit_price": 500},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		OrderID    uint   `json:"order_id"`
		InvoiceURL string `json:"invoice_url"`
		Warning    string `json:"warning"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderID == 0 {
		t.Error("order_id missing from warning response")
	}
	if resp.InvoiceURL != "" {
		t.Errorf("invoice_url = %q, want empty", resp.InvoiceURL)
	}
	if resp.Warning == "" {
		t.Error("warning missing")
	}
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	r, _, settler, _ := newBillingRouter(t)
	intent, err := settler.CreateIntent(decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	w := postJSON(t, r, "/payments/verify", gin.H{
		"razorpay_order_id":   intent.ID,
		"razorpay_payment_id": "pay_9",
		"razorpay_signature":  handlerSign(intent.ID, "pay_9"),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/payments/verify", gin.H{
		"razorpay_order_id":   "order_unknown",
		"razorpay_payment_id": "pay_9",
		"razorpay_signature":  "x",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}
}
