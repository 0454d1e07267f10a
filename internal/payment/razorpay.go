package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrGatewayUnavailable covers network failures and non-2xx answers
	// from the gateway. Nothing has been persisted when it is returned.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidSignature means the callback signature did not match the
	// HMAC of the intent/payment pair. Never accepted silently.
	ErrInvalidSignature = errors.New("invalid payment signature")
)

// Intent is a pending payment handle issued by the gateway. The amount is
// in minor units (paise); the conversion happens once, at this boundary.
type Intent struct {
	ID          string `json:"intent_id"`
	AmountMinor int64  `json:"amount_minor_units"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

// Client talks to the Razorpay orders API. It is the only component that
// holds the key secret.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func NewClient(keyID, keySecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// MinorUnits converts a rupee amount to integer paise, rounding to the
// nearest paisa. Keeps floating point out of the wire format.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateIntent registers a pending payment with the gateway. amount is in
// rupees.
func (c *Client) CreateIntent(amount decimal.Decimal) (*Intent, error) {
	receipt := "pos_" + uuid.NewString()

	body, err := json.Marshal(createOrderRequest{
		Amount:   MinorUnits(amount),
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return &Intent{ID: out.ID, AmountMinor: out.Amount, Currency: out.Currency, Receipt: receipt}, nil
}

// VerifySignature checks that sig is the hex HMAC-SHA256 of
// "<intentID>|<paymentID>" under the key secret. The comparison is
// constant-time; any mismatch, including empty or truncated input, is
// rejected.
func (c *Client) VerifySignature(intentID, paymentID, sig string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
