package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
)

// ErrPending is returned by ConfirmSession when the processor has not yet
// reported the session as paid.
var ErrPending = errors.New("payment not completed")

// Gateway is the external payment processor, consumed as an opaque
// capability. No session state is kept locally between the two calls.
type Gateway interface {
	// CreateSession registers a payment for amount (major units) and
	// returns the processor's session id plus the URL the buyer is
	// redirected to.
	CreateSession(amount float64, successURL, cancelURL string) (sessionID, redirectURL string, err error)
	// ConfirmSession succeeds only when the processor reports the
	// session's payment status as paid; ErrPending otherwise.
	ConfirmSession(sessionID string) error
}

type createResponse struct {
	Session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"session"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type checkResponse struct {
	Session struct {
		ID     string `json:"id"`
		Status string `json:"status"` // "created", "pending", "paid", "failed"
	} `json:"session"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// HTTPGateway talks JSON to the processor's session API.
type HTTPGateway struct {
	APIURL  string
	StoreID string
	AuthKey string
	Client  *http.Client
}

// NewFromEnv reads the processor endpoint and credentials from the
// environment, the same way the rest of the config surface works.
func NewFromEnv() (*HTTPGateway, error) {
	g := &HTTPGateway{
		APIURL:  os.Getenv("PAYMENT_API_URL"),
		StoreID: os.Getenv("PAYMENT_STORE_ID"),
		AuthKey: os.Getenv("PAYMENT_AUTH_KEY"),
		Client:  &http.Client{},
	}
	if g.APIURL == "" || g.StoreID == "" || g.AuthKey == "" {
		return nil, fmt.Errorf("payment gateway configuration missing")
	}
	return g, nil
}

// MinorUnits converts a major-unit amount to the processor's integer
// representation (e.g. 12.34 -> 1234).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *HTTPGateway) CreateSession(amount float64, successURL, cancelURL string) (string, string, error) {
	if amount <= 0 {
		return "", "", fmt.Errorf("amount must be positive")
	}

	payload := map[string]interface{}{
		"method":  "create",
		"store":   g.StoreID,
		"authkey": g.AuthKey,
		"session": map[string]interface{}{
			"amount": MinorUnits(amount),
		},
		"return": map[string]string{
			"success": successURL,
			"cancel":  cancelURL,
		},
	}

	var resp createResponse
	if err := g.post(payload, &resp); err != nil {
		return "", "", err
	}
	if resp.Error != nil {
		return "", "", fmt.Errorf("gateway error: %s", resp.Error.Message)
	}
	if resp.Session.ID == "" || resp.Session.URL == "" {
		return "", "", fmt.Errorf("gateway returned incomplete session")
	}
	return resp.Session.ID, resp.Session.URL, nil
}

func (g *HTTPGateway) ConfirmSession(sessionID string) error {
	payload := map[string]interface{}{
		"method":  "check",
		"store":   g.StoreID,
		"authkey": g.AuthKey,
		"session": map[string]interface{}{
			"id": sessionID,
		},
	}

	var resp checkResponse
	if err := g.post(payload, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("gateway error: %s", resp.Error.Message)
	}
	if resp.Session.Status != "paid" {
		return ErrPending
	}
	return nil
}

func (g *HTTPGateway) post(payload interface{}, out interface{}) error {
	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", g.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse gateway response: %v", err)
	}
	return nil
}
