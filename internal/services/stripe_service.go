package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeService talks to the Stripe payment intents API over HTTP.
type StripeService struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewStripeService constructs a StripeService. baseURL is configurable so
// tests and sandboxes can point at a different host.
func NewStripeService(secretKey, baseURL string) *StripeService {
	return &StripeService{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// PaymentIntent is the subset of the processor response the client needs.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// MinorUnits converts a major-unit decimal amount to integer minor units.
// Callers always pass major-unit amounts; rounding here is the contract.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreatePaymentIntent creates a payment intent for the given major-unit
// amount, tagged with the order ID in metadata.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount float64, currency, orderID string) (*PaymentIntent, error) {
	if s.secretKey == "" {
		return nil, errors.New("stripe secret key is not configured")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(MinorUnits(amount), 10))
	form.Set("currency", currency)
	form.Set("metadata[order_id]", orderID)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, stripeErrorMessage(body))
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("stripe response unmarshal: %w", err)
	}

	if intent.ID == "" || intent.ClientSecret == "" {
		return nil, errors.New("stripe response missing intent id or client secret")
	}

	return &intent, nil
}

func stripeErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}
