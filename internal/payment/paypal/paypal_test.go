package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediastore-next/internal/payment"
)

func testConfig(baseURL string) map[string]interface{} {
	return map[string]interface{}{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"base_url":      baseURL,
		"return_url":    "https://shop.example.com/paypal/return",
		"cancel_url":    "https://shop.example.com/paypal/cancel",
		"brand_name":    "MediaStore",
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"return_url":    "https://shop.example.com/return",
		"cancel_url":    "https://shop.example.com/cancel",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.BaseURL != defaultSandboxBaseURL {
		t.Fatalf("empty base_url should default to sandbox, got %s", cfg.BaseURL)
	}
	if cfg.UserAction != "PAY_NOW" {
		t.Fatalf("empty user_action should default to PAY_NOW, got %s", cfg.UserAction)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	cfg.ClientSecret = ""
	if err := ValidateConfig(cfg); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing client_secret want ErrConfigInvalid got %v", err)
	}
}

func newOrdersServer(t *testing.T, orderStatus, captureStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "token-1"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode create order failed: %v", err)
		}
		if payload["intent"] != "CAPTURE" {
			t.Fatalf("intent want CAPTURE got %v", payload["intent"])
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PAYPAL-ORDER-1",
			"status": "CREATED",
			"links": []map[string]string{
				{"rel": "self", "href": "https://api.example.com/orders/PAYPAL-ORDER-1"},
				{"rel": "approve", "href": "https://www.example.com/checkoutnow?token=PAYPAL-ORDER-1"},
			},
		})
	})
	mux.HandleFunc("/v2/checkout/orders/PAYPAL-ORDER-1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PAYPAL-ORDER-1",
			"status": orderStatus,
		})
	})
	mux.HandleFunc("/v2/checkout/orders/PAYPAL-ORDER-1/capture", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PAYPAL-ORDER-1",
			"status": "COMPLETED",
			"purchase_units": []map[string]interface{}{
				{
					"payments": map[string]interface{}{
						"captures": []map[string]interface{}{
							{
								"status": captureStatus,
								"amount": map[string]string{"value": "37.98", "currency_code": "USD"},
							},
						},
					},
				},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestInitiateReturnsApprovalURL(t *testing.T) {
	server := newOrdersServer(t, "CREATED", "COMPLETED")
	defer server.Close()

	p, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	if p.Kind() != payment.KindRedirect {
		t.Fatalf("kind want redirect got %s", p.Kind())
	}

	result, err := p.Initiate(context.Background(), payment.CreateInput{
		OrderID:  "7",
		Amount:   "37.98",
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if result.Reference != "PAYPAL-ORDER-1" {
		t.Fatalf("reference want PAYPAL-ORDER-1 got %s", result.Reference)
	}
	if result.PayURL != "https://www.example.com/checkoutnow?token=PAYPAL-ORDER-1" {
		t.Fatalf("approval url mismatch: %s", result.PayURL)
	}
}

func TestConfirmCapturesOrder(t *testing.T) {
	server := newOrdersServer(t, "APPROVED", "COMPLETED")
	defer server.Close()

	p, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}

	result, err := p.Confirm(context.Background(), "PAYPAL-ORDER-1")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if result.Status != payment.StatusPaid {
		t.Fatalf("status want paid got %s", result.Status)
	}
	if result.Amount != "37.98" || result.Currency != "USD" {
		t.Fatalf("capture amount mismatch: %+v", result)
	}
}

func TestCheckStatusPendingBeforeCapture(t *testing.T) {
	server := newOrdersServer(t, "APPROVED", "COMPLETED")
	defer server.Close()

	p, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}

	result, err := p.CheckStatus(context.Background(), "PAYPAL-ORDER-1")
	if err != nil {
		t.Fatalf("check status failed: %v", err)
	}
	if result.Status != payment.StatusPending {
		t.Fatalf("approved order want pending got %s", result.Status)
	}
}

func TestToPaymentStatus(t *testing.T) {
	cases := map[string]string{
		"COMPLETED": payment.StatusPaid,
		"completed": payment.StatusPaid,
		"DENIED":    payment.StatusFailed,
		"VOIDED":    payment.StatusFailed,
		"CREATED":   payment.StatusPending,
		"APPROVED":  payment.StatusPending,
		"":          payment.StatusPending,
	}
	for input, want := range cases {
		if got := ToPaymentStatus(input); got != want {
			t.Fatalf("status %q want %s got %s", input, want, got)
		}
	}
}
