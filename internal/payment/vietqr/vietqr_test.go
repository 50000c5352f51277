package vietqr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediastore-next/internal/payment"
)

func testConfig(gatewayURL string) map[string]interface{} {
	return map[string]interface{}{
		"gateway_url": gatewayURL,
		"auth_token":  "secret-token",
		"bank_code":   "VCB",
		"account_no":  "0123456789",
	}
}

func TestParseConfigValidation(t *testing.T) {
	if _, err := ParseConfig(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("nil config want ErrConfigInvalid got %v", err)
	}

	cfg, err := ParseConfig(map[string]interface{}{
		"gateway_url": "https://qr.example.com/",
		"auth_token":  " secret ",
		"bank_code":   "VCB",
		"account_no":  "0123456789",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.GatewayURL != "https://qr.example.com" {
		t.Fatalf("gateway url should be trimmed, got %s", cfg.GatewayURL)
	}
	if cfg.AuthToken != "secret" {
		t.Fatalf("auth token should be trimmed, got %q", cfg.AuthToken)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	cfg.BankCode = ""
	if err := ValidateConfig(cfg); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing bank_code want ErrConfigInvalid got %v", err)
	}
}

func TestSignDeterministic(t *testing.T) {
	params := map[string]interface{}{
		"order_id": "7",
		"amount":   "37.98",
		"empty":    "",
	}
	first := Sign(params, "token")
	second := Sign(map[string]interface{}{
		"amount":   "37.98",
		"order_id": "7",
	}, "token")
	if first != second {
		t.Fatalf("sign should ignore key order and empty values: %s != %s", first, second)
	}
	if Sign(params, "other") == first {
		t.Fatalf("different tokens should produce different signatures")
	}
}

func TestInitiateReturnsQRCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/transactions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		if body["signature"] == "" {
			t.Fatalf("request should carry signature")
		}
		if body["order_id"] != "7" {
			t.Fatalf("order_id want 7 got %v", body["order_id"])
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status_code": 200,
			"data": map[string]interface{}{
				"trade_id": "TRADE-1",
				"order_id": "7",
				"amount":   "37.98",
				"qr_code":  "00020101021238...",
			},
		})
	}))
	defer server.Close()

	p, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	if p.Kind() != payment.KindQR {
		t.Fatalf("kind want qr got %s", p.Kind())
	}

	result, err := p.Initiate(context.Background(), payment.CreateInput{
		OrderID:  "7",
		Amount:   "37.98",
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if result.Reference != "TRADE-1" || result.QRCode == "" {
		t.Fatalf("result mismatch: %+v", result)
	}
}

func TestInitiateGatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status_code": 400,
			"message":     "amount invalid",
		})
	}))
	defer server.Close()

	p, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	_, err = p.Initiate(context.Background(), payment.CreateInput{OrderID: "7", Amount: "x"})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("gateway rejection want ErrResponseInvalid got %v", err)
	}
}

func TestCheckStatusMapping(t *testing.T) {
	status := StatusWaiting
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("signature") == "" {
			t.Fatalf("status query should carry signature")
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status_code": 200,
			"data": map[string]interface{}{
				"trade_id": "TRADE-1",
				"status":   status,
			},
		})
	}))
	defer server.Close()

	p, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}

	result, err := p.CheckStatus(context.Background(), "TRADE-1")
	if err != nil {
		t.Fatalf("check status failed: %v", err)
	}
	if result.Status != payment.StatusPending {
		t.Fatalf("waiting want pending got %s", result.Status)
	}

	status = StatusSuccess
	result, err = p.CheckStatus(context.Background(), "TRADE-1")
	if err != nil {
		t.Fatalf("check status failed: %v", err)
	}
	if result.Status != payment.StatusPaid {
		t.Fatalf("success want paid got %s", result.Status)
	}
}

func TestConfirmNotSupported(t *testing.T) {
	p, err := New(testConfig("https://qr.example.com"))
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	if _, err := p.Confirm(context.Background(), "TRADE-1"); !errors.Is(err, payment.ErrNotSupported) {
		t.Fatalf("confirm want ErrNotSupported got %v", err)
	}
}

func TestToPaymentStatus(t *testing.T) {
	cases := map[int]string{
		StatusWaiting: payment.StatusPending,
		StatusSuccess: payment.StatusPaid,
		StatusExpired: payment.StatusExpired,
		StatusFailed:  payment.StatusFailed,
		99:            payment.StatusPending,
	}
	for input, want := range cases {
		if got := ToPaymentStatus(input); got != want {
			t.Fatalf("status %d want %s got %s", input, want, got)
		}
	}
}
