package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		yuan float64
		want int64
	}{
		{0, 0},
		{1, 100},
		{19.9, 1990},
		{0.01, 1},
		{128.555, 12856},
		{299.99, 29999},
	}
	for _, tc := range cases {
		if got := ToMinorUnits(tc.yuan); got != tc.want {
			t.Errorf("ToMinorUnits(%v) = %d, want %d", tc.yuan, got, tc.want)
		}
	}
}

func TestSign_Deterministic(t *testing.T) {
	fields := map[string]string{"b": "2", "a": "1", "empty": ""}
	s1 := sign(fields, "key123")
	s2 := sign(map[string]string{"a": "1", "b": "2"}, "key123")
	if s1 != s2 {
		t.Errorf("sign not deterministic over key order: %s vs %s", s1, s2)
	}
	if s1 != sign(fields, "key123") {
		t.Error("sign not stable")
	}
	if s1 == sign(fields, "other-key") {
		t.Error("sign ignores api key")
	}
}

func TestUnifiedOrder_Success(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pay/unifiedorder" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"errcode":   0,
			"prepay_id": "pp-001",
			"nonce_str": "nonce",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, MerchantID: "m1", APIKey: "k", NotifyURL: "https://cb"})
	params, err := client.UnifiedOrder(context.Background(), UnifiedOrderRequest{
		OutTradeNo:  "ES20250101120000001",
		Description: "escort booking",
		AmountFen:   1990,
		OpenID:      "open-1",
	})
	if err != nil {
		t.Fatalf("UnifiedOrder() error: %v", err)
	}
	if params.PrepayID != "pp-001" {
		t.Errorf("PrepayID = %q", params.PrepayID)
	}
	if params.Package != "prepay_id=pp-001" {
		t.Errorf("Package = %q", params.Package)
	}
	if params.PaySign == "" {
		t.Error("expected a signature")
	}
	if gotBody["total_fee"].(float64) != 1990 {
		t.Errorf("total_fee = %v, want 1990", gotBody["total_fee"])
	}
}

func TestUnifiedOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"errcode": 2001,
			"errmsg":  "insufficient merchant balance",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.UnifiedOrder(context.Background(), UnifiedOrderRequest{
		OutTradeNo: "ES1", AmountFen: 100,
	})
	if err == nil {
		t.Fatal("expected gateway error")
	}
}

func TestUnifiedOrder_RejectsZeroAmount(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused"})
	_, err := client.UnifiedOrder(context.Background(), UnifiedOrderRequest{OutTradeNo: "ES1"})
	if err == nil {
		t.Fatal("expected error for zero amount")
	}
}
