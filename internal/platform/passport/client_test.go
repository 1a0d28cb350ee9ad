package passport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCodeToSession_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("js_code") != "code-123" {
			t.Errorf("js_code = %q", r.URL.Query().Get("js_code"))
		}
		if r.URL.Query().Get("appid") != "app-1" {
			t.Errorf("appid = %q", r.URL.Query().Get("appid"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"openid": "open-abc"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, AppID: "app-1", AppSecret: "s"})
	openID, err := client.CodeToSession(context.Background(), "code-123")
	if err != nil {
		t.Fatalf("CodeToSession() error: %v", err)
	}
	if openID != "open-abc" {
		t.Errorf("openID = %q, want open-abc", openID)
	}
}

func TestCodeToSession_PlatformError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"errcode": 40029, "errmsg": "invalid code"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if _, err := client.CodeToSession(context.Background(), "bad"); err == nil {
		t.Fatal("expected platform error")
	}
}

func TestCodeToSession_EmptyCode(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused"})
	if _, err := client.CodeToSession(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty code")
	}
}
