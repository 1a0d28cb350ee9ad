// Package payment wraps the third-party unified-order API. The gateway
// speaks JSON over HTTPS; amounts on the wire are integer minor units (fen).
package payment

import (
	"context"
	"crypto/md5"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds gateway credentials.
type Config struct {
	BaseURL    string
	MerchantID string
	APIKey     string
	NotifyURL  string
}

// UnifiedOrderRequest is a prepay request for one order.
type UnifiedOrderRequest struct {
	OutTradeNo  string // human-readable order number
	Description string
	AmountFen   int64  // total in minor units
	OpenID      string // payer's platform identity
}

// PrepayParams are the opaque parameters the client hands to the wallet SDK.
type PrepayParams struct {
	PrepayID  string `json:"prepay_id"`
	NonceStr  string `json:"nonce_str"`
	Timestamp string `json:"timestamp"`
	Package   string `json:"package"`
	SignType  string `json:"sign_type"`
	PaySign   string `json:"pay_sign"`
}

// unifiedOrderResponse is the gateway's wire response.
type unifiedOrderResponse struct {
	ErrCode  int    `json:"errcode"`
	ErrMsg   string `json:"errmsg"`
	PrepayID string `json:"prepay_id"`
	NonceStr string `json:"nonce_str"`
}

// Client calls the unified-order endpoint.
type Client struct {
	http *resty.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &Client{http: http, cfg: cfg}
}

// UnifiedOrder creates a prepay transaction at the gateway and returns the
// parameters for the wallet SDK to complete payment.
func (c *Client) UnifiedOrder(ctx context.Context, req UnifiedOrderRequest) (*PrepayParams, error) {
	if req.OutTradeNo == "" {
		return nil, fmt.Errorf("out_trade_no is required")
	}
	if req.AmountFen <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", req.AmountFen)
	}

	var out unifiedOrderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"mch_id":       c.cfg.MerchantID,
			"out_trade_no": req.OutTradeNo,
			"description":  req.Description,
			"total_fee":    req.AmountFen,
			"openid":       req.OpenID,
			"notify_url":   c.cfg.NotifyURL,
		}).
		SetResult(&out).
		Post("/pay/unifiedorder")
	if err != nil {
		return nil, fmt.Errorf("unified order request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unified order: gateway returned %s", resp.Status())
	}
	if out.ErrCode != 0 {
		return nil, fmt.Errorf("unified order: gateway error %d: %s", out.ErrCode, out.ErrMsg)
	}

	params := &PrepayParams{
		PrepayID:  out.PrepayID,
		NonceStr:  out.NonceStr,
		Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		Package:   "prepay_id=" + out.PrepayID,
		SignType:  "MD5",
	}
	params.PaySign = sign(map[string]string{
		"prepay_id": params.PrepayID,
		"nonce_str": params.NonceStr,
		"timestamp": params.Timestamp,
		"package":   params.Package,
		"sign_type": params.SignType,
	}, c.cfg.APIKey)
	return params, nil
}

// ToMinorUnits converts a yuan amount to fen, rounding to the nearest unit.
func ToMinorUnits(yuan float64) int64 {
	return int64(math.Round(yuan * 100))
}

// sign computes the gateway's signature: MD5 over the key-sorted query string
// with the API key appended, uppercased.
func sign(fields map[string]string, apiKey string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if fields[k] == "" {
			continue
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
		b.WriteByte('&')
	}
	b.WriteString("key=")
	b.WriteString(apiKey)

	return strings.ToUpper(fmt.Sprintf("%x", md5.Sum([]byte(b.String()))))
}
