// Package passport resolves the platform-issued login code to the caller's
// stable open id. The hosting platform hands the mini-program a short-lived
// code; this client exchanges it server-side.
package passport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds platform app credentials.
type Config struct {
	BaseURL   string
	AppID     string
	AppSecret string
}

type sessionResponse struct {
	OpenID  string `json:"openid"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Client exchanges auth codes for open ids.
type Client struct {
	http *resty.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(5 * time.Second)
	return &Client{http: http, cfg: cfg}
}

// CodeToSession exchanges a login code for the caller's open id.
func (c *Client) CodeToSession(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("code is required")
	}

	var out sessionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appid":      c.cfg.AppID,
			"secret":     c.cfg.AppSecret,
			"js_code":    code,
			"grant_type": "authorization_code",
		}).
		SetResult(&out).
		Get("/sns/jscode2session")
	if err != nil {
		return "", fmt.Errorf("code to session request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("code to session: platform returned %s", resp.Status())
	}
	if out.ErrCode != 0 {
		return "", fmt.Errorf("code to session: platform error %d: %s", out.ErrCode, out.ErrMsg)
	}
	if out.OpenID == "" {
		return "", fmt.Errorf("code to session: empty openid")
	}
	return out.OpenID, nil
}
