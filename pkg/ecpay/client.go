// Package ecpay prepares ECPay AIO checkout forms and verifies the
// server-to-server payment notifications ECPay sends back. It never calls
// ECPay itself: the browser posts the form.
package ecpay

import (
	"log/slog"
	"time"

	"github.com/lensastro/astroapi/pkg/config"
)

const (
	ProductionURL = "https://payment.ecpay.com.tw/Cashier/AioCheckOut/V5"
	SandboxURL    = "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5"
)

// Client builds forms for one merchant.
type Client struct {
	merchantID string
	hashKey    string
	hashIV     string
	apiURL     string
	logger     *slog.Logger
	loc        *time.Location
	now        func() time.Time
}

// New creates a Client. An explicit ApiUrl wins over the Sandbox switch.
func New(cfg *config.ECPay, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	apiURL := cfg.ApiUrl
	if apiURL == "" {
		apiURL = ProductionURL
		if cfg.Sandbox {
			apiURL = SandboxURL
		}
	}
	if cfg.MerchantID == "" || cfg.HashKey == "" || cfg.HashIV == "" {
		logger.Warn("ECPay credentials are not fully configured", "api_url", apiURL)
	}
	return &Client{
		merchantID: cfg.MerchantID,
		hashKey:    cfg.HashKey,
		hashIV:     cfg.HashIV,
		apiURL:     apiURL,
		logger:     logger,
		loc:        taipei(),
		now:        time.Now,
	}
}

// APIURL is the checkout endpoint forms are posted to.
func (c *Client) APIURL() string {
	return c.apiURL
}

// MerchantID returns the configured merchant.
func (c *Client) MerchantID() string {
	return c.merchantID
}

// taipei is the merchant timezone ECPay expects MerchantTradeDate in.
func taipei() *time.Location {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}
