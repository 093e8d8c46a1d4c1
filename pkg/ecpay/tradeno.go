package ecpay

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TradeDateLayout is the MerchantTradeDate format, yyyy/MM/dd HH:mm:ss.
const TradeDateLayout = "2006/01/02 15:04:05"

// MaxTradeNoLength is the longest MerchantTradeNo ECPay accepts.
const MaxTradeNoLength = 20

// GenerateMerchantTradeNo returns 6 random hex characters followed by the
// last 8 digits of the current unix time in milliseconds.
func (c *Client) GenerateMerchantTradeNo() string {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	millis := strconv.FormatInt(c.now().UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return prefix + millis
}

// GenerateMerchantTradeDate returns the current time in Asia/Taipei.
func (c *Client) GenerateMerchantTradeDate() string {
	return c.now().In(c.loc).Format(TradeDateLayout)
}
