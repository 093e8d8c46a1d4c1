package ecpay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var (
	// ErrMissingParams is returned when a field ECPay requires is empty.
	ErrMissingParams = errors.New("missing required ECPay parameters")
	// ErrInvalidOrderDescription is returned when a loosely typed order
	// description carries a value of the wrong type.
	ErrInvalidOrderDescription = errors.New("invalid order description")
)

// OrderDescription is the input to BuildForm. Field names follow the ECPay
// AIO API so that JSON bodies can be forwarded unchanged.
type OrderDescription struct {
	MerchantTradeNo   string `json:"MerchantTradeNo,omitempty"`
	MerchantTradeDate string `json:"MerchantTradeDate,omitempty"`
	TotalAmount       int64  `json:"TotalAmount"`
	TradeDesc         string `json:"TradeDesc,omitempty"`
	ItemName          string `json:"ItemName"`
	ReturnURL         string `json:"ReturnURL"`
	ChoosePayment     string `json:"ChoosePayment,omitempty"`
	EncryptType       string `json:"EncryptType,omitempty"`

	ClientBackURL     string `json:"ClientBackURL,omitempty"`
	OrderResultURL    string `json:"OrderResultURL,omitempty"`
	StoreID           string `json:"StoreID,omitempty"`
	ItemURL           string `json:"ItemURL,omitempty"`
	Remark            string `json:"Remark,omitempty"`
	ChooseSubPayment  string `json:"ChooseSubPayment,omitempty"`
	NeedExtraPaidInfo string `json:"NeedExtraPaidInfo,omitempty"`
	IgnorePayment     string `json:"IgnorePayment,omitempty"`
	PlatformID        string `json:"PlatformID,omitempty"`
	CustomField1      string `json:"CustomField1,omitempty"`
	CustomField2      string `json:"CustomField2,omitempty"`
	CustomField3      string `json:"CustomField3,omitempty"`
	CustomField4      string `json:"CustomField4,omitempty"`
	Language          string `json:"Language,omitempty"`
}

// DecodeOrderDescription reads an order description from a decoded JSON
// object. Numbers and strings are accepted interchangeably; unknown keys are
// ignored.
func DecodeOrderDescription(raw map[string]any) (OrderDescription, error) {
	var desc OrderDescription
	var err error

	if v, ok := raw["TotalAmount"]; ok && v != nil {
		desc.TotalAmount, err = decodeAmount(v)
		if err != nil {
			return desc, fmt.Errorf("%w: TotalAmount: %v", ErrInvalidOrderDescription, err)
		}
	}

	targets := map[string]*string{
		"MerchantTradeNo":   &desc.MerchantTradeNo,
		"MerchantTradeDate": &desc.MerchantTradeDate,
		"TradeDesc":         &desc.TradeDesc,
		"ItemName":          &desc.ItemName,
		"ReturnURL":         &desc.ReturnURL,
		"ChoosePayment":     &desc.ChoosePayment,
		"EncryptType":       &desc.EncryptType,
		"ClientBackURL":     &desc.ClientBackURL,
		"OrderResultURL":    &desc.OrderResultURL,
		"StoreID":           &desc.StoreID,
		"ItemURL":           &desc.ItemURL,
		"Remark":            &desc.Remark,
		"ChooseSubPayment":  &desc.ChooseSubPayment,
		"NeedExtraPaidInfo": &desc.NeedExtraPaidInfo,
		"IgnorePayment":     &desc.IgnorePayment,
		"PlatformID":        &desc.PlatformID,
		"CustomField1":      &desc.CustomField1,
		"CustomField2":      &desc.CustomField2,
		"CustomField3":      &desc.CustomField3,
		"CustomField4":      &desc.CustomField4,
		"Language":          &desc.Language,
	}
	for key, target := range targets {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		*target, err = cast.ToStringE(v)
		if err != nil {
			return desc, fmt.Errorf("%w: %s: %v", ErrInvalidOrderDescription, key, err)
		}
	}
	return desc, nil
}

// decodeAmount accepts a whole, non-negative amount given as a number or a
// string. Fractions are rejected rather than truncated.
func decodeAmount(v any) (int64, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if !amount.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole amount", amount)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%s is negative", amount)
	}
	return amount.IntPart(), nil
}
