package ecpay

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultTradeDesc     = "商品描述"
	PaymentTypeAIO       = "aio"
	DefaultChoosePayment = "ALL"
)

// requiredFields are the parameters ECPay rejects a checkout without.
var requiredFields = []string{
	"MerchantID",
	"MerchantTradeNo",
	"MerchantTradeDate",
	"PaymentType",
	"TotalAmount",
	"TradeDesc",
	"ItemName",
	"ReturnURL",
	"ChoosePayment",
	"EncryptType",
}

// Form is a ready to post checkout form. Fields includes CheckMacValue.
type Form struct {
	APIURL string            `json:"apiUrl"`
	Fields map[string]string `json:"formData"`
}

// BuildForm fills defaults, keeps only the fields ECPay knows, validates the
// required ones and signs the result.
func (c *Client) BuildForm(desc OrderDescription) (*Form, error) {
	fields := c.fields(desc)

	var missing []string
	for _, name := range requiredFields {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		c.logger.Error("ECPay form is missing required parameters", "missing", missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
	}

	fields[FieldCheckMacValue] = c.CheckMacValue(fields)

	c.logger.Info("ECPay form built",
		"merchant_trade_no", fields["MerchantTradeNo"],
		"total_amount", fields["TotalAmount"],
		"fields", fieldNames(fields),
	)
	return &Form{APIURL: c.apiURL, Fields: fields}, nil
}

func (c *Client) fields(desc OrderDescription) map[string]string {
	tradeNo := desc.MerchantTradeNo
	if tradeNo == "" {
		tradeNo = c.GenerateMerchantTradeNo()
	}
	tradeDate := desc.MerchantTradeDate
	if tradeDate == "" {
		tradeDate = c.GenerateMerchantTradeDate()
	}
	tradeDesc := strings.TrimSpace(desc.TradeDesc)
	if tradeDesc == "" {
		tradeDesc = DefaultTradeDesc
	}
	choosePayment := desc.ChoosePayment
	if choosePayment == "" {
		choosePayment = DefaultChoosePayment
	}
	encryptType := desc.EncryptType
	if encryptType == "" {
		encryptType = EncryptTypeSHA256
	}
	totalAmount := ""
	if desc.TotalAmount > 0 {
		totalAmount = strconv.FormatInt(desc.TotalAmount, 10)
	}

	fields := map[string]string{
		"MerchantID":        c.merchantID,
		"MerchantTradeNo":   tradeNo,
		"MerchantTradeDate": tradeDate,
		"PaymentType":       PaymentTypeAIO,
		"TotalAmount":       totalAmount,
		"TradeDesc":         tradeDesc,
		"ItemName":          desc.ItemName,
		"ReturnURL":         desc.ReturnURL,
		"ChoosePayment":     choosePayment,
		"EncryptType":       encryptType,
	}

	optional := map[string]string{
		"ClientBackURL":     desc.ClientBackURL,
		"OrderResultURL":    desc.OrderResultURL,
		"StoreID":           desc.StoreID,
		"ItemURL":           desc.ItemURL,
		"Remark":            desc.Remark,
		"ChooseSubPayment":  desc.ChooseSubPayment,
		"NeedExtraPaidInfo": desc.NeedExtraPaidInfo,
		"IgnorePayment":     desc.IgnorePayment,
		"PlatformID":        desc.PlatformID,
		"CustomField1":      desc.CustomField1,
		"CustomField2":      desc.CustomField2,
		"CustomField3":      desc.CustomField3,
		"CustomField4":      desc.CustomField4,
		"Language":          desc.Language,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

func fieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
