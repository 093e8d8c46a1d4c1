package ecpay

import (
	"crypto/md5" //nolint:gosec
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const (
	EncryptTypeMD5    = "0"
	EncryptTypeSHA256 = "1"

	FieldCheckMacValue = "CheckMacValue"
)

// dotNetUnescape turns url.QueryEscape output into what .NET's
// HttpUtility.UrlEncode produces after lowercasing, which is what ECPay hashes.
var dotNetUnescape = strings.NewReplacer(
	"%21", "!",
	"%2a", "*",
	"%28", "(",
	"%29", ")",
	"~", "%7e",
)

// CheckMacValue computes the checksum of fields. CheckMacValue itself is
// skipped if present. The digest follows the EncryptType field and defaults
// to SHA256.
func (c *Client) CheckMacValue(fields map[string]string) string {
	encryptType := fields["EncryptType"]
	if encryptType == "" {
		encryptType = EncryptTypeSHA256
	}
	return c.checkMac(fields, encryptType)
}

// VerifyCallback reports whether a notification's CheckMacValue matches the
// other fields. Notifications are always hashed with SHA256.
func (c *Client) VerifyCallback(fields map[string]string) bool {
	if c.hashKey == "" || c.hashIV == "" {
		c.logger.Warn("Rejecting callback: ECPay hash key or IV not configured")
		return false
	}
	got := strings.ToUpper(fields[FieldCheckMacValue])
	if got == "" {
		return false
	}
	want := c.checkMac(fields, EncryptTypeSHA256)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func (c *Client) checkMac(fields map[string]string, encryptType string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == FieldCheckMacValue {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	b.WriteString("HashKey=")
	b.WriteString(c.hashKey)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	b.WriteString("&HashIV=")
	b.WriteString(c.hashIV)

	encoded := dotNetUnescape.Replace(strings.ToLower(url.QueryEscape(b.String())))

	if encryptType == EncryptTypeMD5 {
		sum := md5.Sum([]byte(encoded)) //nolint:gosec
		return strings.ToUpper(hex.EncodeToString(sum[:]))
	}
	sum := sha256.Sum256([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
