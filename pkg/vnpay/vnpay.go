// Package vnpay builds and verifies VNPay redirect URLs.
//
// The gateway signs the alphabetically sorted, URL-encoded parameter set with
// HMAC-SHA512. The encoding must match the gateway byte for byte: every value
// is query-escaped and spaces are rendered as '+'.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const (
	Version     = "2.1.0"
	CommandPay  = "pay"
	CurrencyVND = "VND"
	LocaleVN    = "vn"

	// ResponseCodeSuccess is the gateway's "transaction approved" code.
	ResponseCodeSuccess = "00"
)

type Config struct {
	TmnCode    string
	HashSecret string
	PaymentURL string
	ReturnURL  string
}

func (c Config) Validate() error {
	if c.TmnCode == "" || c.HashSecret == "" || c.PaymentURL == "" || c.ReturnURL == "" {
		return errors.New("vnpay configuration is incomplete")
	}
	return nil
}

// canonicalize renders the parameter map as "k1=v1&k2=v2" with keys sorted
// and values escaped. Both the sign data and the final query string use this
// exact form, so the gateway verifies against the same bytes we signed.
func canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

func sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildPaymentURL signs the parameter set and appends vnp_SecureHash.
func (c Config) BuildPaymentURL(params map[string]string) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	signData := canonicalize(params)
	secureHash := sign(c.HashSecret, signData)

	return fmt.Sprintf("%s?%s&vnp_SecureHash=%s", c.PaymentURL, signData, secureHash), nil
}

// VerifyReturn recomputes the signature over the returned parameters minus the
// hash fields themselves and compares it against vnp_SecureHash. A missing or
// mismatched hash fails closed.
func (c Config) VerifyReturn(query url.Values) bool {
	if c.HashSecret == "" {
		return false
	}

	secureHash := query.Get("vnp_SecureHash")
	if secureHash == "" {
		return false
	}

	params := make(map[string]string, len(query))
	for k := range query {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		params[k] = query.Get(k)
	}

	expected := sign(c.HashSecret, canonicalize(params))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(secureHash)))
}
