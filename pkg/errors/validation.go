package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxTickerLength bounds ticker symbols accepted from clients.
const MaxTickerLength = 12

// tickerRegex matches exchange symbols such as AAPL, BRK.B, BTC-USD and
// index symbols such as ^GSPC.
var tickerRegex = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]*$`)

// ValidateTicker validates an upper-cased ticker symbol.
func ValidateTicker(symbol string) error {
	if symbol == "" {
		return New(ErrCodeInvalidTicker, "ticker cannot be empty")
	}
	if len(symbol) > MaxTickerLength {
		return New(ErrCodeInvalidTicker, "ticker too long (max %d characters)", MaxTickerLength)
	}
	if !tickerRegex.MatchString(symbol) {
		return New(ErrCodeInvalidTicker, "invalid ticker: %q", symbol)
	}
	return nil
}

// ValidateKey validates a storage key for safety. Keys become file names in
// the file backend, so anything that could escape the state directory is
// rejected.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 256 characters
//   - No control characters or null bytes
//   - No path separators or traversal sequences
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}
	if len(key) > 256 {
		return New(ErrCodeInvalidKey, "key too long (max 256 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "key contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateAddr validates a host:port listen or dial address.
func ValidateAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "address cannot be empty")
	}
	i := strings.LastIndex(addr, ":")
	if i < 0 || i == len(addr)-1 {
		return New(ErrCodeInvalidConfig, "address %q must include a port", addr)
	}
	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidConfig, "address %q has an invalid port", addr)
		}
	}
	return nil
}

// ValidateURI validates a connection URI scheme.
func ValidateURI(uri string, schemes ...string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "URI cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(uri, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URI must use one of the schemes %v", schemes)
}
