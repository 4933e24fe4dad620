package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountDecimals is the number of decimal places carried by the
// smallest-unit integer amounts (micro-units of the payment token).
const AmountDecimals = 6

// NormalizeWallet canonicalizes a wallet address for storage and
// comparison. Addresses are opaque case-insensitive strings here; chain
// specific checksums are the payment collaborator's concern.
func NormalizeWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// MaskWallet shortens a wallet address for logs, keeping enough of both
// ends to recognize it.
func MaskWallet(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatAmount renders a smallest-unit integer amount as a decimal
// token string, e.g. 1500000 -> "1.5".
func FormatAmount(amount int64) string {
	return decimal.NewFromInt(amount).Shift(-AmountDecimals).String()
}
