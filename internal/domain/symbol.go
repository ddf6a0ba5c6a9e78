package domain

import "strings"

// NormalizeSymbol canonicalizes a currency symbol at the ledger
// boundary. Symbols arrive from user input and from exchange catalogs
// that follow the Kraken convention of prefixing four-letter asset
// codes with an asset class letter (X for crypto, Z for fiat):
// XXBT -> XBT, XETH -> ETH, XXDG -> XDG, ZUSD -> USD.
//
// The rule is applied exactly once, here, instead of ad hoc stripping
// scattered across callers.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if len(s) == 4 && (s[0] == 'X' || s[0] == 'Z') && isAlpha(s[1:]) {
		return s[1:]
	}
	return s
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
