package util

import (
	"fmt"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"ILS": "₪",
	"JPY": "¥",
	"KRW": "₩",
}

// FormatPrice renders a minor-unit amount as a display string,
// e.g. (1234, "USD") -> "$12.34" and (0, "USD") -> "$0.00".
func FormatPrice(cents int64, currencyCode string) string {
	whole := cents / 100
	fraction := cents % 100
	if fraction < 0 {
		fraction = -fraction
	}

	if symbol, ok := currencySymbols[currencyCode]; ok {
		return fmt.Sprintf("%s%d.%02d", symbol, whole, fraction)
	}
	return fmt.Sprintf("%d.%02d %s", whole, fraction, currencyCode)
}
