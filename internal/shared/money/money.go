package money

import "fmt"

// Format renders an amount given in minor units with its currency symbol.
// The wall only charges EUR today; other currencies keep a readable fallback.
func Format(currency string, cents int64) string {
	major := float64(cents) / 100.0
	switch currency {
	case "EUR", "eur":
		return fmt.Sprintf("€%.2f", major)
	case "USD", "usd":
		return fmt.Sprintf("$%.2f", major)
	default:
		return fmt.Sprintf("%.2f %s", major, currency)
	}
}
