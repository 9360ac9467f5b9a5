// Package money converts between the integer minor-currency-unit
// representation used for storage and arithmetic, and display strings.
// Prices are always stored and computed in cents.
package money

import "fmt"

// ToDisplay renders cents as a decimal string, e.g. 19990 -> "199.90".
func ToDisplay(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ToCents converts a major-unit amount to cents, rounding to the nearest
// cent to avoid floating-point drift.
func ToCents(amount float64) int64 {
	if amount < 0 {
		return -ToCents(-amount)
	}
	return int64(amount*100 + 0.5)
}
