package utils

import (
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with the given number of decimal
// places. Used only at presentation time; accumulation stays unrounded.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
