package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatCount writes n with thousands separators, e.g. 12,345.
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatPercent writes p with two decimals and a percent sign.
func FormatPercent(p float64) string {
	return countPrinter.Sprintf("%.2f%%", p)
}
