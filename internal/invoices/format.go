package invoices

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatCents renders an integer cent amount for display and audit details,
// e.g. 227333 -> "$2,273.33". Negative amounts keep their sign.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return usd.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
