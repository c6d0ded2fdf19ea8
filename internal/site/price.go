package site

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount in minor units. Zero is "Free", whole
// amounts drop the cents and unknown currencies fall back to the ISO code.
func FormatPrice(cents int64, currency string) string {
	if cents == 0 {
		return "Free"
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	amount := pricePrinter.Sprintf("%d", cents/100)
	if rem := cents % 100; rem != 0 {
		amount += fmt.Sprintf(".%02d", rem)
	}

	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + amount
	}
	return sign + amount + " " + code
}
