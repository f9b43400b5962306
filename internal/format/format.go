// Package format renders prices and dates for display.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Price formats a rupee amount with Indian digit grouping.
// Example: Price(123456.5) => "₹1,23,456.50". Non-finite input renders as ₹0.
func Price(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "₹0"
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	var rendered string
	if amount == math.Trunc(amount) {
		rendered = inPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
	} else {
		rendered = inPrinter.Sprint(number.Decimal(amount,
			number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
	if neg {
		return "-₹" + rendered
	}
	return "₹" + rendered
}

// PriceMinor formats an amount held in paise.
func PriceMinor(minor int64) string {
	return Price(float64(minor) / 100)
}

// Currency formats minor units for the given currency code. INR gets the
// rupee treatment; other currencies fall back to code-prefixed grouping.
func Currency(minor int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	switch currency {
	case "", "INR":
		return PriceMinor(minor)
	case "USD":
		neg := minor < 0
		if neg {
			minor = -minor
		}
		rendered := fmt.Sprintf("$%s.%02d", groupedUS(minor/100), minor%100)
		if neg {
			return "-" + rendered
		}
		return rendered
	default:
		return fmt.Sprintf("%s %s", currency, groupedUS(minor))
	}
}

var usPrinter = message.NewPrinter(language.English)

func groupedUS(n int64) string {
	return usPrinter.Sprint(number.Decimal(n))
}

// CompactPrice renders a rupee amount in the short form used on listing
// cards: crores, lakhs, thousands.
func CompactPrice(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "₹0"
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	var rendered string
	switch {
	case amount >= 1e7:
		rendered = trimZero(amount/1e7) + "Cr"
	case amount >= 1e5:
		rendered = trimZero(amount/1e5) + "L"
	case amount >= 1e3:
		rendered = trimZero(amount/1e3) + "K"
	default:
		rendered = trimZero(amount)
	}
	if neg {
		return "-₹" + rendered
	}
	return "₹" + rendered
}

func trimZero(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

// Date formats a time in the short form used across the storefront.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}
