// Package numfmt keeps number rendering in one place so every modifier prints
// coins the same way.
package numfmt

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals

// Coins formats an amount: below 1,000 it is rounded to one decimal and a
// trailing ".0" is dropped, otherwise it is rounded to an integer and grouped
// with commas. The threshold applies to the rounded value.
func Coins(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	d := decimal.NewFromFloat(v).Round(1)
	if d.Abs().LessThan(decimal.NewFromInt(1000)) {
		return d.String()
	}

	return printer.Sprintf("%d", d.Round(0).IntPart())
}

// Int formats a count with grouping.
func Int(v int64) string {
	return printer.Sprintf("%d", v)
}

// Percent formats a ratio (0.25 -> "25%").
func Percent(ratio float64) string {
	return decimal.NewFromFloat(ratio*100).Round(0).String() + "%"
}

// Plain rounds to an integer without grouping, for values the client puts
// into an input field.
func Plain(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	return decimal.NewFromFloat(v).Round(0).String()
}
