// Package money renders dollar amounts for log lines, cards and posts.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders d as whole dollars with thousands separators, e.g. "$1,234" or "-$300".
func Format(d decimal.Decimal) string {
	v := d.Round(0).IntPart()
	if v < 0 {
		return printer.Sprintf("-$%d", -v)
	}
	return printer.Sprintf("$%d", v)
}

// Signed is Format with an explicit sign for non-negative amounts, e.g. "+$1,100".
func Signed(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + Format(d)
	}
	return Format(d)
}

// Percent renders a fraction such as 0.65 as "65%".
func Percent(fraction decimal.Decimal) string {
	return printer.Sprintf("%d%%", fraction.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
