// Package money renders amounts for people. Totals elsewhere stay unrounded;
// rounding happens only here.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the storefront's display locale.
var DefaultLocale = language.MustParse("es-ES")

// Format rounds amount to the currency's standard scale and writes it with
// tag's digits and separators.
func Format(amount decimal.Decimal, code string, tag language.Tag) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("format money: %w", err)
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))

	p := message.NewPrinter(tag)
	digits := p.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))
	symbol := p.Sprint(currency.NarrowSymbol(unit))

	if symbolFirst(tag) {
		if rounded.IsNegative() {
			return "-" + symbol + p.Sprint(number.Decimal(rounded.Neg().InexactFloat64(), number.Scale(scale))), nil
		}
		return symbol + digits, nil
	}
	return digits + " " + symbol, nil
}

// MustFormat is Format for callers that already validated the currency code.
func MustFormat(amount decimal.Decimal, code string, tag language.Tag) string {
	s, err := Format(amount, code, tag)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}
	return s
}

// symbolFirst follows the common placement for the language: English, Chinese,
// Japanese and Korean put the symbol before the number.
func symbolFirst(tag language.Tag) bool {
	base, _ := tag.Base()
	switch base.String() {
	case "en", "zh", "ja", "ko":
		return true
	}
	return false
}
