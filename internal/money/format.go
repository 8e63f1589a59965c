package money

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatOptions controls display rendering.
type FormatOptions struct {
	// ShowCurrency appends the ISO code after the number.
	ShowCurrency bool
	// MinFractionDigits and MaxFractionDigits default to 2 when zero or
	// unset; a negative MinFractionDigits means "no minimum".
	MinFractionDigits int
	MaxFractionDigits int
	// Locale defaults to English.
	Locale language.Tag
}

// Format renders an amount for display. Defaults: 2 fraction digits, no
// currency code, English locale.
func Format(m Money, opts FormatOptions) string {
	minDigits := opts.MinFractionDigits
	if minDigits == 0 {
		minDigits = 2
	}
	if minDigits < 0 {
		minDigits = 0
	}
	maxDigits := opts.MaxFractionDigits
	if maxDigits == 0 {
		maxDigits = 2
	}
	if maxDigits < minDigits {
		maxDigits = minDigits
	}

	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	printer := message.NewPrinter(locale)
	rendered := printer.Sprint(number.Decimal(
		m.Dollars(),
		number.MinFractionDigits(minDigits),
		number.MaxFractionDigits(maxDigits),
	))

	if opts.ShowCurrency {
		return fmt.Sprintf("%s %s", rendered, m.Currency())
	}
	return rendered
}
