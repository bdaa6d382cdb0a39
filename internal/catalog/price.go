package catalog

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultCurrencySymbol = "₹"
	DefaultLocale         = "en-IN"
)

// PriceFormatter renders prices as localized currency strings with exactly
// two fraction digits.
type PriceFormatter struct {
	Symbol  string
	printer *message.Printer
}

// NewPriceFormatter builds a formatter for the BCP 47 locale tag. Unknown
// tags fall back to DefaultLocale.
func NewPriceFormatter(locale, symbol string) PriceFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return PriceFormatter{Symbol: symbol, printer: message.NewPrinter(tag)}
}

// Format rounds half away from zero to two places before formatting.
func (f PriceFormatter) Format(price decimal.Decimal) string {
	p := f.printer
	if p == nil {
		p = message.NewPrinter(language.MustParse(DefaultLocale))
	}
	v := price.Round(2).InexactFloat64()
	return f.Symbol + p.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

var defaultFormatter = NewPriceFormatter(DefaultLocale, DefaultCurrencySymbol)

// FormatPrice formats price in rupees for the en-IN locale, e.g. "₹9.50".
func FormatPrice(price decimal.Decimal) string {
	return defaultFormatter.Format(price)
}
