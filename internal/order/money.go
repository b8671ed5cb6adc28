package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	LocalePTBR = "pt-BR"
	LocaleENUS = "en-US"
)

type localeFormat struct {
	symbol    string
	thousands string
	decimal   string
	space     bool

	title     string
	quantity  string
	unitPrice string
	subtotal  string
	total     string
}

var locales = map[string]localeFormat{
	LocalePTBR: {
		symbol: "R$", thousands: ".", decimal: ",", space: true,
		title: "Novo Pedido", quantity: "Quantidade", unitPrice: "Preço unitário",
		subtotal: "Subtotal", total: "Total do Pedido",
	},
	LocaleENUS: {
		symbol: "$", thousands: ",", decimal: ".",
		title: "New Order", quantity: "Quantity", unitPrice: "Unit price",
		subtotal: "Subtotal", total: "Order Total",
	},
}

func formatFor(locale string) localeFormat {
	if f, ok := locales[locale]; ok {
		return f
	}
	return locales[LocalePTBR]
}

// SupportedLocale reports whether FormatMoney knows the locale.
func SupportedLocale(locale string) bool {
	_, ok := locales[locale]
	return ok
}

// FormatMoney renders v with two decimals and the locale's currency symbol.
// Unknown locales fall back to pt-BR.
func FormatMoney(v decimal.Decimal, locale string) string {
	f := formatFor(locale)

	neg := v.IsNegative()
	fixed := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(f.symbol)
	if f.space {
		b.WriteByte(' ')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.thousands)
		}
		b.WriteRune(r)
	}
	b.WriteString(f.decimal)
	b.WriteString(frac)
	return b.String()
}
