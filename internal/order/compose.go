package order

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vitrine/internal/cart"
)

const DefaultScheme = "whatsapp"

var (
	ErrNoContactNumber = errors.New("store contact number is not configured")
	ErrEmptyCart       = errors.New("cart is empty")
)

type Options struct {
	Locale string
	Scheme string
}

type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"total_items"`
	Total      decimal.Decimal `json:"total"`
	Message    string          `json:"message"`
	Target     string          `json:"target"`
	URL        string          `json:"url"`
}

// Compose turns the cart into an order message and a deep link addressed to
// the cart's contact number. The contact number is checked before the lines.
func Compose(s cart.State, opts Options) (*Summary, error) {
	target := Digits(s.ContactNumber)
	if target == "" {
		return nil, ErrNoContactNumber
	}
	if len(s.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	sum := &Summary{
		Lines:  make([]Line, 0, len(s.Lines)),
		Total:  decimal.Zero,
		Target: target,
	}
	for _, l := range s.Lines {
		sub := l.Subtotal()
		sum.Lines = append(sum.Lines, Line{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
			Subtotal:  sub,
		})
		sum.TotalItems += l.Quantity
		sum.Total = sum.Total.Add(sub)
	}

	sum.Message = Message(sum.Lines, sum.Total, opts.Locale)
	sum.URL = Link(opts.Scheme, target, sum.Message)
	return sum, nil
}

// Message renders the order text:
//
//	*Novo Pedido*
//
//	*Name*
//	Quantidade: 2
//	Preço unitário: R$ 10,00
//	Subtotal: R$ 20,00
//
//	*Total do Pedido: R$ 20,00*
func Message(lines []Line, total decimal.Decimal, locale string) string {
	f := formatFor(locale)

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", f.title)
	for _, l := range lines {
		fmt.Fprintf(&b, "*%s*\n", l.Name)
		fmt.Fprintf(&b, "%s: %d\n", f.quantity, l.Quantity)
		fmt.Fprintf(&b, "%s: %s\n", f.unitPrice, FormatMoney(l.UnitPrice, locale))
		fmt.Fprintf(&b, "%s: %s\n\n", f.subtotal, FormatMoney(l.Subtotal, locale))
	}
	fmt.Fprintf(&b, "*%s: %s*", f.total, FormatMoney(total, locale))
	return b.String()
}

// Link builds <scheme>://send?to=<digits>&text=<message>.
func Link(scheme, target, message string) string {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return scheme + "://send?to=" + escape(target) + "&text=" + escape(message)
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
