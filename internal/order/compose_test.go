package order

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vitrine/internal/cart"
)

func line(name, price string, qty int) cart.Line {
	return cart.Line{ProductID: uuid.New(), Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestCompose(t *testing.T) {
	s := cart.State{
		ContactNumber: "+55 (11) 99999-8888",
		Lines:         []cart.Line{line("Camisa", "10.00", 2), line("Meia", "5.50", 1)},
	}

	sum, err := Compose(s, Options{Locale: LocalePTBR})
	require.NoError(t, err)

	assert.Equal(t, 3, sum.TotalItems)
	assert.True(t, sum.Total.Equal(decimal.RequireFromString("25.50")))
	require.Len(t, sum.Lines, 2)
	assert.True(t, sum.Lines[0].Subtotal.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, "5511999998888", sum.Target)

	want := "*Novo Pedido*\n\n" +
		"*Camisa*\nQuantidade: 2\nPreço unitário: R$ 10,00\nSubtotal: R$ 20,00\n\n" +
		"*Meia*\nQuantidade: 1\nPreço unitário: R$ 5,50\nSubtotal: R$ 5,50\n\n" +
		"*Total do Pedido: R$ 25,50*"
	assert.Equal(t, want, sum.Message)

	require.True(t, strings.HasPrefix(sum.URL, "whatsapp://send?to=5511999998888&text="))
	u, err := url.Parse(sum.URL)
	require.NoError(t, err)
	assert.Equal(t, want, u.Query().Get("text"))
	assert.NotContains(t, sum.URL, "+")
}

func TestCompose_Errors(t *testing.T) {
	tests := []struct {
		name  string
		state cart.State
		want  error
	}{
		{"no contact and empty cart", cart.State{}, ErrNoContactNumber},
		{"contact without digits", cart.State{ContactNumber: "abc", Lines: []cart.Line{line("a", "1", 1)}}, ErrNoContactNumber},
		{"empty cart", cart.State{ContactNumber: "5511999998888"}, ErrEmptyCart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := Compose(tt.state, Options{})
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, sum)
		})
	}
}

func TestCompose_EnglishAndScheme(t *testing.T) {
	s := cart.State{ContactNumber: "15551234567", Lines: []cart.Line{line("Shoe", "1234.5", 1)}}
	sum, err := Compose(s, Options{Locale: LocaleENUS, Scheme: "https"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sum.URL, "https://send?to=15551234567&text="))
	assert.Contains(t, sum.Message, "*Order Total: $1,234.50*")
	assert.Contains(t, sum.Message, "Quantity: 1")
}

func TestLink_EscapesPlus(t *testing.T) {
	link := Link("", "1", "A+B c")
	assert.Equal(t, "whatsapp://send?to=1&text=A%2BB%20c", link)
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "5511999998888", Digits("+55 (11) 99999-8888"))
	assert.Empty(t, Digits("none"))
}

func TestHandoffFunc(t *testing.T) {
	var got string
	h := HandoffFunc(func(_ context.Context, link string) error { got = link; return nil })
	require.NoError(t, h.Open(context.Background(), "x://y"))
	assert.Equal(t, "x://y", got)
	assert.NoError(t, ClientHandoff{}.Open(context.Background(), "x"))
}
