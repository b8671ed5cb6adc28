package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vitrine/internal/cart"
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type ContactRequest struct {
	ContactNumber string `json:"contact_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BootstrapRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type PasswordRequest struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type WhatsAppRequest struct {
	WhatsAppNumber string `json:"whatsapp_number"`
}

type ProductRequest struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"image_url"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
}

type CartResponse struct {
	Lines         []cart.Line     `json:"lines"`
	ContactNumber string          `json:"contact_number"`
	TotalItems    int             `json:"total_items"`
	Total         decimal.Decimal `json:"total"`
}

func NewCartResponse(s cart.State) CartResponse {
	lines := s.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartResponse{
		Lines:         lines,
		ContactNumber: s.ContactNumber,
		TotalItems:    s.TotalItems(),
		Total:         s.Total(),
	}
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}
