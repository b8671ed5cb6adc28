package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vitrine/internal/models"
)

// Line is a product snapshot taken when it was added, plus a quantity >= 1.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type State struct {
	Lines         []Line `json:"lines"`
	ContactNumber string `json:"contact_number"`
}

func (s State) TotalItems() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s State) Has(id uuid.UUID) bool {
	return s.index(id) >= 0
}

func (s State) index(id uuid.UUID) int {
	for i, l := range s.Lines {
		if l.ProductID == id {
			return i
		}
	}
	return -1
}

// Action is one of AddProduct, RemoveProduct, SetQuantity, SetContactNumber, ClearCart.
type Action interface {
	apply(State) State
}

type AddProduct struct {
	Product models.Product
}

type RemoveProduct struct {
	ID uuid.UUID
}

type SetQuantity struct {
	ID       uuid.UUID
	Quantity int
}

type SetContactNumber struct {
	Value string
}

type ClearCart struct{}

// Reduce applies a to s and returns the next state. s is never modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a AddProduct) apply(s State) State {
	lines := cloneLines(s.Lines)
	if i := s.index(a.Product.ID); i >= 0 {
		lines[i].Quantity++
	} else {
		lines = append(lines, Line{
			ProductID: a.Product.ID,
			Name:      a.Product.Name,
			Price:     a.Product.Price,
			ImageURL:  a.Product.ImageURL,
			Category:  a.Product.Category,
			Quantity:  1,
		})
	}
	return State{Lines: lines, ContactNumber: s.ContactNumber}
}

func (a RemoveProduct) apply(s State) State {
	lines := make([]Line, 0, len(s.Lines))
	for _, l := range s.Lines {
		if l.ProductID != a.ID {
			lines = append(lines, l)
		}
	}
	return State{Lines: lines, ContactNumber: s.ContactNumber}
}

func (a SetQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return RemoveProduct{ID: a.ID}.apply(s)
	}
	lines := cloneLines(s.Lines)
	if i := s.index(a.ID); i >= 0 {
		lines[i].Quantity = a.Quantity
	}
	return State{Lines: lines, ContactNumber: s.ContactNumber}
}

func (a SetContactNumber) apply(s State) State {
	return State{Lines: cloneLines(s.Lines), ContactNumber: a.Value}
}

func (ClearCart) apply(s State) State {
	return State{Lines: []Line{}, ContactNumber: s.ContactNumber}
}

func cloneLines(in []Line) []Line {
	out := make([]Line, len(in), len(in)+1)
	copy(out, in)
	return out
}
