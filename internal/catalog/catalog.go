package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vitrine/internal/models"
)

// Source supplies the storefront's product list.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
}

type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// DBSource reads the catalog from the products table.
type DBSource struct {
	Repo ProductLister
}

func (s DBSource) Products(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

// StaticSource serves a fixed list.
type StaticSource struct {
	Items []models.Product
}

func NewStaticSource() StaticSource {
	return StaticSource{Items: Seed()}
}

func (s StaticSource) Products(context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(s.Items))
	copy(out, s.Items)
	return out, nil
}

// Filter returns products unchanged when selected is nil, otherwise the
// products whose category equals *selected, in input order.
func Filter(products []models.Product, selected *string) []models.Product {
	if selected == nil {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == *selected {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists distinct category names in first-seen order.
func Categories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

var seedNamespace = uuid.MustParse("6f1c3a52-3d0e-4f1b-9a57-5a0b7f0c2e11")

type seedRow struct {
	name, price, image, category, description string
}

var seedRows = []seedRow{
	{"Camisa Polo Azul", "89.90", "/images/camisa-polo.jpg", "Roupas", "Camisa polo de algodão premium, ideal para o dia a dia."},
	{"Tênis Esportivo", "249.90", "/images/tenis.jpg", "Calçados", "Tênis com amortecimento e suporte para atividades físicas."},
	{"Relógio Digital", "120.00", "/images/relogio.jpg", "Acessórios", "Relógio resistente à água com múltiplas funções."},
	{"Mochila Moderna", "189.90", "/images/mochila.jpg", "Acessórios", "Mochila resistente com compartimentos para notebook."},
	{"Calça Jeans", "129.90", "/images/calca.jpg", "Roupas", "Calça jeans de alta qualidade e modelagem moderna."},
	{"Óculos de Sol", "99.90", "/images/oculos.jpg", "Acessórios", "Óculos de sol com proteção UV e armação resistente."},
	{"Camiseta Básica", "49.90", "/images/camiseta.jpg", "Roupas", "Camiseta básica de algodão, disponível em várias cores."},
	{"Carteira Couro", "79.90", "/images/carteira.jpg", "Acessórios", "Carteira de couro genuíno com múltiplos compartimentos."},
}

// Seed returns the demo catalog. IDs are stable across calls.
func Seed() []models.Product {
	out := make([]models.Product, 0, len(seedRows))
	for _, r := range seedRows {
		out = append(out, models.Product{
			ID:          uuid.NewSHA1(seedNamespace, []byte(r.name)),
			Name:        r.name,
			Price:       decimal.RequireFromString(r.price),
			ImageURL:    r.image,
			Category:    r.category,
			Description: r.description,
		})
	}
	return out
}
