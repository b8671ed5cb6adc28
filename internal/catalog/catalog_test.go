package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vitrine/internal/models"
)

func names(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	products := Seed()
	str := func(s string) *string { return &s }

	t.Run("nil selection returns input unchanged", func(t *testing.T) {
		got := Filter(products, nil)
		require.Len(t, got, len(products))
		assert.Equal(t, names(products), names(got))
		assert.Same(t, &products[0], &got[0])
	})

	t.Run("selection keeps order", func(t *testing.T) {
		got := Filter(products, str("Roupas"))
		assert.Equal(t, []string{"Camisa Polo Azul", "Calça Jeans", "Camiseta Básica"}, names(got))
	})

	t.Run("no match", func(t *testing.T) {
		got := Filter(products, str("Livros"))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Filter(nil, str("Roupas")))
	})
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Roupas", "Calçados", "Acessórios"}, Categories(Seed()))
	assert.Empty(t, Categories(nil))
}

func TestSeed(t *testing.T) {
	a, b := Seed(), Seed()
	require.Len(t, a, 8)
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.False(t, a[i].Price.IsNegative())
	}
	assert.Equal(t, "249.9", a[1].Price.String())
}

type listerFunc func(ctx context.Context) ([]models.Product, error)

func (f listerFunc) ListProducts(ctx context.Context) ([]models.Product, error) { return f(ctx) }

func TestSources(t *testing.T) {
	ctx := context.Background()

	static := NewStaticSource()
	got, err := static.Products(ctx)
	require.NoError(t, err)
	got[0].Name = "changed"
	again, _ := static.Products(ctx)
	assert.Equal(t, "Camisa Polo Azul", again[0].Name)

	db := DBSource{Repo: listerFunc(func(context.Context) ([]models.Product, error) {
		return []models.Product{{Name: "x"}}, nil
	})}
	got, err = db.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names(got))
}
