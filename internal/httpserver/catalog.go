package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vitrine/internal/service"
	"github.com/Skotchmaster/vitrine/pkg/logging"
	"github.com/Skotchmaster/vitrine/pkg/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

// GetProducts lists the storefront, narrowed by ?category= when given.
func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	var selected *string
	if v, ok := c.QueryParams()["category"]; ok && len(v) > 0 && strings.TrimSpace(v[0]) != "" {
		cat := strings.TrimSpace(v[0])
		selected = &cat
	}

	items, err := h.Svc.Products(ctx, selected)
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	p, err := h.Svc.Product(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(l, "get_categories_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": cats})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_products")

	q := c.QueryParam("q")
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, q, offset, limit)
	if err != nil {
		return fail(l, "search_products_error", err)
	}

	l.Info("search_products_success", "q", q, "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}
