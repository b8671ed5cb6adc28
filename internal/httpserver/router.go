package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vitrine/internal/gate"
	"github.com/Skotchmaster/vitrine/internal/storage"
	"github.com/Skotchmaster/vitrine/pkg/logging"
	"github.com/Skotchmaster/vitrine/pkg/middleware/csrf"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	DB        Pinger
	Gate      *gate.Gate
	CSRF      csrf.Config
	UploadDir string

	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Admin   *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := d.DB.Ping(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Error("ready_check_error", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	if d.UploadDir != "" {
		e.Static(storage.PublicPrefix, d.UploadDir)
	}

	v1 := e.Group("/api/v1")

	catalog := v1.Group("/catalog")
	catalog.GET("/products", d.Catalog.GetProducts)
	catalog.GET("/products/search", d.Catalog.SearchProducts)
	catalog.GET("/products/:id", d.Catalog.GetProduct)
	catalog.GET("/categories", d.Catalog.GetCategories)

	cart := v1.Group("/cart")
	cart.GET("", d.Cart.GetCart)
	cart.DELETE("", d.Cart.Clear)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:id", d.Cart.SetQuantity)
	cart.DELETE("/items/:id", d.Cart.RemoveItem)
	cart.GET("/summary", d.Cart.Summary)
	cart.POST("/checkout", d.Cart.SubmitOrder)

	v1.GET("/config/contact", d.Cart.GetContact)
	v1.PUT("/config/contact", d.Cart.SetContact)

	v1.POST("/admin/login", d.Admin.Login)
	v1.POST("/admin/logout", d.Admin.Logout)
	v1.GET("/admin/bootstrap", d.Admin.BootstrapStatus)
	v1.POST("/admin/bootstrap", d.Admin.Bootstrap)

	admin := v1.Group("/admin", gate.Middleware(d.Gate), csrf.Middleware(d.CSRF))

	admin.GET("", d.Admin.Dashboard)

	admin.GET("/products", d.Admin.ListProducts)
	admin.POST("/products", d.Admin.CreateProduct)
	admin.PUT("/products/:id", d.Admin.UpdateProduct)
	admin.DELETE("/products/:id", d.Admin.DeleteProduct)

	admin.GET("/categories", d.Admin.ListCategories)
	admin.POST("/categories", d.Admin.CreateCategory)
	admin.PUT("/categories/:id", d.Admin.UpdateCategory)
	admin.DELETE("/categories/:id", d.Admin.DeleteCategory)

	admin.GET("/settings", d.Admin.ListSettings)
	admin.GET("/settings/whatsapp", d.Admin.GetWhatsApp)
	admin.PUT("/settings/whatsapp", d.Admin.SaveWhatsApp)
	admin.PUT("/settings/password", d.Admin.ChangePassword)
}
