package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vitrine/internal/gate"
	"github.com/Skotchmaster/vitrine/internal/service"
	"github.com/Skotchmaster/vitrine/internal/transport"
	"github.com/Skotchmaster/vitrine/pkg/logging"
	"github.com/Skotchmaster/vitrine/pkg/tokens"
)

type AdminHTTP struct {
	Admin      *service.AdminService
	Auth       *service.AuthService
	Catalog    *service.CatalogService
	Categories *service.CategoryService
	Settings   *service.SettingsService
}

func (h *AdminHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "admin_login_error", "invalid body", err)
	}

	res, err := h.Admin.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "admin_login_error", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
	l.Info("admin_login_success", "user_id", res.UserID)

	return c.JSON(http.StatusOK, echo.Map{
		"email":    res.Email,
		"is_admin": true,
	})
}

func (h *AdminHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.logout")

	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Auth.SignOut(ctx, ck.Value); err != nil {
			l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		}
	}
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AdminHTTP) BootstrapStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.bootstrap_status")

	open, err := h.Admin.BootstrapAvailable(ctx)
	if err != nil {
		return fail(l, "bootstrap_status_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": open})
}

func (h *AdminHTTP) Bootstrap(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.bootstrap")

	var req transport.BootstrapRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "bootstrap_error", "invalid body", err)
	}

	a, err := h.Admin.Bootstrap(ctx, req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		return fail(l, "bootstrap_error", err)
	}

	l.Info("bootstrap_success", "user_id", a.ID.String())
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    a.ID,
		"email": a.Email,
		"login": gate.LoginPath,
	})
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	id, ok := gate.IdentityFrom(c)
	if !ok {
		return fail(l, "dashboard_error", service.ErrUnauthorized)
	}
	number, err := h.Settings.WhatsAppNumber(ctx)
	if err != nil {
		return fail(l, "dashboard_error", err)
	}
	d, err := h.Admin.Dashboard(ctx, *id, number)
	if err != nil {
		return fail(l, "dashboard_error", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_products")

	items, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		return fail(l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// productInput reads either a JSON body or a multipart form with an optional "image" file.
func productInput(c echo.Context) (service.ProductInput, func(), error) {
	noop := func() {}
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		var req transport.ProductRequest
		if err := c.Bind(&req); err != nil {
			return service.ProductInput{}, noop, err
		}
		return service.ProductInput{
			Name:        req.Name,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Category:    req.Category,
			Description: req.Description,
		}, noop, nil
	}

	in := service.ProductInput{
		Name:        c.FormValue("name"),
		ImageURL:    c.FormValue("image_url"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
	}
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		p, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
		if err != nil {
			return service.ProductInput{}, noop, err
		}
		in.Price = &p
	}

	fh, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return in, noop, nil
		}
		return service.ProductInput{}, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return service.ProductInput{}, noop, err
	}
	in.Image = &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	}
	return in, func() { _ = f.Close() }, nil
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	in, done, err := productInput(c)
	if err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}
	defer done()

	items, err := h.Catalog.CreateProduct(ctx, in)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success")
	return c.JSON(http.StatusCreated, echo.Map{"data": items})
}

func (h *AdminHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_product")

	in, done, err := productInput(c)
	if err != nil {
		return badRequest(l, "update_product_error", "invalid body", err)
	}
	defer done()

	items, err := h.Catalog.UpdateProduct(ctx, c.Param("id"), in)
	if err != nil {
		return fail(l, "update_product_error", err)
	}

	l.Info("update_product_success", "product_id", c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	items, err := h.Catalog.DeleteProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *AdminHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_categories")

	items, err := h.Categories.List(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *AdminHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_category_error", "invalid body", err)
	}
	items, err := h.Categories.Create(ctx, req.Name)
	if err != nil {
		return fail(l, "create_category_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": items})
}

func (h *AdminHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_category_error", "invalid body", err)
	}
	items, err := h.Categories.Update(ctx, c.Param("id"), req.Name)
	if err != nil {
		return fail(l, "update_category_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *AdminHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_category")

	items, err := h.Categories.Delete(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "delete_category_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *AdminHTTP) ListSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_settings")

	items, err := h.Settings.List(ctx)
	if err != nil {
		return fail(l, "list_settings_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *AdminHTTP) GetWhatsApp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_whatsapp")

	v, err := h.Settings.WhatsAppNumber(ctx)
	if err != nil {
		return fail(l, "get_whatsapp_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"whatsapp_number": v})
}

func (h *AdminHTTP) SaveWhatsApp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.save_whatsapp")

	var req transport.WhatsAppRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "save_whatsapp_error", "invalid body", err)
	}
	v, err := h.Settings.SaveWhatsAppNumber(ctx, req.WhatsAppNumber)
	if err != nil {
		return fail(l, "save_whatsapp_error", err)
	}

	l.Info("save_whatsapp_success")
	return c.JSON(http.StatusOK, echo.Map{"whatsapp_number": v})
}

func (h *AdminHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.change_password")

	var req transport.PasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "change_password_error", "invalid body", err)
	}
	id, ok := gate.IdentityFrom(c)
	if !ok {
		return fail(l, "change_password_error", service.ErrUnauthorized)
	}
	res, err := h.Auth.ChangePassword(ctx, id.UserID, req.Password, req.PasswordConfirmation)
	if err != nil {
		return fail(l, "change_password_error", err)
	}
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))

	l.Info("change_password_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
