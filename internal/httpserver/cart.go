package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vitrine/internal/cart"
	"github.com/Skotchmaster/vitrine/internal/service"
	"github.com/Skotchmaster/vitrine/internal/transport"
	"github.com/Skotchmaster/vitrine/pkg/logging"
)

type CartHTTP struct {
	Cart       *service.CartService
	Checkout   *service.Checkout
	SessionTTL time.Duration
}

func (h *CartHTTP) respond(c echo.Context, st cart.State) error {
	return c.JSON(http.StatusOK, transport.NewCartResponse(st))
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	st, err := h.Cart.State(ctx, cartSession(c, h.SessionTTL))
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return h.respond(c, st)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_item_error", "invalid body", err)
	}

	st, err := h.Cart.Add(ctx, cartSession(c, h.SessionTTL), req.ProductID)
	if err != nil {
		return fail(l, "add_item_error", err)
	}
	return h.respond(c, st)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	var req transport.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_quantity_error", "invalid body", err)
	}
	if req.Quantity == nil {
		return badRequest(l, "set_quantity_error", "quantity is required", nil)
	}

	st, err := h.Cart.SetQuantity(ctx, cartSession(c, h.SessionTTL), c.Param("id"), *req.Quantity)
	if err != nil {
		return fail(l, "set_quantity_error", err)
	}
	return h.respond(c, st)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	st, err := h.Cart.Remove(ctx, cartSession(c, h.SessionTTL), c.Param("id"))
	if err != nil {
		return fail(l, "remove_item_error", err)
	}
	return h.respond(c, st)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	st, err := h.Cart.Clear(ctx, cartSession(c, h.SessionTTL))
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}
	return h.respond(c, st)
}

func (h *CartHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.summary")

	sum, err := h.Checkout.Summary(ctx, cartSession(c, h.SessionTTL))
	if err != nil {
		return fail(l, "cart_summary_error", err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *CartHTTP) SubmitOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	sum, err := h.Checkout.Submit(ctx, cartSession(c, h.SessionTTL))
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info("checkout_success", "total_items", sum.TotalItems)
	return c.JSON(http.StatusOK, transport.CheckoutResponse{URL: sum.URL, Message: sum.Message})
}

func (h *CartHTTP) GetContact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "config.get_contact")

	st, err := h.Cart.State(ctx, cartSession(c, h.SessionTTL))
	if err != nil {
		return fail(l, "get_contact_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"contact_number": st.ContactNumber})
}

func (h *CartHTTP) SetContact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "config.set_contact")

	var req transport.ContactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_contact_error", "invalid body", err)
	}

	st, err := h.Cart.SetContactNumber(ctx, cartSession(c, h.SessionTTL), req.ContactNumber)
	if err != nil {
		return fail(l, "set_contact_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"contact_number": st.ContactNumber})
}
