package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/vitrine/internal/cart"
	"github.com/Skotchmaster/vitrine/internal/order"
	"github.com/Skotchmaster/vitrine/pkg/events"
	"github.com/Skotchmaster/vitrine/pkg/logging"
)

type Checkout struct {
	Sessions cart.Sessions
	Handoff  order.Handoff
	Options  order.Options
	Events   events.Publisher
}

func composeErr(err error) error {
	if errors.Is(err, order.ErrEmptyCart) || errors.Is(err, order.ErrNoContactNumber) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

// Summary composes the order without handing it off.
func (c *Checkout) Summary(ctx context.Context, session string) (*order.Summary, error) {
	st, err := c.Sessions.Get(ctx, session)
	if err != nil {
		return nil, sessionErr(err)
	}
	sum, err := order.Compose(st, c.Options)
	if err != nil {
		return nil, composeErr(err)
	}
	return sum, nil
}

// Submit composes the order, hands the link off and clears the cart. The
// cart is only cleared after a successful handoff.
func (c *Checkout) Submit(ctx context.Context, session string) (*order.Summary, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.submit")

	sum, err := c.Summary(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := c.Handoff.Open(ctx, sum.URL); err != nil {
		return nil, fmt.Errorf("open order link: %w: %v", ErrRemote, err)
	}
	if _, err := c.Sessions.Dispatch(ctx, session, cart.ClearCart{}); err != nil {
		l.Error("checkout_error", "reason", "cannot clear cart after handoff", "error", err)
		return nil, sessionErr(err)
	}

	publish(ctx, l, c.Events, events.TopicOrders, session, map[string]any{
		"type":        "order_sent",
		"target":      sum.Target,
		"total_items": sum.TotalItems,
		"total":       sum.Total.StringFixed(2),
		"lines":       len(sum.Lines),
	})
	return sum, nil
}
