package order

import "context"

// Handoff delivers a composed order link to the messaging app.
type Handoff interface {
	Open(ctx context.Context, link string) error
}

type HandoffFunc func(ctx context.Context, link string) error

func (f HandoffFunc) Open(ctx context.Context, link string) error { return f(ctx, link) }

// ClientHandoff leaves opening the link to the HTTP client, which receives it
// in the checkout response.
type ClientHandoff struct{}

func (ClientHandoff) Open(context.Context, string) error { return nil }
