package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vitrine/internal/cart"
	"github.com/Skotchmaster/vitrine/internal/models"
)

type ProductFinder interface {
	Product(ctx context.Context, id string) (*models.Product, error)
}

// CartService runs shopper cart actions against their session.
type CartService struct {
	Sessions cart.Sessions
	Products ProductFinder
}

func (s *CartService) dispatch(ctx context.Context, session string, a cart.Action) (cart.State, error) {
	st, err := s.Sessions.Dispatch(ctx, session, a)
	if err != nil {
		return cart.State{}, sessionErr(err)
	}
	return st, nil
}

func sessionErr(err error) error {
	if errors.Is(err, cart.ErrInvalidSession) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if errors.Is(err, cart.ErrSessionBusy) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return fmt.Errorf("cart session: %w: %v", ErrRemote, err)
}

func (s *CartService) State(ctx context.Context, session string) (cart.State, error) {
	st, err := s.Sessions.Get(ctx, session)
	if err != nil {
		return cart.State{}, sessionErr(err)
	}
	return st, nil
}

func (s *CartService) Add(ctx context.Context, session, productID string) (cart.State, error) {
	p, err := s.Products.Product(ctx, productID)
	if err != nil {
		return cart.State{}, err
	}
	return s.dispatch(ctx, session, cart.AddProduct{Product: *p})
}

func (s *CartService) SetQuantity(ctx context.Context, session, productID string, qty int) (cart.State, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return cart.State{}, validation("id is not a uuid")
	}
	return s.dispatch(ctx, session, cart.SetQuantity{ID: id, Quantity: qty})
}

func (s *CartService) Remove(ctx context.Context, session, productID string) (cart.State, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return cart.State{}, validation("id is not a uuid")
	}
	return s.dispatch(ctx, session, cart.RemoveProduct{ID: id})
}

func (s *CartService) Clear(ctx context.Context, session string) (cart.State, error) {
	return s.dispatch(ctx, session, cart.ClearCart{})
}

func (s *CartService) SetContactNumber(ctx context.Context, session, value string) (cart.State, error) {
	value = strings.TrimSpace(value)
	if err := ValidatePhone(value); err != nil {
		return cart.State{}, err
	}
	return s.dispatch(ctx, session, cart.SetContactNumber{Value: value})
}
