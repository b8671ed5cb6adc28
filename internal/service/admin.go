package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/vitrine/internal/models"
	"github.com/Skotchmaster/vitrine/internal/repo"
	"github.com/Skotchmaster/vitrine/pkg/logging"
)

// AdminService covers the admin panel's own account flows.
type AdminService struct {
	Repo *repo.GormRepo
	Auth *AuthService
}

type Dashboard struct {
	Identity      Identity `json:"identity"`
	Products      int64    `json:"products"`
	Categories    int64    `json:"categories"`
	WhatsAppReady bool     `json:"whatsapp_configured"`
}

// IsAdministrator reports whether an administrator row exists for userID.
func (s *AdminService) IsAdministrator(ctx context.Context, userID string) (bool, error) {
	if _, err := s.Repo.FindAdministrator(ctx, userID); err != nil {
		if err = translate("find administrator", err); errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Login signs in and requires an administrator row. Without one the fresh
// session is signed out again.
func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "admin.login")
	res, err := s.Auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	ok, err := s.IsAdministrator(ctx, res.UserID)
	if err != nil || !ok {
		if soErr := s.Auth.SignOut(ctx, res.RefreshToken); soErr != nil {
			l.Error("admin_login_error", "reason", "cannot sign out non admin", "error", soErr)
		}
		if err != nil {
			l.Warn("admin_login_error", "reason", "administrator lookup failed", "error", err)
		}
		return nil, ErrNotAdministrator
	}
	return res, nil
}

func (s *AdminService) BootstrapAvailable(ctx context.Context) (bool, error) {
	n, err := s.Repo.CountAdministrators(ctx)
	if err != nil {
		return false, translate("count administrators", err)
	}
	return n == 0, nil
}

// Bootstrap creates the first administrator. The user and administrator rows
// are written together, and only while no administrator exists.
func (s *AdminService) Bootstrap(ctx context.Context, email, password, confirm string) (*models.Administrator, error) {
	l := logging.FromContext(ctx).With("svc", "admin.bootstrap")
	if err := checkPasswordPair(password, confirm); err != nil {
		return nil, err
	}
	u, err := newUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	a, err := s.Repo.BootstrapAdministrator(ctx, u)
	switch {
	case errors.Is(err, repo.ErrAdministratorExists), errors.Is(err, repo.ErrEmailTaken):
		return nil, fmt.Errorf("%v: %w", err, ErrConflict)
	case err != nil:
		return nil, translate("bootstrap administrator", err)
	}

	s.Auth.signedUp(ctx, l, u)
	return a, nil
}

func (s *AdminService) Dashboard(ctx context.Context, id Identity, whatsapp string) (*Dashboard, error) {
	products, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return nil, translate("count products", err)
	}
	categories, err := s.Repo.CountCategories(ctx)
	if err != nil {
		return nil, translate("count categories", err)
	}
	return &Dashboard{
		Identity:      id,
		Products:      products,
		Categories:    categories,
		WhatsAppReady: whatsapp != "",
	}, nil
}
