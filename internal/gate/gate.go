package gate

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vitrine/internal/service"
	"github.com/Skotchmaster/vitrine/pkg/logging"
	"github.com/Skotchmaster/vitrine/pkg/tokens"
)

const LoginPath = "/admin/login"

type State int

const (
	Loading State = iota
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "loading"
	}
}

type Authenticator interface {
	Identity(ctx context.Context, accessToken string) (*service.Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*service.LoginResult, error)
}

type AdminLookup interface {
	IsAdministrator(ctx context.Context, userID string) (bool, error)
}

type Decision struct {
	State     State
	Identity  *service.Identity
	Refreshed *service.LoginResult
}

// Gate decides on every request whether the caller is an administrator.
// Nothing is cached between requests.
type Gate struct {
	Auth   Authenticator
	Admins AdminLookup
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (g *Gate) identity(ctx context.Context, r *http.Request) (*service.Identity, *service.LoginResult) {
	access := cookieValue(r, tokens.AccessCookie)
	if access != "" {
		id, err := g.Auth.Identity(ctx, access)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil
		}
	}

	refresh := cookieValue(r, tokens.RefreshCookie)
	if refresh == "" {
		return nil, nil
	}
	res, err := g.Auth.Refresh(ctx, refresh)
	if err != nil {
		return nil, nil
	}
	id, err := g.Auth.Identity(ctx, res.AccessToken)
	if err != nil {
		return nil, nil
	}
	return id, res
}

func (g *Gate) Check(ctx context.Context, r *http.Request) Decision {
	l := logging.FromContext(ctx).With("component", "gate")
	d := Decision{State: Loading}

	id, refreshed := g.identity(ctx, r)
	if id == nil {
		d.State = Unauthorized
		return d
	}
	d.Identity, d.Refreshed = id, refreshed

	ok, err := g.Admins.IsAdministrator(ctx, id.UserID)
	if err != nil {
		l.Warn("gate_check_error", "user_id", id.UserID, "error", err)
	}
	if err == nil && ok {
		d.State = Authorized
	} else {
		d.State = Unauthorized
	}
	return d
}

const (
	ctxIdentity = "identity"
	ctxUserID   = "user_id"
)

// Middleware lets Authorized requests through. Unauthorized GETs are
// redirected to the login page, other methods get 401.
func Middleware(g *Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := logging.FromContext(req.Context()).With("middleware", "gate")

			d := g.Check(req.Context(), req)
			if d.Refreshed != nil {
				c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, d.Refreshed.AccessToken, "/", d.Refreshed.AccessExp))
				c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, d.Refreshed.RefreshToken, "/", d.Refreshed.RefreshExp))
			}

			if d.State == Authorized {
				c.Set(ctxIdentity, d.Identity)
				c.Set(ctxUserID, d.Identity.UserID)
				return next(c)
			}

			if d.Identity == nil {
				c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
				c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
			}
			l.Warn("gate_denied", "status", http.StatusUnauthorized, "path", req.URL.Path)
			if req.Method == http.MethodGet || req.Method == http.MethodHead {
				return c.Redirect(http.StatusFound, LoginPath)
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"message": "administrator login required",
				"login":   LoginPath,
			})
		}
	}
}

// IdentityFrom returns the identity stored by Middleware.
func IdentityFrom(c echo.Context) (*service.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(*service.Identity)
	return id, ok && id != nil
}
