package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vitrine/internal/cart"
	"github.com/Skotchmaster/vitrine/pkg/tokens"
)

// cartSession returns the shopper's session id, issuing a new cookie when
// the request has none or an invalid one.
func cartSession(c echo.Context, ttl time.Duration) string {
	if ck, err := c.Cookie(cart.SessionCookie); err == nil {
		if _, err := uuid.Parse(ck.Value); err == nil {
			return ck.Value
		}
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cart.SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   tokens.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
