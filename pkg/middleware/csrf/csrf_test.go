package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/form", ok)
	e.POST("/form", ok)
	e.POST("/skip", ok)
	return e
}

func TestMiddleware(t *testing.T) {
	e := newEcho(Config{SkipPaths: []string{"/skip"}})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	post := func(header, origin string) int {
		req := httptest.NewRequest(http.MethodPost, "/form", nil)
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	tests := []struct {
		name   string
		header string
		origin string
		want   int
	}{
		{"valid", token, "http://example.com", http.StatusNoContent},
		{"missing token", "", "http://example.com", http.StatusForbidden},
		{"wrong token", "other", "http://example.com", http.StatusForbidden},
		{"foreign origin", token, "http://evil.test", http.StatusForbidden},
		{"no origin", token, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, post(tt.header, tt.origin))
		})
	}

	t.Run("skip path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/skip", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
