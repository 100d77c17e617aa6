package session

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Middleware guards the admin route group. The token is read from the
// session cookie; signature or expiry failures redirect to the login view
// instead of answering 401 (fail safe to logged-out, no error surfaced).
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  m.secret,
		TokenLookup: "cookie:" + CookieName,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusSeeOther, "/login")
		},
	})
}

// RequireAdmin rejects tokens that parsed fine but carry the wrong role.
// Chained after Middleware on the admin group.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || claims.Role != RoleAdmin {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}
