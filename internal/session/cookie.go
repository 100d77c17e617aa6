package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName keeps the storage key the earlier client used for its token.
const CookieName = "admin_jwt"

// CookieStore is the only place cookie state is read or written; handlers
// never touch the request cookie directly.
type CookieStore struct {
	Secure bool
}

// Load returns the stored token, with ok=false when none is set.
func (s *CookieStore) Load(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Save stores the token until expiry.
func (s *CookieStore) Save(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear drops the token unconditionally.
func (s *CookieStore) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
