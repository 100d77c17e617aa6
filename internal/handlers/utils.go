package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"feedbacker-web/internal/common"
)

// isAdmin reports whether the request carries a currently valid session
// token. This is the on-load decode of the stored token: any decode failure
// or expiry silently reads as logged-out.
func isAdmin(state *common.ServerState, c echo.Context) bool {
	token, ok := state.Cookies.Load(c)
	if !ok {
		return false
	}
	_, err := state.Sessions.Validate(token)
	return err == nil
}

// redirectWithNotice sends the browser to path with a transient notice or
// error message in the query string. There is no server-side session store,
// so flash messages travel in the redirect itself.
func redirectWithNotice(c echo.Context, path, notice, errMsg string) error {
	q := url.Values{}
	if notice != "" {
		q.Set("notice", notice)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	return c.Redirect(http.StatusSeeOther, path)
}
