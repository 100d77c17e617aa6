package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"feedbacker-web/internal/common"
)

// AuthHandler serves the login screen and the logout action. The credential
// pair is configured, not backend-verified: this gate only decides which
// screens render. It must never be treated as access control.
type AuthHandler struct {
	common.ServerState
}

func NewAuthHandler(state common.ServerState) *AuthHandler {
	return &AuthHandler{ServerState: state}
}

type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type loginView struct {
	IsAdmin  bool
	Username string
	Error    string
	// The demo deployment prints its credentials on the page, matching the
	// original client.
	HintUsername string
}

func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if isAdmin(&h.ServerState, c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	return c.Render(http.StatusOK, "login.html", loginView{
		HintUsername: h.Config.Auth.AdminUsername,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := LoginRequest{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", loginView{
			Username:     req.Username,
			Error:        "Invalid credentials",
			HintUsername: h.Config.Auth.AdminUsername,
		})
	}

	token, err := h.Sessions.Login(req.Username, req.Password)
	if err != nil {
		return c.Render(http.StatusUnauthorized, "login.html", loginView{
			Username:     req.Username,
			Error:        "Invalid credentials",
			HintUsername: h.Config.Auth.AdminUsername,
		})
	}

	h.Cookies.Save(c, token, time.Now().Add(h.Config.Auth.SessionTTL))
	return c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout clears the stored token unconditionally.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Cookies.Clear(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}
