package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestCookieStoreLoadMissing(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

	store := &CookieStore{}
	_, ok := store.Load(c)
	assert.False(t, ok)
}

func TestCookieStoreSaveAndLoad(t *testing.T) {
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

	store := &CookieStore{}
	store.Save(c, "token-value", time.Now().Add(time.Hour))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	c2, _ := newContext(req)

	token, ok := store.Load(c2)
	assert.True(t, ok)
	assert.Equal(t, "token-value", token)
}

func TestCookieStoreClear(t *testing.T) {
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

	store := &CookieStore{}
	store.Clear(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
