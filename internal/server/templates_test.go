package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dysebot/dashboard/internal/discord"
	"github.com/dysebot/dashboard/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewController(t *testing.T, sess *session.Session) *session.Controller {
	t.Helper()
	store := session.NewMemoryStore()
	if sess != nil {
		require.NoError(t, store.Save(*sess))
	}
	return session.NewController(store, nil)
}

func TestLoginPage_RendersForAnonymous(t *testing.T) {
	views := NewViewHandler(newViewController(t, nil))

	rec := httptest.NewRecorder()
	views.LoginPageHandler(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/login")
}

func TestLoginPage_RedirectsAuthenticated(t *testing.T) {
	ctrl := newViewController(t, &session.Session{
		User:        &discord.User{ID: "42", Username: "tester"},
		AccessToken: "token",
	})
	// restore happens on the first bootstrap
	ctrl.Bootstrap(url.Values{})

	views := NewViewHandler(ctrl)
	rec := httptest.NewRecorder()
	views.LoginPageHandler(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestDashboardPage_ConsumesCallbackAndRedirectsClean(t *testing.T) {
	views := NewViewHandler(newViewController(t, nil))

	target := "/dashboard?" + url.Values{
		"token":  {"access-token"},
		"user":   {`{"id":"42","username":"tester"}`},
		"guilds": {`[{"id":"g1","name":"Guild One"}]`},
	}.Encode()

	rec := httptest.NewRecorder()
	views.DashboardPageHandler(rec, httptest.NewRequest(http.MethodGet, target, nil))

	// the token must leave the address bar
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestDashboardPage_RendersGuilds(t *testing.T) {
	ctrl := newViewController(t, &session.Session{
		User:        &discord.User{ID: "42", Username: "tester"},
		Guilds:      []discord.Guild{{ID: "g1", Name: "Guild One"}},
		AccessToken: "token",
	})

	views := NewViewHandler(ctrl)
	rec := httptest.NewRecorder()
	views.DashboardPageHandler(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tester")
	assert.Contains(t, rec.Body.String(), "Guild One")
}

func TestDashboardPage_RedirectsAnonymous(t *testing.T) {
	views := NewViewHandler(newViewController(t, nil))

	rec := httptest.NewRecorder()
	views.DashboardPageHandler(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogoutEndpoint(t *testing.T) {
	ctrl := newViewController(t, &session.Session{
		User:        &discord.User{ID: "42", Username: "tester"},
		AccessToken: "token",
	})
	ctrl.Bootstrap(url.Values{})

	views := NewViewHandler(ctrl)
	rec := httptest.NewRecorder()
	views.LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, ctrl.State().Session.Valid())
}
