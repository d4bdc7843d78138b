package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dysebot/dashboard/internal/discord"
	"github.com/dysebot/dashboard/internal/session"
	"github.com/stretchr/testify/assert"
)

type staticSessionSource struct {
	state session.State
}

func (s staticSessionSource) State() session.State {
	return s.state
}

func TestRouteGuard(t *testing.T) {
	validSession := session.Session{
		User:        &discord.User{ID: "42", Username: "tester"},
		AccessToken: "token",
	}

	tests := []struct {
		name       string
		state      session.State
		target     string
		wantStatus int
		wantLoc    string
	}{
		{
			name:       "valid_session_passes",
			state:      session.State{Session: validSession},
			target:     "/dashboard",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no_session_redirects_to_login",
			state:      session.State{},
			target:     "/dashboard",
			wantStatus: http.StatusFound,
			wantLoc:    "/login",
		},
		{
			name:       "user_without_token_redirects",
			state:      session.State{Session: session.Session{User: &discord.User{ID: "42"}}},
			target:     "/dashboard",
			wantStatus: http.StatusFound,
			wantLoc:    "/login",
		},
		{
			name:       "token_without_user_redirects",
			state:      session.State{Session: session.Session{AccessToken: "token"}},
			target:     "/dashboard",
			wantStatus: http.StatusFound,
			wantLoc:    "/login",
		},
		{
			name:       "error_state_without_session_redirects",
			state:      session.State{Error: "Failed to process authentication data"},
			target:     "/dashboard",
			wantStatus: http.StatusFound,
			wantLoc:    "/login",
		},
		{
			name:       "loading_state_without_session_redirects",
			state:      session.State{Loading: true},
			target:     "/dashboard",
			wantStatus: http.StatusFound,
			wantLoc:    "/login",
		},
		{
			name:       "callback_params_bypass_the_guard",
			state:      session.State{},
			target:     "/dashboard?token=t&user=%7B%7D&guilds=%5B%5D",
			wantStatus: http.StatusOK,
		},
		{
			name:       "partial_callback_params_do_not_bypass",
			state:      session.State{},
			target:     "/dashboard?token=t",
			wantStatus: http.StatusFound,
			wantLoc:    "/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewRouteGuard(staticSessionSource{state: tt.state})
			handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}
