package server

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/dysebot/dashboard/internal/discord"
	"github.com/dysebot/dashboard/internal/log"
	"github.com/dysebot/dashboard/internal/session"
)

//go:embed templates/login.html
var loginPageTemplateHTML string

//go:embed templates/dashboard.html
var dashboardPageTemplateHTML string

var loginPageTemplate = template.Must(template.New("login").Parse(loginPageTemplateHTML))
var dashboardPageTemplate = template.Must(template.New("dashboard").Parse(dashboardPageTemplateHTML))

// LoginPageData is the data for the login page
type LoginPageData struct {
	Error string
}

// DashboardPageData is the data for the dashboard shell
type DashboardPageData struct {
	Username string
	Guilds   []discord.Guild
}

// ViewHandler serves the minimal browser views the route guard protects
type ViewHandler struct {
	controller *session.Controller
}

// NewViewHandler creates the view handler
func NewViewHandler(controller *session.Controller) *ViewHandler {
	return &ViewHandler{controller: controller}
}

// LoginPageHandler renders the login page. Authenticated visitors go
// straight to the dashboard.
func (h *ViewHandler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	state := h.controller.State()
	if state.Session.Valid() {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginPageTemplate.Execute(w, LoginPageData{Error: state.Error}); err != nil {
		log.LogError("Failed to render login page: %v", err)
	}
}

// DashboardPageHandler renders the dashboard shell. It runs the session
// bootstrap first so a fresh OAuth callback in the query string is
// consumed, then redirects to the clean URL to keep the token out of
// the address bar and browser history.
func (h *ViewHandler) DashboardPageHandler(w http.ResponseWriter, r *http.Request) {
	if h.controller.Bootstrap(r.URL.Query()) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	state := h.controller.State()
	if !state.Session.Valid() {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := DashboardPageData{
		Username: state.Session.User.Username,
		Guilds:   state.Session.Guilds,
	}
	if err := dashboardPageTemplate.Execute(w, data); err != nil {
		log.LogError("Failed to render dashboard page: %v", err)
	}
}

// LogoutHandler ends the session and returns to the login page
func (h *ViewHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.controller.Logout()
	http.Redirect(w, r, "/login", http.StatusFound)
}
