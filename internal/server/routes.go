package server

import (
	"net/http"

	"github.com/dysebot/dashboard/internal/docstore"
	"github.com/dysebot/dashboard/internal/leaderboard"
	"github.com/dysebot/dashboard/internal/session"
)

// RouterDeps holds everything the router wires together
type RouterDeps struct {
	Discord        discordAPI
	Store          docstore.Store
	Leaderboard    *leaderboard.Service
	Controller     *session.Controller
	DashboardURL   string
	AllowedOrigins []string
}

// NewRouter builds the full route table with the middleware chain
// applied
func NewRouter(deps RouterDeps) http.Handler {
	auth := NewAuthHandler(deps.Discord, deps.DashboardURL)
	settings := NewSettingsHandler(deps.Store, deps.Leaderboard)
	views := NewViewHandler(deps.Controller)
	guard := NewRouteGuard(deps.Controller)

	mux := http.NewServeMux()

	mux.Handle("GET /health", NewHealthHandler())

	mux.HandleFunc("GET /api/login", auth.LoginHandler)
	mux.HandleFunc("GET /api/callback", auth.CallbackHandler)
	mux.HandleFunc("GET /api/guilds/{token}", auth.UserGuildsHandler)
	mux.HandleFunc("GET /api/guilds/{guildID}/roles", auth.GuildRolesHandler)

	mux.HandleFunc("GET /api/servers/{guildID}/settings", settings.GetGuildSettings)
	mux.HandleFunc("PUT /api/servers/{guildID}/settings", settings.UpdateGuildSettings)
	mux.HandleFunc("GET /api/servers/{guildID}/settings/autorole", settings.GetAutoRole)
	mux.HandleFunc("PUT /api/servers/{guildID}/settings/autorole", settings.UpdateAutoRole)
	mux.HandleFunc("GET /api/servers/{guildID}/settings/incomeshop", settings.GetIncomeShop)
	mux.HandleFunc("PUT /api/servers/{guildID}/settings/incomeshop", settings.UpdateIncomeShop)
	mux.HandleFunc("GET /api/servers/{guildID}/leaderboard", settings.LeaderboardHandler)

	mux.HandleFunc("GET /login", views.LoginPageHandler)
	mux.Handle("GET /dashboard", guard(http.HandlerFunc(views.DashboardPageHandler)))
	mux.HandleFunc("POST /logout", views.LogoutHandler)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	return ChainMiddleware(mux,
		NewRecoverMiddleware("server"),
		NewLoggerMiddleware("server"),
		NewCORSMiddleware(deps.AllowedOrigins),
	)
}
