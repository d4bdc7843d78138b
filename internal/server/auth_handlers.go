package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dysebot/dashboard/internal/discord"
	jsonwriter "github.com/dysebot/dashboard/internal/json"
	"github.com/dysebot/dashboard/internal/log"
)

// discordAPI is the subset of the Discord client the auth handlers use
type discordAPI interface {
	AuthorizeURL() string
	Exchange(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*discord.User, error)
	FetchUserGuilds(ctx context.Context, accessToken string) ([]discord.Guild, error)
	FetchBotGuilds(ctx context.Context) ([]discord.Guild, error)
	FetchGuildRoles(ctx context.Context, guildID string) ([]discord.Role, error)
}

// AuthHandler serves the OAuth2 login flow and the guild endpoints
type AuthHandler struct {
	discord      discordAPI
	dashboardURL string
}

// NewAuthHandler creates the auth handler. dashboardURL is the frontend
// base URL the callback redirects back to.
func NewAuthHandler(discordClient discordAPI, dashboardURL string) *AuthHandler {
	return &AuthHandler{
		discord:      discordClient,
		dashboardURL: strings.TrimSuffix(dashboardURL, "/"),
	}
}

// LoginHandler redirects the browser to Discord's consent page
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.discord.AuthorizeURL(), http.StatusFound)
}

// CallbackHandler completes the OAuth2 flow: exchange the code, fetch
// the profile and both guild lists, keep the mutual guilds, and send
// the browser back to the dashboard with the session material in the
// query string.
func (h *AuthHandler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		jsonwriter.WriteBadRequest(w, "No code provided")
		return
	}

	ctx := r.Context()

	accessToken, err := h.discord.Exchange(ctx, code)
	if err != nil {
		h.authFailed(w, "token exchange", err)
		return
	}

	user, err := h.discord.FetchProfile(ctx, accessToken)
	if err != nil {
		h.authFailed(w, "profile fetch", err)
		return
	}

	userGuilds, err := h.discord.FetchUserGuilds(ctx, accessToken)
	if err != nil {
		h.authFailed(w, "user guilds fetch", err)
		return
	}

	botGuilds, err := h.discord.FetchBotGuilds(ctx)
	if err != nil {
		h.authFailed(w, "bot guilds fetch", err)
		return
	}

	mutual := discord.FilterMutual(userGuilds, botGuilds)

	userJSON, err := json.Marshal(user)
	if err != nil {
		h.authFailed(w, "user encoding", err)
		return
	}
	guildsJSON, err := json.Marshal(mutual)
	if err != nil {
		h.authFailed(w, "guilds encoding", err)
		return
	}

	v := url.Values{}
	v.Set("token", accessToken)
	v.Set("user", string(userJSON))
	v.Set("guilds", string(guildsJSON))

	log.LogInfoWithFields("auth", "OAuth callback completed", map[string]any{
		"user_id":       user.ID,
		"mutual_guilds": len(mutual),
	})
	http.Redirect(w, r, h.dashboardURL+"/dashboard?"+v.Encode(), http.StatusFound)
}

// authFailed logs the upstream detail and returns the generic failure
// body; callers never see which step broke
func (h *AuthHandler) authFailed(w http.ResponseWriter, step string, err error) {
	log.LogErrorWithFields("auth", "Authentication failed", map[string]any{
		"step":  step,
		"error": err.Error(),
	})
	jsonwriter.WriteInternalServerError(w, "Authentication failed")
}

// UserGuildsHandler serves the pre-redirect-flow guild listing: the
// access token arrives as a path segment and the response carries the
// mutual guilds. Kept for clients that still poll it.
func (h *AuthHandler) UserGuildsHandler(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	ctx := r.Context()

	userGuilds, err := h.discord.FetchUserGuilds(ctx, token)
	if err != nil {
		h.guildsFailed(w, "user guilds fetch", err)
		return
	}

	botGuilds, err := h.discord.FetchBotGuilds(ctx)
	if err != nil {
		h.guildsFailed(w, "bot guilds fetch", err)
		return
	}

	_ = jsonwriter.Write(w, map[string]any{
		"guilds": discord.FilterMutual(userGuilds, botGuilds),
	})
}

func (h *AuthHandler) guildsFailed(w http.ResponseWriter, step string, err error) {
	log.LogErrorWithFields("auth", "Failed to fetch guilds", map[string]any{
		"step":  step,
		"error": err.Error(),
	})
	jsonwriter.WriteInternalServerError(w, "Failed to fetch guilds")
}

// GuildRolesHandler serves a guild's assignable roles via the bot
// credential. Upstream status codes pass through so a 403 from Discord
// stays a 403 here.
func (h *AuthHandler) GuildRolesHandler(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	roles, err := h.discord.FetchGuildRoles(r.Context(), guildID)
	if err != nil {
		log.LogErrorWithFields("auth", "Failed to fetch guild roles", map[string]any{
			"guild_id": guildID,
			"error":    err.Error(),
		})
		var uerr *discord.UpstreamError
		if errors.As(err, &uerr) && uerr.StatusCode != 0 {
			jsonwriter.WriteError(w, uerr.StatusCode, "Failed to fetch roles")
			return
		}
		jsonwriter.WriteInternalServerError(w, "Failed to fetch roles")
		return
	}

	_ = jsonwriter.Write(w, map[string]any{"roles": roles})
}
