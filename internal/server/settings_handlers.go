package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dysebot/dashboard/internal/docstore"
	jsonwriter "github.com/dysebot/dashboard/internal/json"
	"github.com/dysebot/dashboard/internal/leaderboard"
	"github.com/dysebot/dashboard/internal/log"
)

const (
	defaultPrefix = "!"
	maxPrefixLen  = 5
)

// SettingsHandler serves the per-guild bot configuration API backed by
// the document store
type SettingsHandler struct {
	store       docstore.Store
	leaderboard *leaderboard.Service
	now         func() time.Time
}

// NewSettingsHandler creates the settings handler
func NewSettingsHandler(store docstore.Store, lb *leaderboard.Service) *SettingsHandler {
	return &SettingsHandler{
		store:       store,
		leaderboard: lb,
		now:         time.Now,
	}
}

// GetGuildSettings returns a guild's base settings, falling back to
// defaults when no document exists yet
func (h *SettingsHandler) GetGuildSettings(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	settings, err := h.store.GetGuildSettings(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			_ = jsonwriter.Write(w, &docstore.GuildSettings{
				GuildID: guildID,
				Prefix:  defaultPrefix,
			})
			return
		}
		h.storeFailed(w, "get guild settings", guildID, err)
		return
	}
	_ = jsonwriter.Write(w, settings)
}

// updateGuildSettingsRequest is the PUT body for base settings
type updateGuildSettingsRequest struct {
	GuildName      string `json:"guildName"`
	Prefix         string `json:"prefix"`
	CurrencySymbol string `json:"currencySymbol"`
	UpdatedBy      string `json:"updatedBy"`
}

// UpdateGuildSettings validates and stores a guild's base settings
func (h *SettingsHandler) UpdateGuildSettings(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	var req updateGuildSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonwriter.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Prefix == "" {
		jsonwriter.WriteBadRequest(w, "Prefix is required")
		return
	}
	if len(req.Prefix) > maxPrefixLen {
		jsonwriter.WriteBadRequest(w, "Prefix must be 5 characters or fewer")
		return
	}
	if strings.ContainsRune(req.Prefix, ' ') {
		jsonwriter.WriteBadRequest(w, "Prefix must not contain spaces")
		return
	}

	now := h.now().UTC()
	settings := &docstore.GuildSettings{
		GuildID:        guildID,
		GuildName:      req.GuildName,
		Prefix:         req.Prefix,
		CurrencySymbol: req.CurrencySymbol,
		UpdatedAt:      now,
		UpdatedBy:      req.UpdatedBy,
	}

	// First write sets createdAt; later writes keep it
	if existing, err := h.store.GetGuildSettings(r.Context(), guildID); err == nil {
		settings.CreatedAt = existing.CreatedAt
	} else if errors.Is(err, docstore.ErrNotFound) {
		settings.CreatedAt = now
	} else {
		h.storeFailed(w, "get guild settings", guildID, err)
		return
	}

	if err := h.store.SetGuildSettings(r.Context(), guildID, settings); err != nil {
		h.storeFailed(w, "set guild settings", guildID, err)
		return
	}
	_ = jsonwriter.Write(w, settings)
}

// GetAutoRole returns a guild's auto-role settings, disabled by default
func (h *SettingsHandler) GetAutoRole(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	settings, err := h.store.GetAutoRole(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			_ = jsonwriter.Write(w, &docstore.AutoRoleSettings{
				Enabled: false,
				RoleIDs: []string{},
			})
			return
		}
		h.storeFailed(w, "get auto-role settings", guildID, err)
		return
	}
	_ = jsonwriter.Write(w, settings)
}

type updateAutoRoleRequest struct {
	Enabled   bool     `json:"enabled"`
	RoleIDs   []string `json:"roleIds"`
	UpdatedBy string   `json:"updatedBy"`
}

// UpdateAutoRole stores a guild's auto-role settings
func (h *SettingsHandler) UpdateAutoRole(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	var req updateAutoRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonwriter.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Enabled && len(req.RoleIDs) == 0 {
		jsonwriter.WriteBadRequest(w, "At least one role is required when auto-role is enabled")
		return
	}

	roleIDs := req.RoleIDs
	if roleIDs == nil {
		roleIDs = []string{}
	}
	settings := &docstore.AutoRoleSettings{
		Enabled:   req.Enabled,
		RoleIDs:   roleIDs,
		UpdatedAt: h.now().UTC(),
		UpdatedBy: req.UpdatedBy,
	}
	if err := h.store.SetAutoRole(r.Context(), guildID, settings); err != nil {
		h.storeFailed(w, "set auto-role settings", guildID, err)
		return
	}
	_ = jsonwriter.Write(w, settings)
}

// GetIncomeShop returns a guild's income shop settings, disabled with
// no roles by default
func (h *SettingsHandler) GetIncomeShop(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	settings, err := h.store.GetIncomeShop(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			_ = jsonwriter.Write(w, &docstore.IncomeShopSettings{
				Enabled: false,
				Roles:   []docstore.IncomeRole{},
			})
			return
		}
		h.storeFailed(w, "get income shop settings", guildID, err)
		return
	}
	_ = jsonwriter.Write(w, settings)
}

type updateIncomeShopRequest struct {
	Enabled   bool                  `json:"enabled"`
	Roles     []docstore.IncomeRole `json:"roles"`
	UpdatedBy string                `json:"updatedBy"`
}

// UpdateIncomeShop validates and stores a guild's income shop settings
func (h *SettingsHandler) UpdateIncomeShop(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	var req updateIncomeShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonwriter.WriteBadRequest(w, "Invalid request body")
		return
	}

	for _, role := range req.Roles {
		if role.RoleID == "" {
			jsonwriter.WriteBadRequest(w, "Shop entries must reference a role")
			return
		}
		if role.Price <= 0 {
			jsonwriter.WriteBadRequest(w, "Shop entry price must be positive")
			return
		}
		if role.Income <= 0 {
			jsonwriter.WriteBadRequest(w, "Shop entry income must be positive")
			return
		}
	}

	roles := req.Roles
	if roles == nil {
		roles = []docstore.IncomeRole{}
	}
	settings := &docstore.IncomeShopSettings{
		Enabled:   req.Enabled,
		Roles:     roles,
		UpdatedAt: h.now().UTC(),
		UpdatedBy: req.UpdatedBy,
	}
	if err := h.store.SetIncomeShop(r.Context(), guildID, settings); err != nil {
		h.storeFailed(w, "set income shop settings", guildID, err)
		return
	}
	_ = jsonwriter.Write(w, settings)
}

// LeaderboardHandler serves a guild's currency leaderboard
func (h *SettingsHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")

	entries, err := h.leaderboard.Fetch(r.Context(), guildID)
	if err != nil {
		h.storeFailed(w, "fetch leaderboard", guildID, err)
		return
	}
	_ = jsonwriter.Write(w, map[string]any{"leaderboard": entries})
}

func (h *SettingsHandler) storeFailed(w http.ResponseWriter, operation, guildID string, err error) {
	log.LogErrorWithFields("settings", "Document store operation failed", map[string]any{
		"operation": operation,
		"guild_id":  guildID,
		"error":     err.Error(),
	})
	jsonwriter.WriteInternalServerError(w, "Internal Server Error")
}
