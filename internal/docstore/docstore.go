package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document doesn't exist
var ErrNotFound = errors.New("document not found")

// GuildSettings is the per-server bot configuration document
type GuildSettings struct {
	GuildID        string    `json:"guildId"`
	GuildName      string    `json:"guildName"`
	Prefix         string    `json:"prefix"`
	CurrencySymbol string    `json:"currencySymbol"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	UpdatedBy      string    `json:"updatedBy,omitempty"`
}

// AutoRoleSettings configures automatic role assignment for new members
type AutoRoleSettings struct {
	Enabled   bool      `json:"enabled"`
	RoleIDs   []string  `json:"roleIds"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// IncomeRole is one purchasable entry in the income shop
type IncomeRole struct {
	ID       string `json:"id"`
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
	Price    int64  `json:"price"`
	Income   int64  `json:"income"`
}

// IncomeShopSettings configures the purchasable income-role shop
type IncomeShopSettings struct {
	Enabled   bool         `json:"enabled"`
	Roles     []IncomeRole `json:"roles"`
	UpdatedAt time.Time    `json:"updatedAt"`
	UpdatedBy string       `json:"updatedBy,omitempty"`
}

// MemberBalance is a guild member's currency holdings
type MemberBalance struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
	Bank    int64  `json:"bank"`
}

// Store is the document store backing the dashboard. The layout
// mirrors the bot's collections: servers/{guildId} with a settings
// subcollection and a users subcollection, plus a top-level users
// collection for usernames.
type Store interface {
	GetGuildSettings(ctx context.Context, guildID string) (*GuildSettings, error)
	SetGuildSettings(ctx context.Context, guildID string, settings *GuildSettings) error

	GetAutoRole(ctx context.Context, guildID string) (*AutoRoleSettings, error)
	SetAutoRole(ctx context.Context, guildID string, settings *AutoRoleSettings) error

	GetIncomeShop(ctx context.Context, guildID string) (*IncomeShopSettings, error)
	SetIncomeShop(ctx context.Context, guildID string, settings *IncomeShopSettings) error

	ListMemberBalances(ctx context.Context, guildID string) ([]MemberBalance, error)
	GetUsername(ctx context.Context, userID string) (string, error)

	Close() error
}
