package docstore

import (
	"context"
	"sort"
	"sync"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore is the in-memory document store used for development and
// tests
type MemoryStore struct {
	mu        sync.RWMutex
	settings  map[string]*GuildSettings
	autoRoles map[string]*AutoRoleSettings
	shops     map[string]*IncomeShopSettings
	balances  map[string]map[string]MemberBalance // guildID -> userID -> balance
	usernames map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings:  make(map[string]*GuildSettings),
		autoRoles: make(map[string]*AutoRoleSettings),
		shops:     make(map[string]*IncomeShopSettings),
		balances:  make(map[string]map[string]MemberBalance),
		usernames: make(map[string]string),
	}
}

func (m *MemoryStore) GetGuildSettings(ctx context.Context, guildID string) (*GuildSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings, ok := m.settings[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *settings
	return &copied, nil
}

func (m *MemoryStore) SetGuildSettings(ctx context.Context, guildID string, settings *GuildSettings) error {
	copied := *settings
	m.mu.Lock()
	m.settings[guildID] = &copied
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetAutoRole(ctx context.Context, guildID string) (*AutoRoleSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings, ok := m.autoRoles[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *settings
	return &copied, nil
}

func (m *MemoryStore) SetAutoRole(ctx context.Context, guildID string, settings *AutoRoleSettings) error {
	copied := *settings
	m.mu.Lock()
	m.autoRoles[guildID] = &copied
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetIncomeShop(ctx context.Context, guildID string) (*IncomeShopSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings, ok := m.shops[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *settings
	return &copied, nil
}

func (m *MemoryStore) SetIncomeShop(ctx context.Context, guildID string, settings *IncomeShopSettings) error {
	copied := *settings
	m.mu.Lock()
	m.shops[guildID] = &copied
	m.mu.Unlock()
	return nil
}

// ListMemberBalances returns a guild's member balances ordered by user
// ID so reads are deterministic
func (m *MemoryStore) ListMemberBalances(ctx context.Context, guildID string) ([]MemberBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := m.balances[guildID]
	balances := make([]MemberBalance, 0, len(members))
	for _, b := range members {
		balances = append(balances, b)
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].UserID < balances[j].UserID
	})
	return balances, nil
}

func (m *MemoryStore) GetUsername(ctx context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	username, ok := m.usernames[userID]
	if !ok {
		return "", ErrNotFound
	}
	return username, nil
}

// SetMemberBalance seeds a member balance; used by tests and local
// development
func (m *MemoryStore) SetMemberBalance(guildID string, balance MemberBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[guildID] == nil {
		m.balances[guildID] = make(map[string]MemberBalance)
	}
	m.balances[guildID][balance.UserID] = balance
}

// SetUsername seeds a username; used by tests and local development
func (m *MemoryStore) SetUsername(userID, username string) {
	m.mu.Lock()
	m.usernames[userID] = username
	m.mu.Unlock()
}

func (m *MemoryStore) Close() error {
	return nil
}
