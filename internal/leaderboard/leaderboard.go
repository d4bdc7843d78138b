package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dysebot/dashboard/internal/docstore"
	"github.com/dysebot/dashboard/internal/log"
)

// Entry is one row in a guild's economy leaderboard
type Entry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Total    int64  `json:"total"`
	Delta    int    `json:"delta"`
	New      bool   `json:"new,omitempty"`
}

// Service computes guild leaderboards from stored member balances. It
// keeps the previous ranking per guild in memory so consecutive
// fetches can report rank movement.
type Service struct {
	store docstore.Store

	mu   sync.Mutex
	prev map[string][]string // guildID -> user IDs in previous rank order
}

func NewService(store docstore.Store) *Service {
	return &Service{
		store: store,
		prev:  make(map[string][]string),
	}
}

// Fetch builds the current leaderboard for a guild. Members are ranked
// by balance plus bank, descending; ties keep the store's order. Delta
// is the number of positions moved since the previous Fetch for the
// same guild, positive when a member climbed.
func (s *Service) Fetch(ctx context.Context, guildID string) ([]Entry, error) {
	balances, err := s.store.ListMemberBalances(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member balances: %w", err)
	}

	entries := make([]Entry, 0, len(balances))
	for _, b := range balances {
		username, err := s.store.GetUsername(ctx, b.UserID)
		if err != nil {
			if !errors.Is(err, docstore.ErrNotFound) {
				return nil, fmt.Errorf("failed to resolve username: %w", err)
			}
			log.LogWarnWithFields("leaderboard", "Username not found, falling back to user ID", map[string]any{
				"guild_id": guildID,
				"user_id":  b.UserID,
			})
			username = b.UserID
		}
		entries = append(entries, Entry{
			UserID:   b.UserID,
			Username: username,
			Total:    b.Balance + b.Bank,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})

	s.mu.Lock()
	previous := s.prev[guildID]
	prevIndex := make(map[string]int, len(previous))
	for i, userID := range previous {
		prevIndex[userID] = i
	}

	order := make([]string, len(entries))
	for i := range entries {
		entries[i].Rank = i + 1
		order[i] = entries[i].UserID
		if prevIdx, ok := prevIndex[entries[i].UserID]; ok {
			entries[i].Delta = prevIdx - i
		} else {
			entries[i].New = len(previous) > 0
		}
	}
	s.prev[guildID] = order
	s.mu.Unlock()

	return entries, nil
}
