package leaderboard

import (
	"context"
	"testing"

	"github.com/dysebot/dashboard/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGuild(store *docstore.MemoryStore, guildID string, balances ...docstore.MemberBalance) {
	for _, b := range balances {
		store.SetMemberBalance(guildID, b)
	}
}

func TestFetch_RanksByTotal(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedGuild(store, "g1",
		docstore.MemberBalance{UserID: "poor", Balance: 10, Bank: 0},
		docstore.MemberBalance{UserID: "rich", Balance: 100, Bank: 400},
		docstore.MemberBalance{UserID: "mid", Balance: 50, Bank: 50},
	)
	store.SetUsername("rich", "Richie")
	store.SetUsername("mid", "Middle")
	store.SetUsername("poor", "Pauper")

	svc := NewService(store)
	entries, err := svc.Fetch(context.Background(), "g1")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, []string{"rich", "mid", "poor"},
		[]string{entries[0].UserID, entries[1].UserID, entries[2].UserID})
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, int64(500), entries[0].Total)
	assert.Equal(t, "Richie", entries[0].Username)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestFetch_TotalIsBalancePlusBank(t *testing.T) {
	store := docstore.NewMemoryStore()
	// bank-heavy member outranks a cash-heavy one
	seedGuild(store, "g1",
		docstore.MemberBalance{UserID: "cash", Balance: 300, Bank: 0},
		docstore.MemberBalance{UserID: "saver", Balance: 1, Bank: 500},
	)

	svc := NewService(store)
	entries, err := svc.Fetch(context.Background(), "g1")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "saver", entries[0].UserID)
	assert.Equal(t, int64(501), entries[0].Total)
}

func TestFetch_UsernameFallsBackToUserID(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedGuild(store, "g1", docstore.MemberBalance{UserID: "ghost", Balance: 5})

	svc := NewService(store)
	entries, err := svc.Fetch(context.Background(), "g1")
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "ghost", entries[0].Username)
}

func TestFetch_DeltasAgainstPreviousFetch(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedGuild(store, "g1",
		docstore.MemberBalance{UserID: "a", Balance: 300},
		docstore.MemberBalance{UserID: "b", Balance: 200},
		docstore.MemberBalance{UserID: "c", Balance: 100},
	)

	svc := NewService(store)
	ctx := context.Background()

	first, err := svc.Fetch(ctx, "g1")
	require.NoError(t, err)
	for _, e := range first {
		assert.Zero(t, e.Delta)
		assert.False(t, e.New)
	}

	// c overtakes everyone, a drops to last
	store.SetMemberBalance("g1", docstore.MemberBalance{UserID: "c", Balance: 1000})
	store.SetMemberBalance("g1", docstore.MemberBalance{UserID: "a", Balance: 50})

	second, err := svc.Fetch(ctx, "g1")
	require.NoError(t, err)

	require.Len(t, second, 3)
	assert.Equal(t, "c", second[0].UserID)
	assert.Equal(t, 2, second[0].Delta) // climbed from 3rd to 1st
	assert.Equal(t, "b", second[1].UserID)
	assert.Equal(t, 0, second[1].Delta)
	assert.Equal(t, "a", second[2].UserID)
	assert.Equal(t, -2, second[2].Delta)
}

func TestFetch_NewEntrantHasNoDelta(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedGuild(store, "g1", docstore.MemberBalance{UserID: "a", Balance: 100})

	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Fetch(ctx, "g1")
	require.NoError(t, err)

	store.SetMemberBalance("g1", docstore.MemberBalance{UserID: "fresh", Balance: 500})

	entries, err := svc.Fetch(ctx, "g1")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "fresh", entries[0].UserID)
	assert.Zero(t, entries[0].Delta)
	assert.True(t, entries[0].New)
	assert.Equal(t, -1, entries[1].Delta)
}

func TestFetch_SnapshotsAreIsolatedPerGuild(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedGuild(store, "g1", docstore.MemberBalance{UserID: "a", Balance: 100})
	seedGuild(store, "g2", docstore.MemberBalance{UserID: "a", Balance: 100})

	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Fetch(ctx, "g1")
	require.NoError(t, err)

	// first fetch for g2 has no previous snapshot, even though g1 does
	entries, err := svc.Fetch(ctx, "g2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].New)
	assert.Zero(t, entries[0].Delta)
}

func TestFetch_EmptyGuild(t *testing.T) {
	svc := NewService(docstore.NewMemoryStore())

	entries, err := svc.Fetch(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
