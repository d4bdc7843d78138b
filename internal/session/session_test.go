package session

import (
	"testing"

	"github.com/dysebot/dashboard/internal/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCallback(t *testing.T) {
	prior := State{Session: Session{
		User:        &discord.User{ID: "old", Username: "before"},
		Guilds:      []discord.Guild{{ID: "g-old"}},
		AccessToken: "token-old",
	}}

	next := ApplyCallback(prior, "token-new",
		`{"id":"42","username":"tester","discriminator":"0001","avatar":"a"}`,
		`[{"id":"g1","name":"Guild One"}]`)

	require.Empty(t, next.Error)
	require.NotNil(t, next.Session.User)
	assert.Equal(t, "42", next.Session.User.ID)
	assert.Equal(t, "token-new", next.Session.AccessToken)
	require.Len(t, next.Session.Guilds, 1)
	assert.Equal(t, "g1", next.Session.Guilds[0].ID)

	// prior value untouched
	assert.Equal(t, "old", prior.Session.User.ID)
}

func TestApplyCallback_MalformedUser(t *testing.T) {
	prior := State{Session: Session{
		User:        &discord.User{ID: "old"},
		AccessToken: "token-old",
	}}

	next := ApplyCallback(prior, "token-new", "{not json", `[]`)

	assert.NotEmpty(t, next.Error)
	assert.Equal(t, prior.Session, next.Session)
}

func TestApplyCallback_MalformedGuilds(t *testing.T) {
	next := ApplyCallback(State{}, "t", `{"id":"42"}`, "oops")

	assert.NotEmpty(t, next.Error)
	assert.Nil(t, next.Session.User)
}

func TestClear(t *testing.T) {
	populated := State{
		Session: Session{
			User:        &discord.User{ID: "42"},
			Guilds:      []discord.Guild{{ID: "g1"}},
			AccessToken: "token",
		},
		Error: "stale",
	}

	cleared := Clear(populated)

	assert.Nil(t, cleared.Session.User)
	assert.Empty(t, cleared.Session.AccessToken)
	assert.Empty(t, cleared.Session.Guilds)
	assert.Empty(t, cleared.Error)
	assert.False(t, cleared.Session.Valid())
}

func TestSessionValid(t *testing.T) {
	assert.False(t, Session{}.Valid())
	assert.False(t, Session{User: &discord.User{ID: "1"}}.Valid())
	assert.False(t, Session{AccessToken: "t"}.Valid())
	assert.True(t, Session{User: &discord.User{ID: "1"}, AccessToken: "t"}.Valid())
}
