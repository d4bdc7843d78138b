package discord

import (
	"context"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotSession struct {
	guilds    []*discordgo.UserGuild
	guildsErr error
	roles     []*discordgo.Role
	rolesErr  error
}

func (f *fakeBotSession) UserGuilds(limit int, beforeID, afterID string, withCounts bool, options ...discordgo.RequestOption) ([]*discordgo.UserGuild, error) {
	if f.guildsErr != nil {
		return nil, f.guildsErr
	}
	return f.guilds, nil
}

func (f *fakeBotSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	if f.rolesErr != nil {
		return nil, f.rolesErr
	}
	return f.roles, nil
}

func TestFetchBotGuilds(t *testing.T) {
	client := &Client{bot: &fakeBotSession{
		guilds: []*discordgo.UserGuild{
			{ID: "1", Name: "Alpha", Icon: "a", Owner: false, Permissions: 8, Features: []discordgo.GuildFeature{"COMMUNITY"}},
			{ID: "2", Name: "Beta"},
		},
	}}

	guilds, err := client.FetchBotGuilds(context.Background())

	require.NoError(t, err)
	require.Len(t, guilds, 2)
	assert.Equal(t, "1", guilds[0].ID)
	assert.Equal(t, "8", guilds[0].Permissions)
	assert.Equal(t, []string{"COMMUNITY"}, guilds[0].Features)
}

func TestFetchGuildRoles(t *testing.T) {
	client := &Client{bot: &fakeBotSession{
		roles: []*discordgo.Role{
			{ID: "e", Name: "@everyone", Position: 0},
			{ID: "m", Name: "Mod", Position: 5, Color: 0xff0000},
			{ID: "v", Name: "VIP", Position: 2},
		},
	}}

	roles, err := client.FetchGuildRoles(context.Background(), "guild-1")

	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Mod", roles[0].Name)
	assert.Equal(t, 0xff0000, roles[0].Color)
	assert.Equal(t, "VIP", roles[1].Name)
}

func TestFetchGuildRoles_TiesKeepResponseOrder(t *testing.T) {
	client := &Client{bot: &fakeBotSession{
		roles: []*discordgo.Role{
			{ID: "a", Name: "First", Position: 3},
			{ID: "b", Name: "Second", Position: 3},
			{ID: "c", Name: "Top", Position: 7},
		},
	}}

	roles, err := client.FetchGuildRoles(context.Background(), "guild-1")

	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{roles[0].ID, roles[1].ID, roles[2].ID})
}

func TestFetchGuildRoles_RESTErrorCarriesStatus(t *testing.T) {
	client := &Client{bot: &fakeBotSession{
		rolesErr: &discordgo.RESTError{
			Response: &http.Response{StatusCode: http.StatusForbidden},
		},
	}}

	_, err := client.FetchGuildRoles(context.Background(), "guild-1")

	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusForbidden, uerr.StatusCode)
}
