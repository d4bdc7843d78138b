package discord

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// maxGuildPage is Discord's page size for guild listings. Accounts in
// more guilds than this are not paginated here; a known limitation
// carried over from the dashboard this replaces.
const maxGuildPage = 200

// FetchBotGuilds fetches the guilds the bot account belongs to
func (c *Client) FetchBotGuilds(ctx context.Context) ([]Guild, error) {
	botGuilds, err := c.bot.UserGuilds(maxGuildPage, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, botError("bot guilds", err)
	}

	guilds := make([]Guild, 0, len(botGuilds))
	for _, g := range botGuilds {
		features := make([]string, len(g.Features))
		for i, f := range g.Features {
			features[i] = string(f)
		}
		guilds = append(guilds, Guild{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.Icon,
			Owner:       g.Owner,
			Permissions: strconv.FormatInt(g.Permissions, 10),
			Features:    features,
		})
	}
	return guilds, nil
}

// FetchGuildRoles fetches a guild's roles using the bot credential.
// The default @everyone role is dropped and the rest are ordered by
// descending position, highest role first; ties keep Discord's
// response order.
func (c *Client) FetchGuildRoles(ctx context.Context, guildID string) ([]Role, error) {
	guildRoles, err := c.bot.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, botError("guild roles", err)
	}

	roles := make([]Role, 0, len(guildRoles))
	for _, r := range guildRoles {
		if r.Name == "@everyone" {
			continue
		}
		roles = append(roles, Role{
			ID:       r.ID,
			Name:     r.Name,
			Color:    r.Color,
			Position: r.Position,
		})
	}

	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Position > roles[j].Position
	})
	return roles, nil
}

func botError(operation string, err error) error {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Response != nil {
		return &UpstreamError{Operation: operation, StatusCode: rerr.Response.StatusCode, Err: err}
	}
	return &UpstreamError{Operation: operation, Err: err}
}
