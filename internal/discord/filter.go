package discord

// FilterMutual returns the guilds from userGuilds whose ID also appears
// in botGuilds, preserving userGuilds' order. These are the servers the
// dashboard can actually configure: the user is a member and the bot is
// installed.
func FilterMutual(userGuilds, botGuilds []Guild) []Guild {
	botIDs := make(map[string]struct{}, len(botGuilds))
	for _, g := range botGuilds {
		botIDs[g.ID] = struct{}{}
	}

	filtered := make([]Guild, 0, len(userGuilds))
	for _, g := range userGuilds {
		if _, ok := botIDs[g.ID]; ok {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
