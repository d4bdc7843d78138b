package session

import (
	"encoding/json"

	"github.com/dysebot/dashboard/internal/discord"
)

// Session ties an authenticated user to their filtered guild list and
// access token. The three fields are set together at callback time or
// not at all; a partially populated session is never a rest state.
type Session struct {
	User        *discord.User
	Guilds      []discord.Guild
	AccessToken string
}

// Valid reports whether the session is fully populated
func (s Session) Valid() bool {
	return s.User != nil && s.AccessToken != ""
}

// State is the authentication state the rest of the application reads.
// It is an immutable value: transitions return a new State instead of
// mutating in place.
type State struct {
	Session Session
	Loading bool
	Error   string
}

// ApplyCallback builds the next state from OAuth callback parameters.
// token is the access token; userJSON and guildsJSON are the JSON
// payloads the gateway embedded in the redirect (already URL-decoded).
// A parse failure records an error and leaves the session unchanged.
func ApplyCallback(s State, token, userJSON, guildsJSON string) State {
	var user discord.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return State{Session: s.Session, Error: "Failed to process authentication data"}
	}

	var guilds []discord.Guild
	if err := json.Unmarshal([]byte(guildsJSON), &guilds); err != nil {
		return State{Session: s.Session, Error: "Failed to process authentication data"}
	}

	return State{
		Session: Session{
			User:        &user,
			Guilds:      guilds,
			AccessToken: token,
		},
	}
}

// Clear returns the logged-out state
func Clear(State) State {
	return State{Session: Session{Guilds: []discord.Guild{}}}
}
