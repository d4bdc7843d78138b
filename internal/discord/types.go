package discord

// User is a Discord user profile as returned by /users/@me. Only the
// fields the dashboard consumes are kept; provider-internal fields are
// dropped at decode time.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	Email         string `json:"email,omitempty"`
}

// Guild is a Discord server from the caller's perspective. Permissions
// is the stringified permission bitfield Discord's v10 API returns.
type Guild struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Owner       bool     `json:"owner"`
	Permissions string   `json:"permissions"`
	Features    []string `json:"features"`
}

// Role is the public role shape exposed to the dashboard
type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    int    `json:"color"`
	Position int    `json:"position"`
}
