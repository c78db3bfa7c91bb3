package api

// Guild is one entry of the guild-selection list.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	MemberCount int    `json:"member_count"`
}

// IconURL returns the Discord CDN URL for the guild icon, or "" when the
// guild has none.
func (g Guild) IconURL() string {
	if g.Icon == "" {
		return ""
	}
	return "https://cdn.discordapp.com/icons/" + g.ID + "/" + g.Icon + ".png"
}

// guildsResponse is the body of GET /api/guilds.
type guildsResponse struct {
	Guilds []Guild `json:"guilds"`
}

// GuildStats is the body of GET /api/stats/{guildId}.
type GuildStats struct {
	MemberCount  int `json:"member_count"`
	ChannelCount int `json:"channel_count"`
	RoleCount    int `json:"role_count"`
	TextChannels int `json:"text_channels"`
}

// Feature is a toggleable guild feature.
type Feature string

const (
	FeatureWelcome Feature = "welcome"
	FeatureLeave   Feature = "leave"
)

// Valid reports whether f is a known feature.
func (f Feature) Valid() bool {
	return f == FeatureWelcome || f == FeatureLeave
}

// toggleRequest is the POST body of the toggle endpoint.
type toggleRequest struct {
	Type    Feature `json:"type"`
	Enabled bool    `json:"enabled"`
}

// ToggleResult is the backend's answer to a toggle request.
type ToggleResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
