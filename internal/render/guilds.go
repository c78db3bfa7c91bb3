package render

import (
	"html/template"

	"github.com/ziadkadry99/guilddash/internal/api"
)

// GuildView is the rendered state of the guild-selection page.
type GuildView struct {
	ShowLoading bool
	ShowEmpty   bool
	ShowGuilds  bool
	ShowError   bool
	Error       string
	Guilds      template.HTML
}

// Guilds renders the outcome of loading the guild list. On failure the
// loading indicator is hidden and the error panel carries the reason.
func Guilds(guilds []api.Guild, err error) GuildView {
	if err != nil {
		return GuildView{ShowError: true, Error: "Failed to load servers: " + api.Reason(err)}
	}
	if len(guilds) == 0 {
		return GuildView{ShowEmpty: true}
	}
	html, execErr := execute("guilds", guilds)
	if execErr != nil {
		return GuildView{ShowError: true, Error: "Failed to display servers: " + execErr.Error()}
	}
	return GuildView{ShowGuilds: true, Guilds: html}
}
