package dashboard

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/refresh"
	"github.com/ziadkadry99/guilddash/internal/render"
	"github.com/ziadkadry99/guilddash/internal/toggle"
)

// toggleRequest is the body of POST /dashboard/{guildID}/toggle.
type toggleRequest struct {
	Type    api.Feature `json:"type"`
	Enabled bool        `json:"enabled"`
}

// refreshResponse is the JSON response for a forced refresh.
type refreshResponse struct {
	GuildID  string                     `json:"guild_id"`
	Outcomes map[string]refresh.Outcome `json:"outcomes"`
}

// statusResponse is the JSON response for the status endpoint.
type statusResponse struct {
	GuildID  string           `json:"guild_id"`
	Interval string           `json:"interval"`
	Clients  int              `json:"clients"`
	Counters refresh.Counters `json:"counters"`
}

// dashboardPage is the data of the dashboard page template.
type dashboardPage struct {
	GuildID   string
	Fragments map[string]template.HTML
}

func (d *Dashboard) handleGuilds(w http.ResponseWriter, r *http.Request) {
	guilds, err := d.backend.Guilds(r.Context())
	view := render.Guilds(guilds, err)
	renderPage(w, "guilds.html", view)
}

func (d *Dashboard) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s := d.session(w, r)
	if s == nil {
		return
	}
	renderPage(w, "dashboard.html", dashboardPage{
		GuildID:   s.GuildID,
		Fragments: s.Fragments(),
	})
}

func (d *Dashboard) handleFragments(w http.ResponseWriter, r *http.Request) {
	s := d.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.Fragments())
}

func (d *Dashboard) handleStatus(w http.ResponseWriter, r *http.Request) {
	s := d.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		GuildID:  s.GuildID,
		Interval: s.scheduler.Interval().String(),
		Clients:  s.hub.Len(),
		Counters: s.scheduler.Counters(),
	})
}

func (d *Dashboard) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s := d.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		GuildID:  s.GuildID,
		Outcomes: s.RefreshAll(r.Context()),
	})
}

func (d *Dashboard) handleToggle(w http.ResponseWriter, r *http.Request) {
	s := d.session(w, r)
	if s == nil {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !req.Type.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type must be welcome or leave"})
		return
	}

	t := s.Toggle(r.Context(), req.Type, req.Enabled)
	status := http.StatusOK
	if t.Phase == toggle.PhaseRolledBack {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, t)
}

// session resolves the guild of the request, writing an error response and
// returning nil when there is none.
func (d *Dashboard) session(w http.ResponseWriter, r *http.Request) *Session {
	guildID := chi.URLParam(r, "guildID")
	if guildID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "guild id is required"})
		return nil
	}
	s := d.sessions.Session(guildID)
	if s == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "dashboard is shutting down"})
		return nil
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
