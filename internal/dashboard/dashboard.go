package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Dashboard serves the guild-selection page and the live per-guild
// dashboards.
type Dashboard struct {
	backend  Backend
	sessions *Manager
}

// New creates a new Dashboard.
func New(backend Backend, sessions *Manager) *Dashboard {
	return &Dashboard{
		backend:  backend,
		sessions: sessions,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.handleGuilds)
	r.Route("/dashboard/{guildID}", func(r chi.Router) {
		r.Get("/", d.handleDashboard)
		r.Get("/fragments", d.handleFragments)
		r.Get("/status", d.handleStatus)
		r.Post("/refresh", d.handleRefresh)
		r.Post("/toggle", d.handleToggle)
	})
	r.Get("/ws/dashboard/{guildID}", d.handleWebSocket)
}
