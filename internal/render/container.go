package render

import (
	"html/template"
	"sync"

	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/category"
)

// Container ids of the guild-selection and dashboard pages.
const (
	IDLoading     = "loading"
	IDNoGuilds    = "no-guilds"
	IDGuilds      = "guilds"
	IDError       = "error"
	IDMemberCount = "member-count"
)

var categoryIDs = map[category.Category]string{
	category.Levels:     "levels-data",
	category.Daily:      "daily-data",
	category.Welcome:    "welcome-data",
	category.Birthdays:  "birthday-data",
	category.GameStats:  "game-data",
	category.Statistics: "statistics-data",
}

// ContainerID returns the id of the container a category renders into.
func ContainerID(cat category.Category) string {
	return categoryIDs[cat]
}

// ToggleID returns the id of a feature's switch, nested in welcome-data.
func ToggleID(f api.Feature) string {
	return "toggle-" + string(f)
}

// DashboardIDs lists every container of the dashboard page.
func DashboardIDs() []string {
	ids := []string{IDMemberCount}
	for _, c := range category.All() {
		ids = append(ids, ContainerID(c))
	}
	return append(ids, ToggleID(api.FeatureWelcome), ToggleID(api.FeatureLeave))
}

// Container is a named display region whose content is replaced wholesale.
type Container interface {
	ID() string
	Replace(html template.HTML)
}

// ReplaceHook observes every replacement made through a Board.
type ReplaceHook func(id string, html template.HTML)

// Board is a fixed set of containers, the server-side mirror of one page.
type Board struct {
	slots map[string]*slot
	hook  ReplaceHook
}

// NewBoard creates a board with the given container ids. hook may be nil;
// it runs under the container's lock and must not block.
func NewBoard(ids []string, hook ReplaceHook) *Board {
	b := &Board{slots: make(map[string]*slot, len(ids)), hook: hook}
	for _, id := range ids {
		b.slots[id] = &slot{id: id, board: b}
	}
	return b
}

// Container returns the container with the given id. Unknown ids get a
// container that discards writes, like writing to a missing element.
func (b *Board) Container(id string) Container {
	if s, ok := b.slots[id]; ok {
		return s
	}
	return discard(id)
}

// HTML returns the current content of a container.
func (b *Board) HTML(id string) template.HTML {
	s, ok := b.slots[id]
	if !ok {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

// Snapshot returns the current content of every container.
func (b *Board) Snapshot() map[string]template.HTML {
	out := make(map[string]template.HTML, len(b.slots))
	for id, s := range b.slots {
		s.mu.Lock()
		out[id] = s.html
		s.mu.Unlock()
	}
	return out
}

type slot struct {
	id    string
	board *Board
	mu    sync.Mutex
	html  template.HTML
}

func (s *slot) ID() string { return s.id }

func (s *slot) Replace(html template.HTML) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = html
	if s.board.hook != nil {
		s.board.hook(s.id, html)
	}
}

type discard string

func (d discard) ID() string          { return string(d) }
func (discard) Replace(template.HTML) {}
