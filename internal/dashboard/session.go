package dashboard

import (
	"context"
	"html/template"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/notifications"
	"github.com/ziadkadry99/guilddash/internal/refresh"
	"github.com/ziadkadry99/guilddash/internal/render"
	"github.com/ziadkadry99/guilddash/internal/toggle"
)

// Backend is the subset of the API client the dashboard uses.
type Backend interface {
	Guilds(ctx context.Context) ([]api.Guild, error)
	refresh.Fetcher
	toggle.Toggler
}

// Session is the live dashboard of one guild: its containers, the
// scheduler that keeps them fresh, its toggles and its websocket clients.
type Session struct {
	GuildID string

	board     *render.Board
	hub       *Hub
	scheduler *refresh.Scheduler
	toggles   *toggle.Controller

	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	unsubscribe func()

	// lastSeen is the unix-nano time of the last request or connected viewer.
	lastSeen atomic.Int64
}

// Toggle runs a feature toggle transition.
func (s *Session) Toggle(ctx context.Context, feature api.Feature, enabled bool) toggle.Transition {
	return s.toggles.Toggle(ctx, feature, enabled)
}

// RefreshAll forces a full pass outside the regular interval.
func (s *Session) RefreshAll(ctx context.Context) map[string]refresh.Outcome {
	return s.scheduler.RefreshAll(ctx)
}

// Fragments returns the current page content keyed by container id.
// Toggle switches are part of welcome-data and are not listed separately.
func (s *Session) Fragments() map[string]template.HTML {
	out := make(map[string]template.HTML)
	for _, id := range pageIDs() {
		out[id] = s.board.HTML(id)
	}
	return out
}

func (s *Session) hello() []any {
	var msgs []any
	for _, id := range pageIDs() {
		html := s.board.HTML(id)
		if html == "" {
			continue
		}
		msgs = append(msgs, fragmentMessage{Type: msgFragment, Container: id, HTML: string(html)})
	}
	return msgs
}

func (s *Session) handleMessage(msg clientMessage) any {
	switch msg.Type {
	case "refresh":
		go s.scheduler.RefreshAll(s.ctx)
		return nil
	default:
		return errorMessage{Type: msgError, Message: "unknown message type: " + msg.Type}
	}
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// idle reports whether the session has had no viewer and no request for d.
func (s *Session) idle(now time.Time, d time.Duration) bool {
	if s.hub.Len() > 0 {
		s.touch(now)
		return false
	}
	return now.Sub(time.Unix(0, s.lastSeen.Load())) >= d
}

func (s *Session) close() {
	s.cancel()
	<-s.done
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.hub.Close()
}

// broadcastNotifier delivers notifications straight to the session's
// clients when no dispatcher is configured.
type broadcastNotifier struct{ hub *Hub }

func (b broadcastNotifier) Dispatch(ctx context.Context, n notifications.Notification) (notifications.Notification, error) {
	b.hub.Broadcast(notificationFor(n))
	return n, nil
}

func notificationFor(n notifications.Notification) notificationMessage {
	return notificationMessage{
		Type:    msgNotification,
		Level:   string(n.Level),
		Title:   n.Title,
		Message: n.Message,
	}
}

// pageIDs lists the top-level containers of the dashboard page.
func pageIDs() []string {
	var ids []string
	for _, id := range render.DashboardIDs() {
		if id == render.ToggleID(api.FeatureWelcome) || id == render.ToggleID(api.FeatureLeave) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// DefaultIdleTimeout is how long a session without viewers or requests
// keeps polling before it is stopped.
const DefaultIdleTimeout = 5 * time.Minute

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Backend    Backend
	Dispatcher *notifications.Dispatcher
	Interval   time.Duration
	Now        func() time.Time
	// IdleTimeout defaults to DefaultIdleTimeout.
	IdleTimeout time.Duration
}

// Manager lazily starts one Session per guild, stops sessions nobody has
// looked at for IdleTimeout and stops them all on Close.
type Manager struct {
	opts ManagerOptions

	ctx        context.Context
	cancel     context.CancelFunc
	reaperDone chan struct{}

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewManager creates a Manager whose sessions live until ctx ends or Close
// is called.
func NewManager(ctx context.Context, opts ManagerOptions) *Manager {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	ctx, cancel := context.WithCancel(ctx)
	m := &Manager{
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		reaperDone: make(chan struct{}),
		sessions:   make(map[string]*Session),
	}
	go m.reap()
	return m
}

// Session returns the session of guildID, starting it on first use and
// again after it was stopped for being idle. It returns nil after Close.
func (m *Manager) Session(guildID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	s, ok := m.sessions[guildID]
	if !ok {
		s = m.start(guildID)
		m.sessions[guildID] = s
	}
	s.touch(time.Now())
	return s
}

// Guilds returns the ids of the running sessions, sorted.
func (m *Manager) Guilds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops every session and waits for their schedulers to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	sessions := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()

	m.cancel()
	<-m.reaperDone
	for _, s := range sessions {
		s.close()
	}
}

// reap stops idle sessions until the manager's context ends.
func (m *Manager) reap() {
	defer close(m.reaperDone)

	ticker := time.NewTicker(m.opts.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			for _, s := range m.takeIdle(now) {
				s.close()
				log.Printf("dashboard: stopped idle session for guild %s", s.GuildID)
			}
		}
	}
}

func (m *Manager) takeIdle(now time.Time) []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	var idle []*Session
	for id, s := range m.sessions {
		if s.idle(now, m.opts.IdleTimeout) {
			delete(m.sessions, id)
			idle = append(idle, s)
		}
	}
	return idle
}

func (m *Manager) start(guildID string) *Session {
	ctx, cancel := context.WithCancel(m.ctx)
	hub := NewHub()
	board := render.NewBoard(render.DashboardIDs(), func(id string, html template.HTML) {
		hub.Broadcast(fragmentMessage{Type: msgFragment, Container: id, HTML: string(html)})
	})

	s := &Session{
		GuildID: guildID,
		board:   board,
		hub:     hub,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	s.scheduler = refresh.New(refresh.Options{
		GuildID:    guildID,
		Fetcher:    m.opts.Backend,
		Containers: board,
		Interval:   m.opts.Interval,
		Now:        m.opts.Now,
	})

	var notifier toggle.Notifier = broadcastNotifier{hub: hub}
	if m.opts.Dispatcher != nil {
		notifier = m.opts.Dispatcher
		s.unsubscribe = m.opts.Dispatcher.Subscribe(guildID, func(n notifications.Notification) {
			hub.Broadcast(notificationFor(n))
		})
	}
	s.toggles = toggle.New(guildID, m.opts.Backend, s.scheduler, board, notifier)

	go func() {
		defer close(s.done)
		if err := s.scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("dashboard: guild %s scheduler: %v", guildID, err)
		}
	}()
	log.Printf("dashboard: started session for guild %s (every %s)", guildID, s.scheduler.Interval())
	return s
}
