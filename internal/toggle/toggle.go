// Package toggle flips guild features on the backend with an optimistic
// switch that is either confirmed or rolled back.
package toggle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ziadkadry99/guilddash/internal/aggregate"
	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/category"
	"github.com/ziadkadry99/guilddash/internal/notifications"
	"github.com/ziadkadry99/guilddash/internal/refresh"
	"github.com/ziadkadry99/guilddash/internal/render"
)

// ErrUnknownFeature is returned for features other than welcome and leave.
var ErrUnknownFeature = errors.New("unknown feature")

// ErrRejected wraps a success:false answer from the backend.
var ErrRejected = errors.New("rejected by server")

// Phase is the state of a toggle transition.
type Phase int

const (
	// PhasePending means the optimistic switch is shown and the request is in flight.
	PhasePending Phase = iota
	// PhaseConfirmed means the backend accepted the new value.
	PhaseConfirmed
	// PhaseRolledBack means the request failed and the switch was restored.
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Transition describes one toggle request and how it ended.
type Transition struct {
	Feature   api.Feature `json:"feature"`
	Requested bool        `json:"requested"`
	Phase     Phase       `json:"phase"`
	Message   string      `json:"message"`
	Err       error       `json:"-"`
}

// Toggler sends toggle requests to the backend.
type Toggler interface {
	Toggle(ctx context.Context, guildID string, feature api.Feature, enabled bool) (*api.ToggleResult, error)
}

// Refresher re-fetches and re-renders a category and remembers the last
// summary it rendered.
type Refresher interface {
	Refresh(ctx context.Context, cat category.Category) refresh.Outcome
	Last(cat category.Category) (aggregate.Summary, bool)
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Dispatch(ctx context.Context, n notifications.Notification) (notifications.Notification, error)
}

// Controller runs toggle transitions for one guild.
type Controller struct {
	guildID    string
	toggler    Toggler
	refresher  Refresher
	containers refresh.Containers
	notifier   Notifier

	locks map[api.Feature]*sync.Mutex
}

// New creates a Controller. notifier may be nil.
func New(guildID string, toggler Toggler, refresher Refresher, containers refresh.Containers, notifier Notifier) *Controller {
	return &Controller{
		guildID:    guildID,
		toggler:    toggler,
		refresher:  refresher,
		containers: containers,
		notifier:   notifier,
		locks: map[api.Feature]*sync.Mutex{
			api.FeatureWelcome: {},
			api.FeatureLeave:   {},
		},
	}
}

// Toggle requests enabled for feature. The switch shows the requested value
// while the request is pending and the previous value if it fails. Either
// way the welcome settings are re-fetched and a notification is sent.
func (c *Controller) Toggle(ctx context.Context, feature api.Feature, enabled bool) Transition {
	t := Transition{Feature: feature, Requested: enabled, Phase: PhasePending}
	if !feature.Valid() {
		t.Phase = PhaseRolledBack
		t.Err = fmt.Errorf("%w %q", ErrUnknownFeature, feature)
		t.Message = t.Err.Error()
		return t
	}

	mu := c.locks[feature]
	mu.Lock()
	defer mu.Unlock()

	target := c.containers.Container(render.ToggleID(feature))
	c.show(target, render.ToggleView{Feature: feature, Enabled: enabled, Pending: true})

	result, err := c.toggler.Toggle(ctx, c.guildID, feature, enabled)
	if err == nil && !result.Success {
		err = rejection(result)
	}

	if err != nil {
		t.Phase = PhaseRolledBack
		t.Err = err
		t.Message = fmt.Sprintf("Failed to update %s messages: %s", feature, api.Reason(err))
		c.show(target, render.ToggleView{Feature: feature, Enabled: c.current(feature, !enabled)})
		log.Printf("toggle: guild %s %s: %v", c.guildID, feature, err)
	} else {
		t.Phase = PhaseConfirmed
		t.Message = confirmation(feature, enabled)
		c.show(target, render.ToggleView{Feature: feature, Enabled: enabled})
	}

	if c.refresher != nil {
		c.refresher.Refresh(ctx, category.Welcome)
	}
	c.notify(ctx, t)
	return t
}

// current returns the last rendered server value of feature, or fallback
// when the welcome settings were never loaded.
func (c *Controller) current(feature api.Feature, fallback bool) bool {
	if c.refresher == nil {
		return fallback
	}
	sum, ok := c.refresher.Last(category.Welcome)
	if !ok {
		return fallback
	}
	if sum.IsEmpty() {
		return false
	}
	w, ok := sum.(aggregate.WelcomeSummary)
	if !ok {
		return fallback
	}
	return w.Feature(feature).Enabled
}

func (c *Controller) show(target render.Container, v render.ToggleView) {
	if err := render.Toggle(target, v); err != nil {
		log.Printf("toggle: render %s: %v", v.Feature, err)
	}
}

func (c *Controller) notify(ctx context.Context, t Transition) {
	if c.notifier == nil {
		return
	}
	level := notifications.LevelSuccess
	if t.Phase == PhaseRolledBack {
		level = notifications.LevelError
	}
	_, err := c.notifier.Dispatch(ctx, notifications.Notification{
		GuildID: c.guildID,
		Level:   level,
		Title:   title(t.Feature),
		Message: t.Message,
	})
	if err != nil {
		log.Printf("toggle: notify guild %s: %v", c.guildID, err)
	}
}

// rejectedError is a success:false answer carrying the server's reason.
type rejectedError struct{ reason string }

func (e *rejectedError) Error() string        { return e.reason }
func (e *rejectedError) Is(target error) bool { return target == ErrRejected }

func rejection(result *api.ToggleResult) error {
	reason := result.Error
	if reason == "" {
		reason = result.Message
	}
	if reason == "" {
		return ErrRejected
	}
	return &rejectedError{reason: reason}
}

func title(f api.Feature) string {
	s := string(f)
	if s == "" {
		return "Messages"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " messages"
}

func confirmation(f api.Feature, enabled bool) string {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return title(f) + " " + state
}
