package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// Subscriber receives every notification dispatched for its guild.
type Subscriber func(Notification)

// Dispatcher records notifications, fans them out to live subscribers and
// optionally forwards them to a webhook.
type Dispatcher struct {
	store      *Store
	client     *http.Client
	webhookURL string

	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	guildID string
	fn      Subscriber
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWebhook forwards every notification to a Discord-compatible webhook.
func WithWebhook(url string) DispatcherOption {
	return func(d *Dispatcher) { d.webhookURL = url }
}

// WithHTTPClient replaces the client used for webhook delivery.
func WithHTTPClient(c *http.Client) DispatcherOption {
	return func(d *Dispatcher) { d.client = c }
}

// NewDispatcher creates a Dispatcher backed by the given store.
func NewDispatcher(store *Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store: store,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		subs: make(map[int]subscription),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe registers fn for notifications of guildID. An empty guildID
// receives every notification. The returned func removes the subscription.
func (d *Dispatcher) Subscribe(guildID string, fn Subscriber) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = subscription{guildID: guildID, fn: fn}
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Dispatch persists a notification, publishes it to live subscribers and,
// when a webhook is configured, delivers it there and marks it delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) (Notification, error) {
	if n.Level != "" && !n.Level.Valid() {
		return n, fmt.Errorf("unknown notification level %q", n.Level)
	}

	n, err := d.store.Create(ctx, n)
	if err != nil {
		return n, fmt.Errorf("creating notification: %w", err)
	}

	d.publish(n)

	if d.webhookURL == "" {
		return n, nil
	}
	if err := d.SendWebhook(ctx, d.webhookURL, n); err != nil {
		log.Printf("notifications: webhook for %s: %v", n.ID, err)
		return n, nil
	}
	if err := d.store.MarkDelivered(ctx, n.ID); err != nil {
		return n, err
	}
	n.Delivered = true
	return n, nil
}

func (d *Dispatcher) publish(n Notification) {
	d.mu.RLock()
	targets := make([]Subscriber, 0, len(d.subs))
	for _, s := range d.subs {
		if s.guildID == "" || s.guildID == n.GuildID {
			targets = append(targets, s.fn)
		}
	}
	d.mu.RUnlock()

	for _, fn := range targets {
		fn(n)
	}
}

// SendWebhook POSTs n to url as a webhook message.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, n Notification) error {
	payload, err := json.Marshal(webhookPayload{Content: webhookContent(n)})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

var levelPrefixes = map[Level]string{
	LevelSuccess: "✅",
	LevelError:   "❌",
	LevelInfo:    "ℹ️",
}

func webhookContent(n Notification) string {
	var b bytes.Buffer
	if p, ok := levelPrefixes[n.Level]; ok {
		b.WriteString(p)
		b.WriteByte(' ')
	}
	if n.Title != "" {
		b.WriteString("**" + n.Title + "**")
		if n.Message != "" {
			b.WriteString("\n")
		}
	}
	b.WriteString(n.Message)
	if n.GuildID != "" {
		b.WriteString("\n-# guild " + n.GuildID)
	}
	return b.String()
}
