package notifications

import "time"

// Level indicates how a notification is presented.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelSuccess, LevelError, LevelInfo:
		return true
	}
	return false
}

// Notification is a single transient dashboard message, kept as history.
type Notification struct {
	ID        string    `json:"id"`
	GuildID   string    `json:"guild_id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// webhookPayload is the body of a Discord-style webhook message.
type webhookPayload struct {
	Content string `json:"content"`
}
