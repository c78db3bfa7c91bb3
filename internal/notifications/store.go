package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/guilddash/internal/db"
)

// timeLayout matches the created_at column format.
const timeLayout = "2006-01-02 15:04:05.000"

// ListFilter controls which notifications are returned by List.
type ListFilter struct {
	GuildID string
	Level   Level
	Since   time.Time
	Limit   int
}

// Store persists notification history.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a new notification and returns it with its ID and
// timestamp filled in. If n.ID is empty a UUID is generated.
func (s *Store) Create(ctx context.Context, n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	delivered := 0
	if n.Delivered {
		delivered = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, guild_id, level, title, message, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.GuildID, string(n.Level), n.Title, n.Message, delivered,
		n.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return n, fmt.Errorf("inserting notification: %w", err)
	}
	return n, nil
}

// GetByID retrieves a single notification.
func (s *Store) GetByID(ctx context.Context, id string) (*Notification, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, guild_id, level, title, message, delivered, created_at
		FROM notifications WHERE id = ?`, id)

	return scanInto(row)
}

// List returns notifications matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Notification, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.GuildID != "" {
		clauses = append(clauses, "guild_id = ?")
		args = append(args, filter.GuildID)
	}
	if filter.Level != "" {
		clauses = append(clauses, "level = ?")
		args = append(args, string(filter.Level))
	}
	if !filter.Since.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := "SELECT id, guild_id, level, title, message, delivered, created_at FROM notifications"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	result := []Notification{}
	for rows.Next() {
		n, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

// MarkDelivered sets delivered=1 for the given notification.
func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE notifications SET delivered = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking notification delivered: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Notification, error) {
	var (
		n         Notification
		level     string
		delivered int
		ts        string
	)

	err := sc.Scan(&n.ID, &n.GuildID, &level, &n.Title, &n.Message, &delivered, &ts)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notification not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning notification: %w", err)
	}

	n.Level = Level(level)
	n.Delivered = delivered != 0

	if t, parseErr := time.Parse(timeLayout, ts); parseErr == nil {
		n.CreatedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339Nano, ts); parseErr == nil {
		n.CreatedAt = t
	}

	return &n, nil
}
