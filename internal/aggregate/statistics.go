package aggregate

import (
	"time"

	"github.com/ziadkadry99/guilddash/internal/category"
)

// StatisticsSummary describes guild message activity.
type StatisticsSummary struct {
	TotalMessages int64  `json:"total_messages"`
	Today         int64  `json:"today"`
	TopChannel    string `json:"top_channel,omitempty"`
	TopChannelID  string `json:"top_channel_id,omitempty"`
	TopMessages   int64  `json:"top_channel_messages"`
	HasTopChannel bool   `json:"has_top_channel"`
	PeakHour      string `json:"peak_hour,omitempty"`
	PeakCount     int64  `json:"peak_hour_count"`
	HasPeakHour   bool   `json:"has_peak_hour"`
	ActiveUsers   int    `json:"active_users"`
}

func (StatisticsSummary) Category() category.Category { return category.Statistics }
func (StatisticsSummary) IsEmpty() bool               { return false }

// Statistics reads the activity counters. Today's count is keyed by the UTC
// calendar date (YYYY-MM-DD), which is how the bot writes daily_messages.
// Both argmax selections keep the first entry on ties.
func Statistics(resp *category.Response, now time.Time) Summary {
	if resp.Empty() {
		return Empty{Of: category.Statistics}
	}

	root := resp.Root()
	s := StatisticsSummary{
		TotalMessages: root.Int("total_messages"),
		ActiveUsers:   root.Object("user_stats").Len(),
	}

	today := now.UTC().Format(time.DateOnly)
	s.Today = root.Object("daily_messages").Int(today)

	root.Object("channel_stats").Each(func(id string, ch category.Record) {
		n := ch.Int("messages")
		if !s.HasTopChannel || n > s.TopMessages {
			s.HasTopChannel = true
			s.TopMessages = n
			s.TopChannelID = id
			s.TopChannel = ch.String("name")
			if s.TopChannel == "" {
				s.TopChannel = id
			}
		}
	})

	root.Object("hourly_activity").EachNumber(func(hour string, count float64) {
		n := int64(count)
		if !s.HasPeakHour || n > s.PeakCount {
			s.HasPeakHour = true
			s.PeakCount = n
			s.PeakHour = hour
		}
	})

	return s
}
