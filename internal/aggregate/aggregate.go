// Package aggregate reduces raw per-entity category data into the summaries
// shown on the dashboard. Every function here is pure: the result depends
// only on the response passed in and, for date-relative categories, on now.
package aggregate

import (
	"time"

	"github.com/ziadkadry99/guilddash/internal/category"
)

// Summary is the derived result for one category.
type Summary interface {
	Category() category.Category
	IsEmpty() bool
}

// Empty marks a category that has no data yet.
type Empty struct {
	Of category.Category `json:"category"`
}

func (e Empty) Category() category.Category { return e.Of }
func (Empty) IsEmpty() bool                  { return true }

// Aggregate dispatches to the reducer for cat.
func Aggregate(cat category.Category, resp *category.Response, now time.Time) Summary {
	switch cat {
	case category.Levels:
		return Levels(resp)
	case category.Daily:
		return Daily(resp)
	case category.Welcome:
		return Welcome(resp)
	case category.Birthdays:
		return Birthdays(resp, now)
	case category.GameStats:
		return GameStats(resp)
	case category.Statistics:
		return Statistics(resp, now)
	default:
		return Empty{Of: cat}
	}
}

// rate returns part/whole as a percentage, or 0 when whole is zero.
func rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
