package aggregate

import (
	"time"

	"github.com/ziadkadry99/guilddash/internal/category"
)

// BirthdaySummary counts registered birthdays.
type BirthdaySummary struct {
	Total     int        `json:"total"`
	ThisMonth int        `json:"this_month"`
	Month     time.Month `json:"month"`
}

func (BirthdaySummary) Category() category.Category { return category.Birthdays }
func (BirthdaySummary) IsEmpty() bool               { return false }

// Birthdays counts records and those falling in now's calendar month. The
// month is taken in now's location, so callers pass local time.
func Birthdays(resp *category.Response, now time.Time) Summary {
	if resp.Empty() {
		return Empty{Of: category.Birthdays}
	}

	month := now.Month()
	s := BirthdaySummary{Total: resp.Len(), Month: month}
	resp.Each(func(_ string, rec category.Record) {
		if rec.Int("month") == int64(month) {
			s.ThisMonth++
		}
	})
	return s
}
