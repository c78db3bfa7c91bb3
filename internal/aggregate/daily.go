package aggregate

import "github.com/ziadkadry99/guilddash/internal/category"

// DailySummary totals the daily check-in system.
type DailySummary struct {
	Users         int   `json:"users"`
	TotalCheckins int64 `json:"total_checkins"`
	TotalPoints   int64 `json:"total_points"`
}

func (DailySummary) Category() category.Category { return category.Daily }
func (DailySummary) IsEmpty() bool               { return false }

// Daily sums check-ins and points over every user.
func Daily(resp *category.Response) Summary {
	if resp.Empty() {
		return Empty{Of: category.Daily}
	}

	s := DailySummary{Users: resp.Len()}
	resp.Each(func(_ string, rec category.Record) {
		s.TotalCheckins += rec.Int("total_checkins")
		s.TotalPoints += rec.Int("total_points")
	})
	return s
}
