package aggregate

import (
	"sort"

	"github.com/ziadkadry99/guilddash/internal/category"
)

// topUsers is how many users LevelsSummary.Top holds.
const topUsers = 5

// LevelsSummary totals the XP system.
type LevelsSummary struct {
	Users         int         `json:"users"`
	TotalXP       int64       `json:"total_xp"`
	TotalMessages int64       `json:"total_messages"`
	Top           []UserLevel `json:"top"`
}

// UserLevel is one entry of the XP leaderboard.
type UserLevel struct {
	UserID string `json:"user_id"`
	XP     int64  `json:"xp"`
	Level  int64  `json:"level"`
}

func (LevelsSummary) Category() category.Category { return category.Levels }
func (LevelsSummary) IsEmpty() bool               { return false }

// Levels sums xp and messages over every user.
func Levels(resp *category.Response) Summary {
	if resp.Empty() {
		return Empty{Of: category.Levels}
	}

	s := LevelsSummary{Users: resp.Len()}
	var ranked []UserLevel
	resp.Each(func(id string, rec category.Record) {
		xp := rec.Int("xp")
		s.TotalXP += xp
		s.TotalMessages += rec.Int("messages")
		ranked = append(ranked, UserLevel{UserID: id, XP: xp, Level: rec.Int("level")})
	})

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].XP > ranked[j].XP })
	if len(ranked) > topUsers {
		ranked = ranked[:topUsers]
	}
	s.Top = ranked
	return s
}
