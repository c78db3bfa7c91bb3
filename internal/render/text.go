package render

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/guilddash/internal/aggregate"
)

// Text renders a summary as a single plain-text line for terminals.
func Text(s aggregate.Summary) string {
	if s == nil {
		return ""
	}
	if s.IsEmpty() {
		return Placeholder(s.Category())
	}

	switch v := s.(type) {
	case aggregate.LevelsSummary:
		return fmt.Sprintf("%s users · %s XP · %s messages",
			Comma(int64(v.Users)), Comma(v.TotalXP), Comma(v.TotalMessages))
	case aggregate.DailySummary:
		return fmt.Sprintf("%s users · %s check-ins · %s points",
			Comma(int64(v.Users)), Comma(v.TotalCheckins), Comma(v.TotalPoints))
	case aggregate.BirthdaySummary:
		return fmt.Sprintf("%s registered · %s in %s",
			Comma(int64(v.Total)), Comma(int64(v.ThisMonth)), v.Month)
	case aggregate.GameSummary:
		return fmt.Sprintf("%s players · %s games · %s wins · %s win rate",
			Comma(int64(v.Players)), Comma(v.TotalGames), Comma(v.TotalWins), Percent(v.WinRate))
	case aggregate.StatisticsSummary:
		top, peak := "N/A", "N/A"
		if v.HasTopChannel {
			top = Channel(v.TopChannel)
		}
		if v.HasPeakHour {
			peak = Hour(v.PeakHour)
		}
		return fmt.Sprintf("%s messages · %s today · top %s · peak %s · %s active users",
			Comma(v.TotalMessages), Comma(v.Today), top, peak, Comma(int64(v.ActiveUsers)))
	case aggregate.WelcomeSummary:
		parts := make([]string, 0, len(v.Features))
		for _, f := range v.Features {
			state := "off"
			if f.Enabled {
				state = "on"
			}
			if f.Channel != "" {
				state += " in " + Channel(f.Channel)
			}
			parts = append(parts, fmt.Sprintf("%s %s", f.Feature, state))
		}
		return strings.Join(parts, " · ")
	default:
		return fmt.Sprintf("%v", s)
	}
}
