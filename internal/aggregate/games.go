package aggregate

import "github.com/ziadkadry99/guilddash/internal/category"

// GameSummary totals the mini-game results.
type GameSummary struct {
	Players    int          `json:"players"`
	TotalGames int64        `json:"total_games"`
	TotalWins  int64        `json:"total_wins"`
	WinRate    float64      `json:"win_rate"`
	Games      []GameTotals `json:"games"`
}

// GameTotals is the per-game breakdown folded across players.
type GameTotals struct {
	Name    string  `json:"name"`
	Played  int64   `json:"played"`
	Won     int64   `json:"won"`
	WinRate float64 `json:"win_rate"`
}

func (GameSummary) Category() category.Category { return category.GameStats }
func (GameSummary) IsEmpty() bool               { return false }

// GameStats sums games and wins and folds each player's per-game map into
// a running total. Games appear in the order they were first seen.
func GameStats(resp *category.Response) Summary {
	if resp.Empty() {
		return Empty{Of: category.GameStats}
	}

	s := GameSummary{Players: resp.Len()}
	index := make(map[string]int)
	resp.Each(func(_ string, player category.Record) {
		s.TotalGames += player.Int("total_games")
		s.TotalWins += player.Int("total_wins")

		player.Object("games").Each(func(name string, g category.Record) {
			i, ok := index[name]
			if !ok {
				i = len(s.Games)
				index[name] = i
				s.Games = append(s.Games, GameTotals{Name: name})
			}
			s.Games[i].Played += g.Int("played")
			s.Games[i].Won += g.Int("won")
		})
	})

	s.WinRate = rate(s.TotalWins, s.TotalGames)
	for i := range s.Games {
		s.Games[i].WinRate = rate(s.Games[i].Won, s.Games[i].Played)
	}
	return s
}
