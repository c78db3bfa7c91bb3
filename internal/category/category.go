package category

import (
	"fmt"
	"strings"
)

// Category names one backend data domain of a guild.
type Category string

const (
	Levels     Category = "levels"
	Daily      Category = "daily"
	Welcome    Category = "welcome"
	Birthdays  Category = "birthdays"
	GameStats  Category = "game_stats"
	Statistics Category = "statistics"
)

var all = []Category{Levels, Daily, Welcome, Birthdays, GameStats, Statistics}

// labels are the human-readable names used in placeholders and CLI output.
var labels = map[Category]string{
	Levels:     "levels",
	Daily:      "daily check-ins",
	Welcome:    "welcome settings",
	Birthdays:  "birthdays",
	GameStats:  "game stats",
	Statistics: "statistics",
}

// All returns every category in display order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Parse converts a string into a known Category.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := labels[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Label returns the display name of the category.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) String() string { return string(c) }
