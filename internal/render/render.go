// Package render turns aggregated summaries into HTML fragments and swaps
// them into containers.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ziadkadry99/guilddash/internal/aggregate"
	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/category"
)

var fragments = template.Must(template.New("fragments").Funcs(funcs).Parse(fragmentTemplates))

// placeholders are shown when a category has no data yet.
var placeholders = map[category.Category]string{
	category.Levels:     "No level data yet",
	category.Daily:      "No check-in data yet",
	category.Welcome:    "Welcome messages are not configured",
	category.Birthdays:  "No birthdays registered",
	category.GameStats:  "No games played yet",
	category.Statistics: "No statistics collected yet",
}

// Placeholder returns the "no data" text of a category.
func Placeholder(cat category.Category) string {
	if p, ok := placeholders[cat]; ok {
		return p
	}
	return "No data yet"
}

// FailureText returns the "load failed" text of a category.
func FailureText(cat category.Category) string {
	return "Failed to load " + cat.Label()
}

// Summary replaces c's content with the fragment for s.
func Summary(c Container, s aggregate.Summary) error {
	html, err := Fragment(s)
	if err != nil {
		return err
	}
	c.Replace(html)
	return nil
}

// Fragment renders s without writing it anywhere.
func Fragment(s aggregate.Summary) (template.HTML, error) {
	if s == nil {
		return "", fmt.Errorf("render: nil summary")
	}
	if s.IsEmpty() {
		return execute("empty", Placeholder(s.Category()))
	}

	switch v := s.(type) {
	case aggregate.LevelsSummary:
		return execute("levels", v)
	case aggregate.DailySummary:
		return execute("daily", v)
	case aggregate.BirthdaySummary:
		return execute("birthdays", v)
	case aggregate.GameSummary:
		return execute("game_stats", v)
	case aggregate.StatisticsSummary:
		return execute("statistics", v)
	case aggregate.WelcomeSummary:
		return execute("welcome", welcomeViews(v))
	default:
		return "", fmt.Errorf("render: no fragment for %T", s)
	}
}

// Failure replaces c's content with the category's load-failed placeholder.
func Failure(c Container, cat category.Category) {
	html, err := execute("failure", FailureText(cat))
	if err != nil {
		html = template.HTML(template.HTMLEscapeString(FailureText(cat)))
	}
	c.Replace(html)
}

// Stats replaces c's content with the guild member/channel counts.
func Stats(c Container, stats *api.GuildStats) error {
	if stats == nil {
		stats = &api.GuildStats{}
	}
	html, err := execute("stats", stats)
	if err != nil {
		return err
	}
	c.Replace(html)
	return nil
}

// StatsFailure marks the member count as unavailable.
func StatsFailure(c Container) {
	c.Replace(`<span class="stat-value">—</span>`)
}

// ToggleView is the state of one feature switch.
type ToggleView struct {
	Feature api.Feature
	Enabled bool
	Pending bool
}

// Toggle replaces c's content with a feature switch.
func Toggle(c Container, v ToggleView) error {
	html, err := execute("toggle", v)
	if err != nil {
		return err
	}
	c.Replace(html)
	return nil
}

type featureView struct {
	Feature  api.Feature
	Label    string
	ToggleID string
	Toggle   ToggleView
	Channel  string
	Message  template.HTML
}

var featureLabels = map[api.Feature]string{
	api.FeatureWelcome: "Welcome message",
	api.FeatureLeave:   "Leave message",
}

func welcomeViews(s aggregate.WelcomeSummary) []featureView {
	views := make([]featureView, 0, len(s.Features))
	for _, f := range s.Features {
		views = append(views, featureView{
			Feature:  f.Feature,
			Label:    featureLabels[f.Feature],
			ToggleID: ToggleID(f.Feature),
			Toggle:   ToggleView{Feature: f.Feature, Enabled: f.Enabled},
			Channel:  f.Channel,
			Message:  Markdown(f.Message),
		})
	}
	return views
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
