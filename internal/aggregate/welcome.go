package aggregate

import (
	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/category"
)

// WelcomeSummary is the authoritative state of the join/leave messages.
type WelcomeSummary struct {
	Features []FeatureSettings `json:"features"`
}

// FeatureSettings is the configuration of one toggleable feature.
type FeatureSettings struct {
	Feature api.Feature `json:"feature"`
	Enabled bool        `json:"enabled"`
	Channel string      `json:"channel,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (WelcomeSummary) Category() category.Category { return category.Welcome }
func (WelcomeSummary) IsEmpty() bool               { return false }

// Feature returns the settings of f. A feature absent from the data is
// reported disabled.
func (s WelcomeSummary) Feature(f api.Feature) FeatureSettings {
	for _, fs := range s.Features {
		if fs.Feature == f {
			return fs
		}
	}
	return FeatureSettings{Feature: f}
}

// Welcome reads the welcome and leave settings, always in that order.
func Welcome(resp *category.Response) Summary {
	if resp.Empty() {
		return Empty{Of: category.Welcome}
	}

	root := resp.Root()
	var s WelcomeSummary
	for _, f := range []api.Feature{api.FeatureWelcome, api.FeatureLeave} {
		rec := root.Object(string(f))
		s.Features = append(s.Features, FeatureSettings{
			Feature: f,
			Enabled: rec.Bool("enabled"),
			Channel: rec.String("channel"),
			Message: rec.String("message"),
		})
	}
	return s
}
