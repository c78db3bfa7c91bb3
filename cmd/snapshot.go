package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/guilddash/internal/aggregate"
	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/category"
	"github.com/ziadkadry99/guilddash/internal/progress"
	"github.com/ziadkadry99/guilddash/internal/refresh"
	"github.com/ziadkadry99/guilddash/internal/render"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch and summarize every dashboard category once",
	Long:  `Fetches the member count and every data category of a guild in parallel and prints the same summaries the dashboard shows.`,
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().String("guild", "", "guild id (defaults to default_guild_id, then a picker)")
	snapshotCmd.Flags().Bool("json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(snapshotCmd)
}

// snapshot is one pass over a guild's data.
type snapshot struct {
	GuildID     string          `json:"guild_id"`
	TakenAt     time.Time       `json:"taken_at"`
	MemberCount *int            `json:"member_count,omitempty"`
	StatsError  string          `json:"stats_error,omitempty"`
	Categories  []categoryEntry `json:"categories"`
}

// categoryEntry is the outcome of one category in a snapshot.
type categoryEntry struct {
	Category category.Category `json:"category"`
	Label    string            `json:"label"`
	Empty    bool              `json:"empty,omitempty"`
	Summary  string            `json:"summary,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	guildFlag, _ := cmd.Flags().GetString("guild")
	asJSON, _ := cmd.Flags().GetBool("json")

	guildID, err := resolveGuild(ctx, client, cfg, guildFlag)
	if err != nil {
		return err
	}

	var rep progress.Reporter = progress.Nop{}
	if !asJSON {
		rep = progress.NewReporter()
	}
	snap := takeSnapshot(ctx, client, guildID, time.Now(), rep)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printSnapshot(os.Stdout, snap)
	return nil
}

// takeSnapshot fetches the stats and every category concurrently. Failures
// are recorded per entry; one failing request never hides the others.
func takeSnapshot(ctx context.Context, f refresh.Fetcher, guildID string, now time.Time, rep progress.Reporter) snapshot {
	cats := category.All()
	snap := snapshot{
		GuildID:    guildID,
		TakenAt:    now,
		Categories: make([]categoryEntry, len(cats)),
	}

	rep.Start(len(cats) + 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := f.Stats(gctx, guildID)
		if err != nil {
			snap.StatsError = api.Reason(err)
		} else {
			n := stats.MemberCount
			snap.MemberCount = &n
		}
		rep.Done("members", err)
		return nil
	})

	for i, cat := range cats {
		g.Go(func() error {
			entry := categoryEntry{Category: cat, Label: cat.Label()}
			resp, err := f.Category(gctx, guildID, cat)
			if err != nil {
				entry.Error = api.Reason(err)
			} else {
				s := aggregate.Aggregate(cat, resp, now)
				entry.Empty = s.IsEmpty()
				entry.Summary = render.Text(s)
			}
			snap.Categories[i] = entry
			rep.Done(cat.Label(), err)
			return nil
		})
	}

	g.Wait()
	rep.Finish()
	return snap
}

func printSnapshot(w io.Writer, snap snapshot) {
	headColor.Fprintf(w, "Guild %s\n", snap.GuildID)
	if snap.MemberCount != nil {
		fmt.Fprintf(w, "  Members: %s\n", render.Comma(int64(*snap.MemberCount)))
	} else {
		failColor.Fprintf(w, "  Members: — (%s)\n", snap.StatsError)
	}

	for _, e := range snap.Categories {
		switch {
		case e.Error != "":
			failColor.Fprintf(w, "  ✗ %-16s %s (%s)\n", e.Label, render.FailureText(e.Category), e.Error)
		case e.Empty:
			dimColor.Fprintf(w, "  · %-16s %s\n", e.Label, e.Summary)
		default:
			okColor.Fprintf(w, "  ✓ %-16s ", e.Label)
			fmt.Fprintln(w, e.Summary)
		}
	}
}
