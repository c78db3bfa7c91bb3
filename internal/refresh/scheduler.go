// Package refresh runs the fetch → aggregate → render pipeline for every
// category of a guild, immediately and then on a fixed interval.
package refresh

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/guilddash/internal/aggregate"
	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/category"
	"github.com/ziadkadry99/guilddash/internal/render"
)

// DefaultInterval is the refresh period used when Options.Interval is zero.
const DefaultInterval = 30 * time.Second

// StatsKey identifies the guild-stats pipeline in reports.
const StatsKey = "stats"

// Fetcher is the subset of the API client the scheduler needs.
type Fetcher interface {
	Category(ctx context.Context, guildID string, cat category.Category) (*category.Response, error)
	Stats(ctx context.Context, guildID string) (*api.GuildStats, error)
}

// Containers resolves container ids to render targets.
type Containers interface {
	Container(id string) render.Container
}

// Outcome is the result of one pipeline invocation.
type Outcome int

const (
	// OutcomeRendered means fresh data (or the empty placeholder) was rendered.
	OutcomeRendered Outcome = iota + 1
	// OutcomeFailed means the load-failed placeholder was rendered.
	OutcomeFailed
	// OutcomeCoalesced means a run was already in flight; it will run once more.
	OutcomeCoalesced
	// OutcomeCanceled means the context ended before anything was rendered.
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeFailed:
		return "failed"
	case OutcomeCoalesced:
		return "coalesced"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Options configures a Scheduler.
type Options struct {
	GuildID    string
	Fetcher    Fetcher
	Containers Containers
	Interval   time.Duration
	// Now supplies the clock for date-relative aggregates. Defaults to time.Now.
	Now func() time.Time
	// Categories defaults to category.All().
	Categories []category.Category
}

// Counters are running totals of pipeline outcomes.
type Counters struct {
	Rendered  int64 `json:"rendered"`
	Failed    int64 `json:"failed"`
	Coalesced int64 `json:"coalesced"`
}

// Scheduler owns the refresh cycle of one guild.
type Scheduler struct {
	guildID    string
	fetcher    Fetcher
	containers Containers
	interval   time.Duration
	now        func() time.Time
	categories []category.Category

	mu      sync.Mutex
	flights map[string]*flight
	last    map[category.Category]aggregate.Summary

	rendered  atomic.Int64
	failed    atomic.Int64
	coalesced atomic.Int64
}

// flight is the single-flight state of one pipeline. rerunCtx belongs to
// the latest caller that asked for a rerun.
type flight struct {
	running  bool
	rerun    bool
	rerunCtx context.Context
}

// New creates a Scheduler.
func New(opts Options) *Scheduler {
	s := &Scheduler{
		guildID:    opts.GuildID,
		fetcher:    opts.Fetcher,
		containers: opts.Containers,
		interval:   opts.Interval,
		now:        opts.Now,
		categories: opts.Categories,
		flights:    make(map[string]*flight),
		last:       make(map[category.Category]aggregate.Summary),
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.categories) == 0 {
		s.categories = category.All()
	}
	return s
}

// GuildID returns the guild this scheduler refreshes.
func (s *Scheduler) GuildID() string { return s.guildID }

// Interval returns the refresh period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Last returns the most recently rendered summary of cat. A failed fetch
// keeps the previous one.
func (s *Scheduler) Last(cat category.Category) (aggregate.Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.last[cat]
	return sum, ok
}

// Counters returns a snapshot of the outcome totals.
func (s *Scheduler) Counters() Counters {
	return Counters{
		Rendered:  s.rendered.Load(),
		Failed:    s.failed.Load(),
		Coalesced: s.coalesced.Load(),
	}
}

// Run triggers a pass immediately and then every interval until ctx ends.
// Each pass is started without waiting for the previous one, so a stalled
// category never delays the others; the single-flight guard keeps a
// category from overlapping with itself.
func (s *Scheduler) Run(ctx context.Context) error {
	go s.RefreshAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			go s.RefreshAll(ctx)
		}
	}
}

// RefreshAll runs every category pipeline and the stats pipeline
// concurrently and waits for all of them.
func (s *Scheduler) RefreshAll(ctx context.Context) map[string]Outcome {
	var (
		g   errgroup.Group
		mu  sync.Mutex
		out = make(map[string]Outcome, len(s.categories)+1)
	)
	record := func(key string, o Outcome) {
		mu.Lock()
		out[key] = o
		mu.Unlock()
	}

	for _, cat := range s.categories {
		g.Go(func() error {
			record(string(cat), s.Refresh(ctx, cat))
			return nil
		})
	}
	g.Go(func() error {
		record(StatsKey, s.RefreshStats(ctx))
		return nil
	})
	_ = g.Wait()
	return out
}

// Refresh runs the pipeline of one category.
func (s *Scheduler) Refresh(ctx context.Context, cat category.Category) Outcome {
	return s.single(ctx, string(cat), func(ctx context.Context) Outcome {
		return s.runCategory(ctx, cat)
	})
}

// RefreshStats runs the guild-stats pipeline into the member-count container.
func (s *Scheduler) RefreshStats(ctx context.Context) Outcome {
	return s.single(ctx, StatsKey, s.runStats)
}

// single runs fn unless the pipeline named key is already running. A call
// that finds it running asks for one more run after the current one and
// returns immediately, so results always land in request order. The rerun
// uses the asking caller's context, not the one of the running call.
func (s *Scheduler) single(ctx context.Context, key string, fn func(context.Context) Outcome) Outcome {
	s.mu.Lock()
	f, ok := s.flights[key]
	if !ok {
		f = &flight{}
		s.flights[key] = f
	}
	if f.running {
		f.rerun = true
		f.rerunCtx = ctx
		s.mu.Unlock()
		s.coalesced.Add(1)
		return OutcomeCoalesced
	}
	f.running = true
	s.mu.Unlock()

	for {
		o := fn(ctx)
		s.count(o)

		s.mu.Lock()
		if f.rerun && f.rerunCtx.Err() == nil {
			ctx = f.rerunCtx
			f.rerun = false
			f.rerunCtx = nil
			s.mu.Unlock()
			continue
		}
		f.running = false
		f.rerun = false
		f.rerunCtx = nil
		s.mu.Unlock()
		return o
	}
}

func (s *Scheduler) count(o Outcome) {
	switch o {
	case OutcomeRendered:
		s.rendered.Add(1)
	case OutcomeFailed:
		s.failed.Add(1)
	}
}

func (s *Scheduler) runCategory(ctx context.Context, cat category.Category) Outcome {
	c := s.containers.Container(render.ContainerID(cat))

	resp, err := s.fetcher.Category(ctx, s.guildID, cat)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeCanceled
		}
		log.Printf("refresh: guild %s %s: %v", s.guildID, cat, err)
		render.Failure(c, cat)
		return OutcomeFailed
	}

	summary := aggregate.Aggregate(cat, resp, s.now())
	if err := render.Summary(c, summary); err != nil {
		log.Printf("refresh: guild %s %s: %v", s.guildID, cat, err)
		render.Failure(c, cat)
		return OutcomeFailed
	}

	s.mu.Lock()
	s.last[cat] = summary
	s.mu.Unlock()
	return OutcomeRendered
}

func (s *Scheduler) runStats(ctx context.Context) Outcome {
	c := s.containers.Container(render.IDMemberCount)

	stats, err := s.fetcher.Stats(ctx, s.guildID)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeCanceled
		}
		log.Printf("refresh: guild %s stats: %v", s.guildID, err)
		render.StatsFailure(c)
		return OutcomeFailed
	}
	if err := render.Stats(c, stats); err != nil {
		log.Printf("refresh: guild %s stats: %v", s.guildID, err)
		render.StatsFailure(c)
		return OutcomeFailed
	}
	return OutcomeRendered
}
