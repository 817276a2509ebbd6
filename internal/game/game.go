package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/fpessolano/fantasyfootball/internal/domain/league"
	"github.com/fpessolano/fantasyfootball/internal/domain/team"
	"github.com/fpessolano/fantasyfootball/internal/events"
	"github.com/fpessolano/fantasyfootball/internal/metrics"
)

// SaveStore is the narrow persistence contract the game needs: named saves
// plus the anonymous schedule cache keyed by padded participant count.
// Both the bolt and the postgres backends implement it.
type SaveStore interface {
	SaveNames(ctx context.Context) ([]string, error)
	ReadSave(ctx context.Context, name string) (*league.SavedGame, error)
	WriteSave(ctx context.Context, name string, sg *league.SavedGame) error
	DeleteSave(ctx context.Context, name string) error
	Schedules(ctx context.Context, teamCount int) ([][][]int, error)
	AppendSchedule(ctx context.Context, teamCount int, matrix [][]int) error
}

type Dependencies struct {
	Store SaveStore
	Bus   *events.Bus
	Rand  *rand.Rand
}

// Game is the single-player session: the current league, the save store
// and the one random source every simulation draw flows through.
type Game struct {
	store   SaveStore
	bus     *events.Bus
	rng     *rand.Rand
	metrics metrics.Recorder
	league  *league.League
}

func New(deps Dependencies) *Game {
	g := &Game{
		store: deps.Store,
		bus:   deps.Bus,
		rng:   deps.Rand,
	}
	if g.bus == nil {
		g.bus = events.NewBus()
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// League exposes the running league; nil before NewLeague or Load.
func (g *Game) League() *league.League { return g.league }

// Bus exposes the event bus for presentation-layer subscriptions.
func (g *Game) Bus() *events.Bus { return g.bus }

// Metrics exposes the match day samples recorded this session.
func (g *Game) Metrics() *metrics.Recorder { return &g.metrics }

// NewLeagueConfig is the input of a fresh league.
type NewLeagueConfig struct {
	Name           string
	Teams          []*team.Team
	RelegationZone int
	UserTeam       string
	TargetGoals    float64
}

// minimumSchedules is the cache pick policy: with at least this many
// distinct cached schedules for a participant count, reuse one instead of
// generating. Large leagues take longer to generate, so the bar drops.
func minimumSchedules(teamCount int) int {
	switch {
	case teamCount > 16:
		return 1
	case teamCount > 10:
		return 3
	default:
		return 5
	}
}

// NewLeague starts a fresh league. The schedule comes from the cache when
// enough distinct ones are stored for this participant count; otherwise a
// new one is generated and cached. Cache failures are not fatal, the league
// just generates fresh.
func (g *Game) NewLeague(ctx context.Context, cfg NewLeagueConfig) error {
	n := len(cfg.Teams)
	padded := n
	if padded%2 != 0 {
		padded++
	}

	var pick [][]int
	if g.store != nil && n >= 2 {
		if cached, err := g.store.Schedules(ctx, padded); err == nil && len(cached) >= minimumSchedules(n) {
			pick = cached[g.rng.Intn(len(cached))]
		}
	}

	lg := league.New(league.Config{
		Name:           cfg.Name,
		Teams:          cfg.Teams,
		RelegationZone: cfg.RelegationZone,
		UserTeam:       cfg.UserTeam,
		TargetGoals:    cfg.TargetGoals,
		Schedule:       pick,
	}, g.rng)
	if !lg.Valid() {
		return fmt.Errorf("league %q is not playable with %d teams and relegation zone %d",
			cfg.Name, n, cfg.RelegationZone)
	}

	if pick == nil && g.store != nil {
		// Best effort: grow the cache for the next league of this size.
		_ = g.store.AppendSchedule(ctx, padded, lg.Calendar.Opponents)
	}

	g.league = lg
	return g.bus.Publish(ctx, events.Event{Name: events.SeasonStarted, Payload: lg.Season})
}

// Load restores a named save. An absent name or a corrupt snapshot leaves
// the current league untouched.
func (g *Game) Load(ctx context.Context, name string) error {
	if g.store == nil {
		return fmt.Errorf("no save store configured")
	}
	sg, err := g.store.ReadSave(ctx, name)
	if err != nil {
		return err
	}
	if sg == nil {
		return fmt.Errorf("save %q does not exist", name)
	}
	lg := league.FromSave(sg, g.rng)
	if !lg.Valid() {
		return fmt.Errorf("save %q is corrupt", name)
	}
	g.league = lg
	return g.bus.Publish(ctx, events.Event{Name: events.GameLoaded, Payload: name})
}

// Save writes the running league under name. It reports success as a
// boolean and never aborts the session on a storage failure.
func (g *Game) Save(ctx context.Context, name string) bool {
	if g.store == nil || g.league == nil {
		return false
	}
	sg := g.league.Snapshot()
	if sg == nil {
		return false
	}
	if err := g.store.WriteSave(ctx, name, sg); err != nil {
		return false
	}
	_ = g.bus.Publish(ctx, events.Event{Name: events.GameSaved, Payload: name})
	return true
}

// Saves lists the stored save names.
func (g *Game) Saves(ctx context.Context) ([]string, error) {
	if g.store == nil {
		return nil, nil
	}
	return g.store.SaveNames(ctx)
}

// DeleteSave removes a stored save.
func (g *Game) DeleteSave(ctx context.Context, name string) error {
	if g.store == nil {
		return nil
	}
	return g.store.DeleteSave(ctx, name)
}

// PlayWeek simulates the next match day and records a metrics sample.
func (g *Game) PlayWeek(ctx context.Context) (league.MatchDayResult, error) {
	if g.league == nil {
		return league.MatchDayResult{}, fmt.Errorf("no league in play")
	}

	start := time.Now()
	res := g.league.PlayMatchDay(g.rng)

	goals := 0
	for _, f := range res.Fixtures {
		goals += f.Score.Total()
	}
	g.metrics.Record(metrics.MatchDaySample{
		Season:    g.league.Season,
		Week:      res.Week,
		Fixtures:  len(res.Fixtures),
		Goals:     goals,
		Elapsed:   time.Since(start),
		Timestamp: start,
	})

	if err := g.bus.Publish(ctx, events.Event{Name: events.MatchDayPlayed, Payload: res}); err != nil {
		return res, err
	}
	if res.Complete {
		if err := g.bus.Publish(ctx, events.Event{Name: events.SeasonCompleted, Payload: g.league.Season}); err != nil {
			return res, err
		}
	}
	return res, nil
}

// FinishSeason plays every remaining match day.
func (g *Game) FinishSeason(ctx context.Context) ([]league.MatchDayResult, error) {
	if g.league == nil {
		return nil, fmt.Errorf("no league in play")
	}
	results := make([]league.MatchDayResult, 0)
	for !g.league.Complete() {
		res, err := g.PlayWeek(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// StartNewSeason applies promotion (when a relegation zone is configured)
// and rolls the league over.
func (g *Game) StartNewSeason(ctx context.Context, promoted []*team.Team) error {
	if g.league == nil {
		return fmt.Errorf("no league in play")
	}
	if !g.league.Complete() {
		return fmt.Errorf("season %d is still in play", g.league.Season)
	}
	g.league.Promote(promoted)
	g.league.PrepareNewSeason(g.rng)
	return g.bus.Publish(ctx, events.Event{Name: events.SeasonStarted, Payload: g.league.Season})
}
