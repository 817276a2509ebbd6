package league

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/fpessolano/fantasyfootball/internal/domain/match"
	"github.com/fpessolano/fantasyfootball/internal/domain/schedule"
	"github.com/fpessolano/fantasyfootball/internal/domain/team"
)

// DefaultTargetGoals is the goals-per-match calibration used when a league
// is created without an explicit target.
const DefaultTargetGoals = 2.8

// Outcome is the user team's result of a match day.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
	OutcomeRest Outcome = "rest"
)

// League owns the roster, the calendar and the week pointer, and drives the
// match engine one match day at a time. A league that fails its construction
// checks is marked invalid and every operation on it is a no-op.
type League struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Season         int          `json:"season"`
	Teams          []*team.Team `json:"teams"` // slot order referenced by fixtures
	Calendar       *schedule.Calendar
	Week           int     `json:"week"`
	RelegationZone int     `json:"relegationZone"`
	UserTeam       string  `json:"userTeam"` // by name; empty when unmanaged
	TargetGoals    float64 `json:"targetGoals"`
	GoalsScored    int     `json:"goalsScored"`    // rolling season total
	MatchesPlayed  int     `json:"matchesPlayed"`  // rolling season total
	valid          bool
}

// Config carries the construction inputs of a league.
type Config struct {
	Name           string
	Teams          []*team.Team
	RelegationZone int
	UserTeam       string
	Season         int     // defaults to 1
	TargetGoals    float64 // defaults to DefaultTargetGoals
	Schedule       [][]int // optional pre-generated opponent matrix
}

// New builds a league from cfg. The roster is a shuffled copy of the input
// teams; the shuffle decides slot assignment, the user team is tracked by
// name. A nil return never happens: an invalid configuration yields a
// league with Valid() == false.
func New(cfg Config, rng *rand.Rand) *League {
	lg := &League{
		ID:             uuid.New(),
		Name:           cfg.Name,
		Season:         cfg.Season,
		RelegationZone: cfg.RelegationZone,
		UserTeam:       cfg.UserTeam,
		TargetGoals:    cfg.TargetGoals,
	}
	if lg.Season < 1 {
		lg.Season = 1
	}
	if lg.TargetGoals <= 0 {
		lg.TargetGoals = DefaultTargetGoals
	}

	n := len(cfg.Teams)
	if n < 2 || cfg.RelegationZone < 0 || cfg.RelegationZone >= n || !uniqueNames(cfg.Teams) {
		return lg
	}

	if cfg.Schedule != nil {
		lg.Calendar = schedule.FromOpponents(n, cfg.Schedule, rng)
	} else {
		lg.Calendar = schedule.Build(n, rng)
	}
	if lg.Calendar == nil || !schedule.Valid(lg.Calendar.Opponents) {
		return lg
	}

	lg.Teams = make([]*team.Team, n)
	copy(lg.Teams, cfg.Teams)
	rng.Shuffle(n, func(i, j int) {
		lg.Teams[i], lg.Teams[j] = lg.Teams[j], lg.Teams[i]
	})

	lg.valid = true
	return lg
}

func uniqueNames(teams []*team.Team) bool {
	seen := make(map[string]bool, len(teams))
	for _, t := range teams {
		if t == nil || t.Name == "" || seen[t.Name] {
			return false
		}
		seen[t.Name] = true
	}
	return true
}

// Valid reports whether the league passed its construction checks.
func (lg *League) Valid() bool { return lg.valid }

// Complete reports whether every match day has been played.
func (lg *League) Complete() bool {
	return lg.valid && lg.Week == lg.Calendar.Weeks()
}

// Context is the current goal-model calibration of the league.
func (lg *League) Context() match.Context {
	ctx := match.Context{TargetGoals: lg.TargetGoals, Played: lg.MatchesPlayed}
	if lg.MatchesPlayed > 0 {
		ctx.AvgGoals = float64(lg.GoalsScored) / float64(lg.MatchesPlayed)
	}
	return ctx
}

// UserSlot returns the roster index of the user team, or -1.
func (lg *League) UserSlot() int {
	if lg.UserTeam == "" {
		return -1
	}
	for i, t := range lg.Teams {
		if t.Name == lg.UserTeam {
			return i
		}
	}
	return -1
}

// FixtureResult is one decided fixture of a match day.
type FixtureResult struct {
	Home  string      `json:"home"`
	Away  string      `json:"away"`
	Score match.Score `json:"score"`
}

// MatchDayResult is what PlayMatchDay hands back for presentation.
type MatchDayResult struct {
	Week        int             `json:"week"` // 1-based week just played
	Complete    bool            `json:"complete"`
	Fixtures    []FixtureResult `json:"fixtures"`
	Resting     []string        `json:"resting,omitempty"`
	UserOutcome Outcome         `json:"userOutcome,omitempty"`
}

// PlayMatchDay simulates every fixture of the current week in calendar
// order, advances the week pointer and returns the results. On a complete
// or invalid league it changes nothing and reports Complete.
func (lg *League) PlayMatchDay(rng *rand.Rand) MatchDayResult {
	if !lg.valid || lg.Complete() {
		return MatchDayResult{Week: lg.Week, Complete: true}
	}

	day := lg.Calendar.Rounds[lg.Week]
	res := MatchDayResult{Week: lg.Week + 1, Fixtures: make([]FixtureResult, 0, len(day))}

	for _, f := range day {
		if lg.Calendar.IsPhantom(f.Home) || lg.Calendar.IsPhantom(f.Away) {
			resting := f.Home
			if lg.Calendar.IsPhantom(f.Home) {
				resting = f.Away
			}
			name := lg.Teams[resting].Name
			res.Resting = append(res.Resting, name)
			if name == lg.UserTeam {
				res.UserOutcome = OutcomeRest
			}
			continue
		}

		home, away := lg.Teams[f.Home], lg.Teams[f.Away]
		played := match.Play(home, away, lg.Context(), rng)
		lg.GoalsScored += played.Score.Total()
		lg.MatchesPlayed++

		res.Fixtures = append(res.Fixtures, FixtureResult{
			Home:  home.Name,
			Away:  away.Name,
			Score: played.Score,
		})

		if lg.UserTeam == home.Name || lg.UserTeam == away.Name {
			diff := played.Score.Home - played.Score.Away
			if lg.UserTeam == away.Name {
				diff = -diff
			}
			switch {
			case diff > 0:
				res.UserOutcome = OutcomeWin
			case diff == 0:
				res.UserOutcome = OutcomeDraw
			default:
				res.UserOutcome = OutcomeLoss
			}
		}
	}

	lg.Week++
	res.Complete = lg.Complete()
	return res
}

// Row is one line of the standings projection.
type Row struct {
	Position     int     `json:"position"`
	Name         string  `json:"name"`
	Played       int     `json:"played"`
	Wins         int     `json:"wins"`
	Draws        int     `json:"draws"`
	Losses       int     `json:"losses"`
	GoalsFor     int     `json:"goalsFor"`
	GoalsAgainst int     `json:"goalsAgainst"`
	GoalDiff     int     `json:"goalDiff"`
	Points       int     `json:"points"`
	Stars        float64 `json:"stars"`
}

// Standings returns the current table, best team first. The sort key folds
// points, goal difference, goals for and goals against into one number so
// ties break the same way every time; a table where nobody has played yet
// falls back to name order.
func (lg *League) Standings() []Row {
	if !lg.valid {
		return nil
	}

	type keyed struct {
		t   *team.Team
		key float64
	}
	keys := make([]keyed, 0, len(lg.Teams))
	allZero := true
	for _, t := range lg.Teams {
		k := float64(t.Points()) +
			float64(t.GoalDifference())/100 +
			float64(t.GoalsFor)/1000 -
			float64(t.GoalsAgainst)/1_000_000
		if k != 0 {
			allZero = false
		}
		keys = append(keys, keyed{t: t, key: k})
	}

	if allZero {
		sort.Slice(keys, func(i, j int) bool { return keys[i].t.Name < keys[j].t.Name })
	} else {
		sort.SliceStable(keys, func(i, j int) bool {
			if keys[i].key != keys[j].key {
				return keys[i].key > keys[j].key
			}
			return keys[i].t.Name < keys[j].t.Name
		})
	}

	rows := make([]Row, len(keys))
	for i, k := range keys {
		rows[i] = Row{
			Position:     i + 1,
			Name:         k.t.Name,
			Played:       k.t.Played,
			Wins:         k.t.Wins,
			Draws:        k.t.Draws,
			Losses:       k.t.Losses,
			GoalsFor:     k.t.GoalsFor,
			GoalsAgainst: k.t.GoalsAgainst,
			GoalDiff:     k.t.GoalDifference(),
			Points:       k.t.Points(),
			Stars:        k.t.Stars,
		}
	}
	return rows
}

// PrepareNewSeason rolls the league over: season counter up, week pointer
// back to zero, rolling totals cleared, every team's counters reset and its
// rating dampened toward the previous snapshot, roster reshuffled.
func (lg *League) PrepareNewSeason(rng *rand.Rand) {
	if !lg.valid {
		return
	}
	lg.Season++
	lg.Week = 0
	lg.GoalsScored = 0
	lg.MatchesPlayed = 0
	for _, t := range lg.Teams {
		t.ResetSeasonCounters()
		t.RolloverRating()
		t.RefreshStars()
	}
	rng.Shuffle(len(lg.Teams), func(i, j int) {
		lg.Teams[i], lg.Teams[j] = lg.Teams[j], lg.Teams[i]
	})
}

// Promote replaces the relegation zone with incoming teams. The i-th
// replacement takes the roster slot of the team finishing i-th from bottom,
// while newTeams last. A replacement whose name already exists in the
// league is rejected and the relegated team stays. Returns the number of
// replacements applied.
func (lg *League) Promote(newTeams []*team.Team) int {
	if !lg.valid || lg.RelegationZone == 0 || len(newTeams) == 0 {
		return 0
	}

	table := lg.Standings()
	applied := 0
	next := 0
	for i := 0; i < lg.RelegationZone && next < len(newTeams); i++ {
		relegated := table[len(table)-1-i].Name
		slot := lg.slotByName(relegated)
		if slot < 0 {
			continue
		}
		incoming := newTeams[next]
		next++
		if incoming == nil || incoming.Name == "" {
			continue
		}
		if existing := lg.slotByName(incoming.Name); existing >= 0 && existing != slot {
			continue
		}
		if lg.UserTeam == relegated {
			lg.UserTeam = ""
		}
		lg.Teams[slot] = incoming
		applied++
	}
	return applied
}

func (lg *League) slotByName(name string) int {
	for i, t := range lg.Teams {
		if t.Name == name {
			return i
		}
	}
	return -1
}
