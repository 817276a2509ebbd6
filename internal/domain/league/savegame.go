package league

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/fpessolano/fantasyfootball/internal/domain/schedule"
	"github.com/fpessolano/fantasyfootball/internal/domain/team"
)

// SavedGame is the persisted shape of a league: full team records, the
// pre-orientation schedule and every counter needed to resume. Home/away
// orientation is redrawn on restore; standings, ratings and match counts
// round-trip exactly.
type SavedGame struct {
	ID             uuid.UUID   `json:"id"`
	LeagueName     string      `json:"leagueName"`
	Season         int         `json:"season"`
	Week           int         `json:"week"`
	RelegationZone int         `json:"relegationZone"`
	UserTeam       string      `json:"userTeam,omitempty"`
	TargetGoals    float64     `json:"targetGoals"`
	Phantom        int         `json:"phantom"` // -1 when no padding slot is active
	Schedule       [][]int     `json:"schedule"`
	Teams          []team.Team `json:"teams"` // in slot order
	GoalsScored    int         `json:"goalsScored"`
	MatchesPlayed  int         `json:"matchesPlayed"`
}

// Snapshot captures the league as a SavedGame. Invalid leagues have nothing
// worth saving and return nil.
func (lg *League) Snapshot() *SavedGame {
	if !lg.valid {
		return nil
	}
	sg := &SavedGame{
		ID:             lg.ID,
		LeagueName:     lg.Name,
		Season:         lg.Season,
		Week:           lg.Week,
		RelegationZone: lg.RelegationZone,
		UserTeam:       lg.UserTeam,
		TargetGoals:    lg.TargetGoals,
		Phantom:        lg.Calendar.Phantom,
		Schedule:       lg.Calendar.Opponents,
		Teams:          make([]team.Team, len(lg.Teams)),
		GoalsScored:    lg.GoalsScored,
		MatchesPlayed:  lg.MatchesPlayed,
	}
	for i, t := range lg.Teams {
		sg.Teams[i] = *t
	}
	return sg
}

// FromSave rebuilds a league from a snapshot. The calendar is regenerated
// from the stored schedule with fresh orientation and re-checked; a
// snapshot that fails any construction check yields an invalid league and
// mutates nothing.
func FromSave(sg *SavedGame, rng *rand.Rand) *League {
	lg := &League{}
	if sg == nil {
		return lg
	}
	lg.ID = sg.ID
	lg.Name = sg.LeagueName
	lg.Season = sg.Season
	lg.RelegationZone = sg.RelegationZone
	lg.UserTeam = sg.UserTeam
	lg.TargetGoals = sg.TargetGoals
	if lg.TargetGoals <= 0 {
		lg.TargetGoals = DefaultTargetGoals
	}

	n := len(sg.Teams)
	if n < 2 || sg.RelegationZone < 0 || sg.RelegationZone >= n || sg.Season < 1 {
		return lg
	}

	cal := schedule.FromOpponents(n, sg.Schedule, rng)
	if cal == nil || sg.Week < 0 || sg.Week > cal.Weeks() || cal.Phantom != sg.Phantom {
		return lg
	}

	teams := make([]*team.Team, n)
	for i := range sg.Teams {
		t := sg.Teams[i]
		if t.Name == "" || t.Played != t.Wins+t.Draws+t.Losses ||
			t.GoalsFor < 0 || t.GoalsAgainst < 0 {
			return lg
		}
		t.Rating = team.ClampRating(t.Rating)
		t.PreviousRating = team.ClampRating(t.PreviousRating)
		teams[i] = &t
	}
	if !uniqueNames(teams) {
		return lg
	}

	lg.Calendar = cal
	lg.Teams = teams
	lg.Week = sg.Week
	lg.GoalsScored = sg.GoalsScored
	lg.MatchesPlayed = sg.MatchesPlayed
	lg.valid = true
	return lg
}
