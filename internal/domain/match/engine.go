package match

import (
	"math/rand"

	"github.com/fpessolano/fantasyfootball/internal/domain/team"
)

// Context is the league calibration the goal model works against: the
// configured target goals per match and the observed rolling average of the
// running season.
type Context struct {
	TargetGoals float64 // configured goals-per-match target, typically 2.2-3.4
	AvgGoals    float64 // observed season average so far
	Played      int     // matches recorded this season
}

// Score is the final result of one simulated fixture.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total is the combined goal count of the score.
func (s Score) Total() int { return s.Home + s.Away }

// Result carries everything one simulated fixture produced.
type Result struct {
	Score    Score
	HomeProb float64
	AwayProb float64
}

// pools are the league-banded base score draws: one value set for the
// winning side, one for the losing side and one for a drawn match.
type pools struct {
	winner []int
	loser  []int
	draw   []int
}

func poolsFor(target float64) pools {
	switch {
	case target < 2.5:
		return pools{winner: []int{1, 1, 1, 2, 2}, loser: []int{0, 0, 1, 1}, draw: []int{0, 1, 1, 1}}
	case target < 2.7:
		return pools{winner: []int{1, 1, 1, 2, 2}, loser: []int{0, 0, 1, 1}, draw: []int{1, 1, 1, 1}}
	case target < 2.9:
		return pools{winner: []int{1, 1, 2, 2, 2}, loser: []int{0, 1, 1, 1}, draw: []int{1, 1, 1, 1}}
	case target < 3.1:
		return pools{winner: []int{1, 1, 2, 2, 2}, loser: []int{0, 1, 1, 1}, draw: []int{1, 1, 1, 2}}
	default:
		return pools{winner: []int{1, 2, 2, 2, 3}, loser: []int{0, 1, 1, 1, 1}, draw: []int{1, 1, 2, 2}}
	}
}

func drawPropensity(target float64) float64 {
	switch {
	case target < 2.6:
		return 0.35
	case target < 2.9:
		return 0.30
	default:
		return 0.25
	}
}

func extraGoalChance(target float64) float64 {
	switch {
	case target < 2.5:
		return 0.02
	case target < 2.8:
		return 0.03
	case target < 3.1:
		return 0.04
	default:
		return 0.06
	}
}

// MaxGoals is the per-side cap for the given target average.
func MaxGoals(target float64) int {
	if target > 3.0 {
		return 5
	}
	return 4
}

// Goals turns a pair of pre-normalization win probabilities and the league
// context into a score. The draw propensity shrinks with the strength gap,
// the base score comes from league-banded pools and a rolling-average
// correction steers the occasional extra goal back toward the target.
func Goals(pHome, pAway float64, ctx Context, rng *rand.Rand) Score {
	pDraw := drawPropensity(ctx.TargetGoals) * (1 - abs(pHome-pAway))
	sum := pHome + pAway + pDraw

	var score Score
	p := poolsFor(ctx.TargetGoals)
	switch u := rng.Float64() * sum; {
	case u < pHome:
		score.Home, score.Away = winnerScore(p, rng)
	case u < pHome+pAway:
		score.Away, score.Home = winnerScore(p, rng)
	default:
		g := sample(p.draw, rng)
		score.Home, score.Away = g, g
	}

	correction := 1.0
	if ctx.Played >= 5 && ctx.AvgGoals > 0 {
		if ctx.AvgGoals > ctx.TargetGoals {
			correction = max(0.7, ctx.TargetGoals/ctx.AvgGoals)
		} else if ctx.AvgGoals < 0.9*ctx.TargetGoals {
			correction = min(1.3, 0.95*ctx.TargetGoals/ctx.AvgGoals)
		}
	}

	chance := extraGoalChance(ctx.TargetGoals) * correction
	if rng.Float64() < pHome*chance {
		score.Home++
	}
	if rng.Float64() < pAway*chance {
		score.Away++
	}

	cap := MaxGoals(ctx.TargetGoals)
	if score.Home > cap {
		score.Home = cap
	}
	if score.Away > cap {
		score.Away = cap
	}
	return score
}

// winnerScore draws the goals of the winning and losing side, bumping the
// winner when the pools alone would not separate them.
func winnerScore(p pools, rng *rand.Rand) (winner, loser int) {
	winner = sample(p.winner, rng)
	loser = sample(p.loser, rng)
	if loser >= winner {
		winner = loser + 1
	}
	return winner, loser
}

func sample(pool []int, rng *rand.Rand) int {
	return pool[rng.Intn(len(pool))]
}

// Play simulates one fixture between home and away. It derives both sides'
// win probabilities (only the home side carries the home bonus), samples a
// score against the league context and writes ratings, counters and streaks
// back onto both teams.
func Play(home, away *team.Team, ctx Context, rng *rand.Rand) Result {
	pHome := home.WinProbability(away, team.HomeBonus, rng)
	pAway := away.WinProbability(home, 0, rng)

	score := Goals(pHome, pAway, ctx, rng)

	home.ApplyResult(team.LeagueModifier, score.Home-score.Away, pHome)
	away.ApplyResult(team.LeagueModifier, score.Away-score.Home, pAway)
	home.RecordMatch(score.Home, score.Away)
	away.RecordMatch(score.Away, score.Home)

	return Result{Score: score, HomeProb: pHome, AwayProb: pAway}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
