package team

import (
	"math"
	"math/rand"
)

const (
	// RatingFloor and RatingCeiling bound every rating; out-of-range
	// values are clamped at ingest and after every update.
	RatingFloor   = 1000.0
	RatingCeiling = 2000.0

	// HomeBonus is the fixed rating bonus the home side receives.
	HomeBonus = 50.0

	// LeagueModifier is the match-importance modifier for league play.
	LeagueModifier = 40.0

	streakLow  = 3
	streakHigh = 15
)

// Team is one club in a league: identity, ELO-style rating with a
// previous-season snapshot, per-season counters and the running form streak.
// All mutation goes through the result methods below.
type Team struct {
	Name           string  `json:"name"`
	Rating         float64 `json:"rating"`
	PreviousRating float64 `json:"previousRating"`
	Played         int     `json:"played"`
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	Streak         int     `json:"streak"` // +k after k straight wins, -k after k straight losses
	Stars          float64 `json:"stars"`
}

// New creates a team with the given rating. Ratings outside the valid range
// clamp to the nearest bound; non-positive ratings fall back to 1500.
func New(name string, rating float64) *Team {
	r := ClampRating(rating)
	t := &Team{
		Name:           name,
		Rating:         r,
		PreviousRating: r,
	}
	t.Stars = StarsForRating(r)
	return t
}

// ClampRating forces a rating into [RatingFloor, RatingCeiling]. A rating
// that is not even positive carries no information and maps to 1500.
func ClampRating(r float64) float64 {
	if r <= 0 || math.IsNaN(r) {
		return 1500
	}
	return math.Min(RatingCeiling, math.Max(RatingFloor, r))
}

// Expectancy is the logistic win expectation of a side rated rh against one
// rated ra.
func Expectancy(rh, ra float64) float64 {
	return 1 / (math.Pow(10, -(rh-ra)/400) + 1)
}

// WinProbability returns this team's chance of beating opp with this team
// playing at home (bonus > 0) or away (bonus 0). The effective home rating
// carries a random injury factor and a streak-derived form factor, both
// drawn from rng.
func (t *Team) WinProbability(opp *Team, bonus float64, rng *rand.Rand) float64 {
	rh := (t.Rating + bonus) * injuryFactor(rng) * formFactor(t.Streak, rng)
	return Expectancy(rh, opp.Rating)
}

// injuryFactor is a uniform draw from [0.85, 1.00].
func injuryFactor(rng *rand.Rand) float64 {
	return 0.85 + 0.15*rng.Float64()
}

// formFactor converts the streak into a rating multiplier. Long streaks hit
// the fixed boosters, short streaks draw from a band that widens with the
// streak. The lower bound of the cold-streak band follows the historical
// behaviour of the game and is kept as-is.
func formFactor(streak int, rng *rand.Rand) float64 {
	s := float64(streak)
	switch {
	case streak > streakHigh:
		return 1.10
	case streak < -streakHigh:
		return 0.85
	case streak < -streakLow:
		return uniform(rng, 1+(streakLow+s)/100, 1)
	case streak < 0:
		return 1
	case streak < streakLow:
		return uniform(rng, 1, 1+s/100)
	default:
		return uniform(rng, 1-s/100, 1+streakLow/100.0)
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// ApplyResult updates the rating after a match. modifier is the match
// importance, goalDiff this team's signed goal difference in the match and
// winProb its own pre-match win probability.
func (t *Team) ApplyResult(modifier float64, goalDiff int, winProb float64) {
	var result float64
	switch {
	case goalDiff > 0:
		result = 1
	case goalDiff == 0:
		result = 0.5
	}

	margin := goalDiff
	if margin < 0 {
		margin = -margin
	}
	weight := 1.0
	switch {
	case margin == 2:
		weight = 1.5
	case margin >= 3:
		weight = 1 + 3.0/4 + float64(margin-3)/8
	}

	t.Rating = ClampRating(t.Rating + modifier*weight*(result-winProb))
}

// RecordMatch books the season counters and the streak for one match.
func (t *Team) RecordMatch(scored, conceded int) {
	t.Played++
	t.GoalsFor += scored
	t.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		t.Wins++
		if t.Streak <= 0 {
			t.Streak = 1
		} else {
			t.Streak++
		}
	case scored == conceded:
		t.Draws++
		t.Streak = 0
	default:
		t.Losses++
		if t.Streak >= 0 {
			t.Streak = -1
		} else {
			t.Streak--
		}
	}
}

// Points is the league points of the current season: 3 per win, 1 per draw.
func (t *Team) Points() int {
	return 3*t.Wins + t.Draws
}

// GoalDifference is goals for minus goals against, signed.
func (t *Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

// ResetSeasonCounters zeroes everything a new season starts fresh with.
func (t *Team) ResetSeasonCounters() {
	t.Played = 0
	t.Wins = 0
	t.Draws = 0
	t.Losses = 0
	t.GoalsFor = 0
	t.GoalsAgainst = 0
	t.Streak = 0
}

// RolloverRating dampens rating drift at a season boundary: the team keeps
// one third of the movement since the last snapshot, then snapshots.
func (t *Team) RolloverRating() {
	t.Rating = ClampRating(t.PreviousRating + (t.Rating-t.PreviousRating)/3)
	t.PreviousRating = t.Rating
	t.Stars = StarsForRating(t.Rating)
}

// StarsForRating maps a rating onto the half-star scale. Bands of 200
// rating points map linearly onto one star each above 1200.
func StarsForRating(r float64) float64 {
	r = ClampRating(r)
	var s float64
	switch {
	case r < 1200:
		s = 1
	case r < 1400:
		s = 1 + (r-1200)/200
	case r < 1600:
		s = 2 + (r-1400)/200
	case r < 1800:
		s = 3 + (r-1600)/200
	default:
		s = 4 + (r-1800)/200
	}
	s = math.Round(s*2) / 2
	if s < 0.5 {
		s = 0.5
	}
	if s > 5 {
		s = 5
	}
	return s
}

// SetRatingFromStars rates the team from a star value, the inverse of the
// band mapping. hardReset also moves the previous-rating snapshot, which is
// wanted for teams entering the league and not for in-season edits.
func (t *Team) SetRatingFromStars(stars float64, hardReset bool) {
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	t.Rating = ClampRating(1000 + 2.05*stars*100)
	t.Stars = StarsForRating(t.Rating)
	if hardReset {
		t.PreviousRating = t.Rating
	}
}

// RefreshStars recomputes the star band from the current rating.
func (t *Team) RefreshStars() {
	t.Stars = StarsForRating(t.Rating)
}
