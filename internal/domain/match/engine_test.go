package match

import (
	"math/rand"
	"testing"

	"github.com/fpessolano/fantasyfootball/internal/domain/team"
)

func TestGoalsRespectsCapAndConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ctx := Context{TargetGoals: 2.6, AvgGoals: 3.2, Played: 20}

	total := 0
	for i := 0; i < 10000; i++ {
		s := Goals(0.5, 0.5, ctx, rng)
		if s.Home < 0 || s.Away < 0 {
			t.Fatalf("negative goals: %+v", s)
		}
		if s.Home > 4 || s.Away > 4 {
			t.Fatalf("score above cap for target 2.6: %+v", s)
		}
		total += s.Total()
	}
	avg := float64(total) / 10000
	if avg > 2.6*1.05 {
		t.Fatalf("average goals %.3f exceeds target band %.3f", avg, 2.6*1.05)
	}
}

func TestGoalsHighScoringLeagueCap(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	ctx := Context{TargetGoals: 3.3}
	for i := 0; i < 5000; i++ {
		s := Goals(0.6, 0.4, ctx, rng)
		if s.Home > 5 || s.Away > 5 {
			t.Fatalf("score above cap for target 3.3: %+v", s)
		}
	}
}

func TestGoalsStrongFavoriteWinsMoreOften(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	ctx := Context{TargetGoals: 2.8}
	homeWins, awayWins := 0, 0
	for i := 0; i < 10000; i++ {
		s := Goals(0.8, 0.2, ctx, rng)
		switch {
		case s.Home > s.Away:
			homeWins++
		case s.Away > s.Home:
			awayWins++
		}
	}
	if homeWins < 3*awayWins {
		t.Fatalf("favorite won %d times vs %d; expected a clear majority", homeWins, awayWins)
	}
}

func TestMaxGoals(t *testing.T) {
	if MaxGoals(2.8) != 4 {
		t.Fatal("cap below 3.0 target should be 4")
	}
	if MaxGoals(3.2) != 5 {
		t.Fatal("cap above 3.0 target should be 5")
	}
}

func TestPlayUpdatesBothTeams(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	home := team.New("Home", 1600)
	away := team.New("Away", 1450)

	res := Play(home, away, Context{TargetGoals: 2.8}, rng)

	if res.HomeProb <= 0 || res.HomeProb >= 1 || res.AwayProb <= 0 || res.AwayProb >= 1 {
		t.Fatalf("probabilities out of range: %+v", res)
	}
	if home.Played != 1 || away.Played != 1 {
		t.Fatalf("both teams must record the match: %d/%d", home.Played, away.Played)
	}
	if home.GoalsFor != res.Score.Home || away.GoalsFor != res.Score.Away {
		t.Fatal("recorded goals do not match the score")
	}
	if home.GoalsAgainst != res.Score.Away || away.GoalsAgainst != res.Score.Home {
		t.Fatal("conceded goals do not match the score")
	}
	if home.Rating < team.RatingFloor || home.Rating > team.RatingCeiling {
		t.Fatalf("home rating out of bounds: %.2f", home.Rating)
	}
}

func TestPlayConservesGoalsAcrossManyMatches(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	a := team.New("A", 1550)
	b := team.New("B", 1500)
	for i := 0; i < 200; i++ {
		Play(a, b, Context{TargetGoals: 2.8}, rng)
	}
	if a.GoalsFor != b.GoalsAgainst || b.GoalsFor != a.GoalsAgainst {
		t.Fatal("goals for and against must mirror between the two sides")
	}
	if a.Wins+a.Draws+a.Losses != a.Played {
		t.Fatal("W+D+L must equal matches played")
	}
}
