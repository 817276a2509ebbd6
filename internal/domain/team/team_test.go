package team

import (
	"math"
	"math/rand"
	"testing"
)

func TestExpectancyFavorsStrongerSide(t *testing.T) {
	// 1700 at home with the bonus against 1500 away.
	if p := Expectancy(1700+HomeBonus, 1500); p <= 0.75 {
		t.Fatalf("expected home probability above 0.75, got %.4f", p)
	}
	// Roles swapped: 1500 hosting 1700.
	if p := Expectancy(1500+HomeBonus, 1700); p >= 0.30 {
		t.Fatalf("expected home probability below 0.30, got %.4f", p)
	}
	if p := Expectancy(1500, 1500); math.Abs(p-0.5) > 1e-12 {
		t.Fatalf("equal ratings should give 0.5, got %.6f", p)
	}
}

func TestWinProbabilityStaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	a := New("A", 1950)
	b := New("B", 1050)
	for i := 0; i < 1000; i++ {
		a.Streak = i%31 - 15
		p := a.WinProbability(b, HomeBonus, rng)
		if p <= 0 || p >= 1 {
			t.Fatalf("probability out of range: %.6f", p)
		}
	}
}

func TestFormFactorBoosters(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	if f := formFactor(16, rng); f != 1.10 {
		t.Fatalf("hot booster: want 1.10, got %.4f", f)
	}
	if f := formFactor(-16, rng); f != 0.85 {
		t.Fatalf("cold booster: want 0.85, got %.4f", f)
	}
	if f := formFactor(-2, rng); f != 1 {
		t.Fatalf("short cold streak should be neutral, got %.4f", f)
	}
	for i := 0; i < 200; i++ {
		if f := formFactor(2, rng); f < 1 || f > 1.02 {
			t.Fatalf("short hot streak out of band: %.4f", f)
		}
		if f := formFactor(5, rng); f < 0.95 || f > 1.03 {
			t.Fatalf("established streak out of band: %.4f", f)
		}
	}
}

func TestApplyResultMovesWinnerUp(t *testing.T) {
	winner := New("W", 1500)
	loser := New("L", 1500)
	pw := Expectancy(winner.Rating+HomeBonus, loser.Rating)
	pl := Expectancy(loser.Rating, winner.Rating+HomeBonus)

	winner.ApplyResult(LeagueModifier, 2, pw)
	loser.ApplyResult(LeagueModifier, -2, pl)

	if winner.Rating <= 1500 {
		t.Fatalf("winner rating should rise, got %.2f", winner.Rating)
	}
	if loser.Rating >= 1500 {
		t.Fatalf("loser rating should fall, got %.2f", loser.Rating)
	}
}

func TestApplyResultMarginWeight(t *testing.T) {
	base := New("A", 1500)
	p := 0.5

	narrow := *base
	narrow.ApplyResult(LeagueModifier, 1, p)
	wide := *base
	wide.ApplyResult(LeagueModifier, 4, p)

	gainNarrow := narrow.Rating - base.Rating
	gainWide := wide.Rating - base.Rating
	// |g|=1 -> k=1; |g|=4 -> k=1.75+1/8.
	if math.Abs(gainNarrow-LeagueModifier*0.5) > 1e-9 {
		t.Fatalf("narrow win gain: want %.2f, got %.4f", LeagueModifier*0.5, gainNarrow)
	}
	want := LeagueModifier * (1 + 3.0/4 + 1.0/8) * 0.5
	if math.Abs(gainWide-want) > 1e-9 {
		t.Fatalf("wide win gain: want %.4f, got %.4f", want, gainWide)
	}
}

func TestApplyResultClampsAtBounds(t *testing.T) {
	top := New("T", 1999)
	top.ApplyResult(LeagueModifier, 5, 0.01)
	if top.Rating > RatingCeiling {
		t.Fatalf("rating above ceiling: %.2f", top.Rating)
	}
	bottom := New("B", 1001)
	bottom.ApplyResult(LeagueModifier, -5, 0.99)
	if bottom.Rating < RatingFloor {
		t.Fatalf("rating below floor: %.2f", bottom.Rating)
	}
}

func TestRecordMatchCountersAndStreak(t *testing.T) {
	tm := New("A", 1500)
	tm.RecordMatch(2, 0)
	tm.RecordMatch(1, 0)
	if tm.Streak != 2 || tm.Wins != 2 {
		t.Fatalf("after two wins: streak=%d wins=%d", tm.Streak, tm.Wins)
	}
	tm.RecordMatch(1, 1)
	if tm.Streak != 0 || tm.Draws != 1 {
		t.Fatalf("after draw: streak=%d draws=%d", tm.Streak, tm.Draws)
	}
	tm.RecordMatch(0, 3)
	tm.RecordMatch(0, 1)
	if tm.Streak != -2 || tm.Losses != 2 {
		t.Fatalf("after two losses: streak=%d losses=%d", tm.Streak, tm.Losses)
	}
	if tm.Played != tm.Wins+tm.Draws+tm.Losses {
		t.Fatalf("played %d != W+D+L %d", tm.Played, tm.Wins+tm.Draws+tm.Losses)
	}
	if tm.Points() != 3*tm.Wins+tm.Draws {
		t.Fatalf("points %d != 3W+D", tm.Points())
	}
	if tm.GoalDifference() != tm.GoalsFor-tm.GoalsAgainst {
		t.Fatal("goal difference mismatch")
	}
}

func TestRolloverRatingDampensDrift(t *testing.T) {
	tm := New("A", 1500)
	tm.Rating = 1650 // moved +150 during the season
	tm.RolloverRating()
	if math.Abs(tm.Rating-1550) > 1e-9 {
		t.Fatalf("expected 1550 after rollover, got %.2f", tm.Rating)
	}
	if tm.PreviousRating != tm.Rating {
		t.Fatal("rollover should snapshot the new rating")
	}

	// Fixed point: a team whose rating equals its snapshot does not move.
	tm.RolloverRating()
	if math.Abs(tm.Rating-1550) > 1e-9 {
		t.Fatalf("rollover at fixed point moved rating to %.2f", tm.Rating)
	}
}

func TestStarsForRatingBands(t *testing.T) {
	cases := []struct {
		rating float64
		want   float64
	}{
		{1000, 1},
		{1199, 1},
		{1300, 1.5},
		{1500, 2.5},
		{1700, 3.5},
		{1900, 4.5},
		{2000, 5},
	}
	for _, c := range cases {
		if got := StarsForRating(c.rating); got != c.want {
			t.Fatalf("stars(%.0f): want %.1f, got %.1f", c.rating, c.want, got)
		}
	}
}

func TestSetRatingFromStars(t *testing.T) {
	tm := New("A", 1500)
	prev := tm.PreviousRating

	tm.SetRatingFromStars(2, false)
	if math.Abs(tm.Rating-1410) > 1e-9 {
		t.Fatalf("2 stars: want rating 1410, got %.2f", tm.Rating)
	}
	if tm.PreviousRating != prev {
		t.Fatal("soft reset must keep the previous-rating snapshot")
	}

	tm.SetRatingFromStars(4, true)
	if tm.PreviousRating != tm.Rating {
		t.Fatal("hard reset must move the snapshot")
	}

	tm.SetRatingFromStars(9, true) // clamps to 5 stars
	if tm.Rating > RatingCeiling {
		t.Fatalf("rating over ceiling after star clamp: %.2f", tm.Rating)
	}
}

func TestClampRating(t *testing.T) {
	if r := ClampRating(2500); r != RatingCeiling {
		t.Fatalf("want ceiling, got %.2f", r)
	}
	if r := ClampRating(1010); r != 1010 {
		t.Fatalf("in-range rating altered: %.2f", r)
	}
	if r := ClampRating(800); r != RatingFloor {
		t.Fatalf("want floor, got %.2f", r)
	}
	if r := ClampRating(-3); r != 1500 {
		t.Fatalf("nonsense rating should fall back to 1500, got %.2f", r)
	}
}
