package schedule

import (
	"math/rand"
)

// Fixture pairs two roster slots. Home and Away index into the league's
// team roster, not into any particular standings order.
type Fixture struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// MatchDay lists the fixtures of one week. Every slot appears in at most
// one fixture; with an odd team count exactly one slot sits the week out.
type MatchDay []Fixture

// Calendar is a double round-robin: 2*(nEven-1) match days where the second
// half mirrors the first with home and away swapped.
type Calendar struct {
	Rounds    []MatchDay `json:"rounds"`
	Opponents [][]int    `json:"opponents"` // nEven x (nEven-1) opponent-per-week matrix
	Phantom   int        `json:"phantom"`   // resting slot for odd team counts, -1 otherwise
	TeamCount int        `json:"teamCount"` // real teams, before padding
}

// Weeks returns the number of match days in the calendar.
func (c *Calendar) Weeks() int {
	if c == nil {
		return 0
	}
	return len(c.Rounds)
}

// IsPhantom reports whether slot denotes the padding team.
func (c *Calendar) IsPhantom(slot int) bool {
	return c.Phantom >= 0 && slot == c.Phantom
}

// Build constructs a calendar for n teams. The pairing structure comes from
// the Berger circle construction; home/away orientation of each first-half
// fixture is an unbiased coin flip on rng, with the return fixture swapped.
// n < 2 yields nil.
func Build(n int, rng *rand.Rand) *Calendar {
	if n < 2 {
		return nil
	}
	return orient(n, bergerOpponents(evenCount(n)), rng)
}

// FromOpponents rebuilds a calendar from a stored opponent matrix, drawing
// fresh home/away orientation. It returns nil if the matrix fails the
// round-robin validity check.
func FromOpponents(n int, opponents [][]int, rng *rand.Rand) *Calendar {
	if n < 2 || !Valid(opponents) || len(opponents) != evenCount(n) {
		return nil
	}
	return orient(n, opponents, rng)
}

func evenCount(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// bergerOpponents returns the opponent-per-week matrix S for nEven teams:
// S[t][d] is the opponent of slot t on week d. It is derived from the
// Berger pairing table T where T[i][j] = ((i+j) mod nEven)+((i+j) div nEven)
// gives the week on which slots i and j meet, the diagonal being each
// slot's week against the last slot.
func bergerOpponents(nEven int) [][]int {
	weeks := nEven - 1
	s := make([][]int, nEven)
	for t := range s {
		s[t] = make([]int, weeks)
	}
	for i := 0; i < weeks; i++ {
		for j := 0; j < weeks; j++ {
			d := pairWeek(i, j, nEven)
			if i == j {
				// Slot i meets the last slot on week d.
				s[i][d] = nEven - 1
				s[nEven-1][d] = i
				continue
			}
			s[i][d] = j
		}
	}
	return s
}

// pairWeek is the Berger table entry for 0-based slots i, j < nEven-1,
// returned as a 0-based week index.
func pairWeek(i, j, nEven int) int {
	sum := (i + 1) + (j + 1)
	return sum%nEven + sum/nEven - 1
}

func orient(n int, opponents [][]int, rng *rand.Rand) *Calendar {
	nEven := len(opponents)
	weeks := nEven - 1
	phantom := -1
	if n != nEven {
		phantom = nEven - 1
	}

	cal := &Calendar{
		Rounds:    make([]MatchDay, 0, 2*weeks),
		Opponents: opponents,
		Phantom:   phantom,
		TeamCount: n,
	}

	firstHalf := make([]MatchDay, weeks)
	for d := 0; d < weeks; d++ {
		day := make(MatchDay, 0, nEven/2)
		for t := 0; t < nEven; t++ {
			opp := opponents[t][d]
			if opp < t {
				continue // pairing already collected from the lower slot
			}
			home, away := t, opp
			if rng.Intn(2) == 1 {
				home, away = away, home
			}
			day = append(day, Fixture{Home: home, Away: away})
		}
		firstHalf[d] = day
	}

	cal.Rounds = append(cal.Rounds, firstHalf...)
	for _, day := range firstHalf {
		back := make(MatchDay, len(day))
		for i, f := range day {
			back[i] = Fixture{Home: f.Away, Away: f.Home}
		}
		cal.Rounds = append(cal.Rounds, back)
	}
	return cal
}

// Valid checks the round-robin property of an opponent matrix: every row
// (one slot's opponents across the weeks) and every column (the pairing of
// one week) must hold pairwise distinct entries.
func Valid(opponents [][]int) bool {
	nEven := len(opponents)
	if nEven < 2 || nEven%2 != 0 {
		return false
	}
	weeks := nEven - 1
	for t, row := range opponents {
		if len(row) != weeks {
			return false
		}
		seen := make(map[int]bool, weeks)
		for _, opp := range row {
			if opp < 0 || opp >= nEven || opp == t || seen[opp] {
				return false
			}
			seen[opp] = true
		}
	}
	for d := 0; d < weeks; d++ {
		seen := make(map[int]bool, nEven)
		for t := 0; t < nEven; t++ {
			opp := opponents[t][d]
			if seen[opp] || opponents[opp][d] != t {
				return false
			}
			seen[opp] = true
		}
	}
	return true
}

// Equal reports whether two opponent matrices match cell for cell. The
// schedule cache uses it to avoid storing duplicates.
func Equal(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
