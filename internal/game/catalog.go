package game

import (
	"fmt"
	"math/rand"

	"github.com/fpessolano/fantasyfootball/internal/domain/team"
)

// catalogEntry is one built-in club for the "existing teams" mode. Ratings
// are rough top-flight calibrations inside the valid band.
type catalogEntry struct {
	name   string
	rating float64
}

var clubCatalog = []catalogEntry{
	{"Arsenal", 1870},
	{"Atletico Madrid", 1790},
	{"Barcelona", 1880},
	{"Bayern Munich", 1900},
	{"Benfica", 1720},
	{"Borussia Dortmund", 1780},
	{"Celtic", 1620},
	{"Chelsea", 1800},
	{"Inter", 1840},
	{"Juventus", 1770},
	{"Leverkusen", 1760},
	{"Liverpool", 1890},
	{"Manchester City", 1910},
	{"Manchester United", 1740},
	{"Marseille", 1680},
	{"Milan", 1780},
	{"Napoli", 1810},
	{"Newcastle", 1750},
	{"Paris SG", 1860},
	{"Porto", 1700},
	{"Real Madrid", 1920},
	{"Roma", 1730},
	{"Sevilla", 1670},
	{"Sporting", 1710},
}

// CatalogSize is the number of built-in clubs available to ExistingTeams.
func CatalogSize() int { return len(clubCatalog) }

// ExistingTeams picks n clubs from the built-in catalog, drawn without
// replacement in rng order.
func ExistingTeams(n int, rng *rand.Rand) ([]*team.Team, error) {
	if n < 2 || n > len(clubCatalog) {
		return nil, fmt.Errorf("existing-team league needs between 2 and %d teams, got %d", len(clubCatalog), n)
	}
	order := rng.Perm(len(clubCatalog))
	teams := make([]*team.Team, n)
	for i := 0; i < n; i++ {
		entry := clubCatalog[order[i]]
		teams[i] = team.New(entry.name, entry.rating)
	}
	return teams, nil
}

// RandomTeams fabricates n clubs with uniformly distributed ratings.
func RandomTeams(n int, rng *rand.Rand) ([]*team.Team, error) {
	if n < 2 {
		return nil, fmt.Errorf("random league needs at least 2 teams, got %d", n)
	}
	teams := make([]*team.Team, n)
	for i := range teams {
		rating := team.RatingFloor + rng.Float64()*(team.RatingCeiling-team.RatingFloor)
		teams[i] = team.New(fmt.Sprintf("Team %02d", i+1), rating)
	}
	return teams, nil
}

// CustomTeam is one user-defined club rated in stars.
type CustomTeam struct {
	Name  string
	Stars float64
}

// CustomTeams builds clubs from user input, rating each from its star
// value. Names must be non-empty and unique.
func CustomTeams(entries []CustomTeam) ([]*team.Team, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("custom league needs at least 2 teams, got %d", len(entries))
	}
	seen := make(map[string]bool, len(entries))
	teams := make([]*team.Team, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("custom team %d has no name", i+1)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate team name %q", e.Name)
		}
		seen[e.Name] = true
		t := team.New(e.Name, 1500)
		t.SetRatingFromStars(e.Stars, true)
		teams[i] = t
	}
	return teams, nil
}
