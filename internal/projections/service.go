package projections

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/fpessolano/fantasyfootball/internal/domain/league"
)

// Prediction summarizes one team's simulated end of season.
type Prediction struct {
	Team         string  `json:"team"`
	TitleOdds    float64 `json:"titleOdds"` // percentage over all paths
	MeanPoints   float64 `json:"meanPoints"`
	MedianPoints float64 `json:"medianPoints"`
	StdDevPoints float64 `json:"stdDevPoints"`
}

// Service projects season outcomes by replaying the remaining calendar many
// times over independent copies of the league.
type Service struct {
	paths int
}

// NewService configures the number of Monte-Carlo paths; values below 1
// fall back to 1000.
func NewService(paths int) *Service {
	if paths < 1 {
		paths = 1000
	}
	return &Service{paths: paths}
}

// Project simulates the rest of the season s.paths times and returns one
// prediction per team, highest title odds first. The league itself is never
// mutated: every path plays on a restored copy of its snapshot.
func (s *Service) Project(lg *league.League, rng *rand.Rand) ([]Prediction, error) {
	if lg == nil || !lg.Valid() {
		return nil, fmt.Errorf("projections: league is not valid")
	}

	snap := lg.Snapshot()
	points := make(map[string][]float64, len(snap.Teams))
	titles := make(map[string]int, len(snap.Teams))
	for _, t := range snap.Teams {
		points[t.Name] = make([]float64, 0, s.paths)
	}

	for path := 0; path < s.paths; path++ {
		copyLg := league.FromSave(snap, rng)
		if !copyLg.Valid() {
			return nil, fmt.Errorf("projections: snapshot did not restore")
		}
		for !copyLg.Complete() {
			copyLg.PlayMatchDay(rng)
		}
		table := copyLg.Standings()
		titles[table[0].Name]++
		for _, row := range table {
			points[row.Name] = append(points[row.Name], float64(row.Points))
		}
	}

	preds := make([]Prediction, 0, len(points))
	for name, pts := range points {
		data := stats.Float64Data(pts)
		mean, _ := stats.Mean(data)
		median, _ := stats.Median(data)
		stddev, _ := stats.StandardDeviation(data)
		preds = append(preds, Prediction{
			Team:         name,
			TitleOdds:    100 * float64(titles[name]) / float64(s.paths),
			MeanPoints:   mean,
			MedianPoints: median,
			StdDevPoints: stddev,
		})
	}

	sort.Slice(preds, func(i, j int) bool {
		if preds[i].TitleOdds != preds[j].TitleOdds {
			return preds[i].TitleOdds > preds[j].TitleOdds
		}
		return preds[i].Team < preds[j].Team
	})
	return preds, nil
}
