package metrics

import "time"

// MatchDaySample records one simulated match day for diagnostics.
type MatchDaySample struct {
	Season    int
	Week      int
	Fixtures  int
	Goals     int
	Elapsed   time.Duration
	Timestamp time.Time
}

// Recorder keeps an in-memory trail of match day samples.
type Recorder struct {
	samples []MatchDaySample
}

func (r *Recorder) Record(s MatchDaySample) {
	r.samples = append(r.samples, s)
}

func (r *Recorder) Samples() []MatchDaySample {
	return append([]MatchDaySample(nil), r.samples...)
}

// GoalsPerMatch is the mean goals across all recorded samples.
func (r *Recorder) GoalsPerMatch() float64 {
	matches, goals := 0, 0
	for _, s := range r.samples {
		matches += s.Fixtures
		goals += s.Goals
	}
	if matches == 0 {
		return 0
	}
	return float64(goals) / float64(matches)
}
