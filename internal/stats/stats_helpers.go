package stats

import (
	"math"

	"BowlingLeagueApi/internal/bowling"
)

// ratio divides n by d and rounds to the given number of places. A zero
// denominator yields 0.
func ratio(n, d, places int) float64 {
	if d == 0 {
		return 0
	}
	return round(float64(n)/float64(d), places)
}

func percent(n, d, places int) float64 {
	if d == 0 {
		return 0
	}
	return round(float64(n)/float64(d)*100, places)
}

func round(value float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(value*p) / p
}

// finished keeps the finished matches accepted by keep, or all of them when
// keep is nil.
func finished(matches []*bowling.Match, keep func(m *bowling.Match) bool) []*bowling.Match {
	kept := make([]*bowling.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status != bowling.StatusFinished {
			continue
		}
		if keep == nil || keep(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

func isIndividual(m *bowling.Match) bool {
	return !m.IsTeamMatch()
}

func isTeam(m *bowling.Match) bool {
	return m.IsTeamMatch()
}

func playerName(players map[int64]bowling.Player, id int64) string {
	if p, ok := players[id]; ok {
		return p.FullName()
	}
	return ""
}
