package stats

import (
	"cmp"
	"math"
	"slices"

	"BowlingLeagueApi/internal/bowling"
)

// PlayerStanding is one row of the individual ranking.
type PlayerStanding struct {
	PlayerID    int64   `json:"player_id"`
	Name        string  `json:"name"`
	Points      int     `json:"points"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Draws       int     `json:"draws"`
	Losses      int     `json:"losses"`
	TotalScore  int     `json:"total_score"`
	Average     float64 `json:"average"`
}

// IndividualRanking folds finished individual matches into standings ordered
// by points, then by average match score. A match worth 4 points counts as a
// win, 2 as a draw and 0 as a loss; split results of 1 or 3 only add points.
func IndividualRanking(matches []*bowling.Match, players map[int64]bowling.Player) []PlayerStanding {
	byPlayer := make(map[int64]*PlayerStanding)
	order := make([]int64, 0)

	for _, m := range finished(matches, isIndividual) {
		for _, id := range m.Players() {
			row, ok := byPlayer[id]
			if !ok {
				row = &PlayerStanding{PlayerID: id, Name: playerName(players, id)}
				byPlayer[id] = row
				order = append(order, id)
			}

			points := 0
			if p := m.PlayerPoints(id); p != nil {
				points = *p
			}
			row.Points += points
			row.GamesPlayed++
			row.TotalScore += m.PlayerTotalScore(id)

			switch points {
			case 4:
				row.Wins++
			case 2:
				row.Draws++
			case 0:
				row.Losses++
			}
		}
	}

	ranking := make([]PlayerStanding, 0, len(order))
	for _, id := range order {
		row := byPlayer[id]
		row.Average = ratio(row.TotalScore, row.GamesPlayed, 2)
		ranking = append(ranking, *row)
	}

	slices.SortStableFunc(ranking, func(a, b PlayerStanding) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(b.Average, a.Average)
	})
	return ranking
}

// PlayerStats summarises a player's scoring across finished matches.
type PlayerStats struct {
	PlayerID    int64   `json:"player_id"`
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	TotalScore  int     `json:"total_score"`
	AvgScore    float64 `json:"avg_score"`
	MaxScore    int     `json:"max_score"`
	MinScore    int     `json:"min_score"`
	TotalFrames int     `json:"total_frames"`
	Strikes     int     `json:"strikes"`
	Spares      int     `json:"spares"`
	StrikeRate  float64 `json:"strike_rate"`
	SpareRate   float64 `json:"spare_rate"`
}

// PlayerStatistics builds per-player stats from every finished match, team
// and individual alike, ordered by average match score. Only frames in which
// the player has rolled count towards the strike and spare rates.
func PlayerStatistics(matches []*bowling.Match, players map[int64]bowling.Player) []PlayerStats {
	byPlayer := make(map[int64]*PlayerStats)
	order := make([]int64, 0)

	for _, m := range finished(matches, nil) {
		for _, id := range m.Players() {
			row, ok := byPlayer[id]
			if !ok {
				row = &PlayerStats{PlayerID: id, Name: playerName(players, id), MinScore: math.MaxInt}
				byPlayer[id] = row
				order = append(order, id)
			}

			score := m.PlayerTotalScore(id)
			row.GamesPlayed++
			row.TotalScore += score
			row.MaxScore = max(row.MaxScore, score)
			row.MinScore = min(row.MinScore, score)

			for _, f := range m.Frames {
				if len(f.PlayerRolls(id)) == 0 {
					continue
				}
				row.TotalFrames++
				if f.IsPlayerStrike(id) {
					row.Strikes++
				}
				if f.IsPlayerSpare(id) {
					row.Spares++
				}
			}
		}
	}

	result := make([]PlayerStats, 0, len(order))
	for _, id := range order {
		row := byPlayer[id]
		if row.MinScore == math.MaxInt {
			row.MinScore = 0
		}
		row.AvgScore = ratio(row.TotalScore, row.GamesPlayed, 2)
		row.StrikeRate = percent(row.Strikes, row.TotalFrames, 1)
		row.SpareRate = percent(row.Spares, row.TotalFrames, 1)
		result = append(result, *row)
	}

	slices.SortStableFunc(result, func(a, b PlayerStats) int {
		return cmp.Compare(b.AvgScore, a.AvgScore)
	})
	return result
}
