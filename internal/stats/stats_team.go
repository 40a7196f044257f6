package stats

import (
	"cmp"
	"slices"

	"BowlingLeagueApi/internal/bowling"
)

type TeamStanding struct {
	TeamID            int64  `json:"team_id"`
	Name              string `json:"name"`
	Points            int    `json:"points"`
	GamesPlayed       int    `json:"games_played"`
	Wins              int    `json:"wins"`
	Draws             int    `json:"draws"`
	Losses            int    `json:"losses"`
	TotalScore        int    `json:"total_score"`
	TotalScoreAgainst int    `json:"total_score_against"`
	Difference        int    `json:"difference"`
}

type teamSide struct {
	id             int64
	points, others int
	score, against int
}

// TeamRanking folds finished team matches into standings ordered by points,
// then by score difference. A 2-2 split is the only draw.
func TeamRanking(matches []*bowling.Match, teamNames map[int64]string) []TeamStanding {
	byTeam := make(map[int64]*TeamStanding)
	order := make([]int64, 0)

	for _, m := range finished(matches, isTeam) {
		pointsA, pointsB := 0, 0
		if m.TeamAPoints != nil {
			pointsA = *m.TeamAPoints
		}
		if m.TeamBPoints != nil {
			pointsB = *m.TeamBPoints
		}
		scoreA, scoreB := m.TeamAScore(), m.TeamBScore()

		for _, side := range []teamSide{
			{id: *m.TeamAID, points: pointsA, others: pointsB, score: scoreA, against: scoreB},
			{id: *m.TeamBID, points: pointsB, others: pointsA, score: scoreB, against: scoreA},
		} {
			row, ok := byTeam[side.id]
			if !ok {
				row = &TeamStanding{TeamID: side.id, Name: teamNames[side.id]}
				byTeam[side.id] = row
				order = append(order, side.id)
			}

			row.Points += side.points
			row.GamesPlayed++
			row.TotalScore += side.score
			row.TotalScoreAgainst += side.against

			switch {
			case side.points == 4:
				row.Wins++
			case side.points == 2 && side.others == 2:
				row.Draws++
			case side.points == 0:
				row.Losses++
			}
		}
	}

	ranking := make([]TeamStanding, 0, len(order))
	for _, id := range order {
		row := byTeam[id]
		row.Difference = row.TotalScore - row.TotalScoreAgainst
		ranking = append(ranking, *row)
	}

	slices.SortStableFunc(ranking, func(a, b TeamStanding) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(b.Difference, a.Difference)
	})
	return ranking
}
