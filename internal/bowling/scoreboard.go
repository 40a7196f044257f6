package bowling

// Scoreboard is the read-only view of a match handed to presentation layers.
type Scoreboard struct {
	MatchID     int64          `json:"match_id"`
	Pin         string         `json:"pin"`
	Status      Status         `json:"status"`
	IsTeamMatch bool           `json:"is_team_match"`
	IsComplete  bool           `json:"is_complete"`
	TeamAScore  int            `json:"team_a_score"`
	TeamBScore  int            `json:"team_b_score"`
	TeamAPoints *int           `json:"team_a_points"`
	TeamBPoints *int           `json:"team_b_points"`
	Winner      string         `json:"winner,omitempty"`
	Players     []PlayerSheet  `json:"players"`
	LaneGames   []LaneGameLine `json:"lane_games"`
}

type LaneGameLine struct {
	GameNumber int `json:"game_number"`
	TeamAScore int `json:"team_a_score"`
	TeamBScore int `json:"team_b_score"`
}

type PlayerSheet struct {
	PlayerID   int64       `json:"player_id"`
	Name       string      `json:"name,omitempty"`
	Side       string      `json:"side"`
	TotalScore int         `json:"total_score"`
	Games      []GameSheet `json:"games"`
}

type GameSheet struct {
	GameNumber int          `json:"game_number"`
	Lane       int          `json:"lane"`
	Score      int          `json:"score"`
	Frames     []FrameSheet `json:"frames"`
}

type FrameSheet struct {
	FrameID      int64    `json:"frame_id"`
	FrameNumber  int      `json:"frame_number"`
	Marks        []string `json:"marks"`
	RunningTotal int      `json:"running_total"`
	Complete     bool     `json:"complete"`
}

// NewScoreboard derives every displayed value from the match. players is only
// used for names and may be nil.
func NewScoreboard(m *Match, players map[int64]Player) Scoreboard {
	board := Scoreboard{
		MatchID:     m.ID,
		Pin:         m.Pin,
		Status:      m.Status,
		IsTeamMatch: m.IsTeamMatch(),
		IsComplete:  m.IsComplete(),
		TeamAScore:  m.TeamAScore(),
		TeamBScore:  m.TeamBScore(),
		TeamAPoints: m.TeamAPoints,
		TeamBPoints: m.TeamBPoints,
		Winner:      m.Winner(players),
	}

	for _, n := range GameNumbers(m.Frames) {
		a, b := m.LaneGameScores(n)
		board.LaneGames = append(board.LaneGames, LaneGameLine{GameNumber: n, TeamAScore: a, TeamBScore: b})
	}

	for _, id := range m.Players() {
		sheet := PlayerSheet{
			PlayerID:   id,
			Name:       players[id].FullName(),
			Side:       m.SideOf(id).String(),
			TotalScore: m.PlayerTotalScore(id),
		}
		for _, g := range LaneGames(m.Frames, id) {
			totals := g.RunningTotals(id)
			game := GameSheet{GameNumber: g.GameNumber, Score: g.Score(id)}
			for i, f := range g.Frames {
				game.Lane = f.LaneNumber
				game.Frames = append(game.Frames, FrameSheet{
					FrameID:      f.ID,
					FrameNumber:  f.FrameNumber,
					Marks:        FormatRolls(f.PlayerPins(id)),
					RunningTotal: totals[i],
					Complete:     f.IsPlayerComplete(id),
				})
			}
			sheet.Games = append(sheet.Games, game)
		}
		board.Players = append(board.Players, sheet)
	}

	return board
}
