package stats

import "BowlingLeagueApi/internal/bowling"

// GameStatline holds one player's roll statistics for a single match.
type GameStatline struct {
	PlayerID           int64   `json:"player_id"`
	Strikes            int     `json:"strikes"`
	Spares             int     `json:"spares"`
	TotalPins          int     `json:"total_pins"`
	Rolls              int     `json:"rolls"`
	AveragePinsPerRoll float64 `json:"average_pins_per_roll"`
	PerfectFrames      int     `json:"perfect_frames"`
	GutterBalls        int     `json:"gutter_balls"`
	StrikePercentage   float64 `json:"strike_percentage"`
}

// PlayerGameStats counts the player's rolls across every frame of the match
// that lists them. Strike percentage is measured against rolls thrown.
func PlayerGameStats(m *bowling.Match, playerID int64) GameStatline {
	sl := GameStatline{PlayerID: playerID}

	for _, f := range m.Frames {
		if !f.HasPlayer(playerID) {
			continue
		}
		for _, r := range f.PlayerRolls(playerID) {
			sl.TotalPins += r.PinsKnocked
			sl.Rolls++
			if r.PinsKnocked == 0 {
				sl.GutterBalls++
			}
		}

		switch {
		case f.IsPlayerStrike(playerID):
			sl.Strikes++
			sl.PerfectFrames++
		case f.IsPlayerSpare(playerID):
			sl.Spares++
		}
	}

	sl.AveragePinsPerRoll = ratio(sl.TotalPins, sl.Rolls, 2)
	sl.StrikePercentage = percent(sl.Strikes, sl.Rolls, 2)
	return sl
}

// MatchStatlines returns a statline for every player of the match, side A first.
func MatchStatlines(m *bowling.Match) []GameStatline {
	players := m.Players()
	lines := make([]GameStatline, 0, len(players))
	for _, id := range players {
		lines = append(lines, PlayerGameStats(m, id))
	}
	return lines
}
