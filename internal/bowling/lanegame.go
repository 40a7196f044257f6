package bowling

import (
	"cmp"
	"slices"
)

// LaneGame is the ordered frame sequence one player bowls in one lane-game of
// a double-match. Look-ahead bonuses never leave the sequence.
type LaneGame struct {
	GameNumber int
	Frames     []*Frame
}

// LaneGames groups the frames that list the player by game number and orders
// each group by frame number. Frames of other player pairs are ignored, so team
// frames sharing a frame number on other lanes never collide.
func LaneGames(frames []*Frame, playerID int64) []LaneGame {
	byGame := make(map[int][]*Frame)
	for _, f := range frames {
		if f.HasPlayer(playerID) {
			byGame[f.GameNumber] = append(byGame[f.GameNumber], f)
		}
	}

	games := make([]LaneGame, 0, len(byGame))
	for n, fs := range byGame {
		slices.SortStableFunc(fs, func(a, b *Frame) int { return cmp.Compare(a.FrameNumber, b.FrameNumber) })
		games = append(games, LaneGame{GameNumber: n, Frames: fs})
	}
	slices.SortFunc(games, func(a, b LaneGame) int { return cmp.Compare(a.GameNumber, b.GameNumber) })

	return games
}

// GameNumbers returns the distinct lane-game numbers in ascending order.
func GameNumbers(frames []*Frame) []int {
	numbers := make([]int, 0, 2)
	for _, f := range frames {
		if !slices.Contains(numbers, f.GameNumber) {
			numbers = append(numbers, f.GameNumber)
		}
	}
	slices.Sort(numbers)
	return numbers
}

func frameAt(frames []*Frame, i int) *Frame {
	if i < len(frames) {
		return frames[i]
	}
	return nil
}

// FrameScores returns the per-frame score of the player in this lane-game.
func (g LaneGame) FrameScores(playerID int64) []int {
	scores := make([]int, len(g.Frames))
	for i, f := range g.Frames {
		scores[i] = f.PlayerScore(playerID, frameAt(g.Frames, i+1), frameAt(g.Frames, i+2))
	}
	return scores
}

// RunningTotals returns the cumulative score after each frame, as printed on a
// scoreboard.
func (g LaneGame) RunningTotals(playerID int64) []int {
	totals := g.FrameScores(playerID)
	for i := 1; i < len(totals); i++ {
		totals[i] += totals[i-1]
	}
	return totals
}

func (g LaneGame) Score(playerID int64) int {
	total := 0
	for _, s := range g.FrameScores(playerID) {
		total += s
	}
	return total
}
