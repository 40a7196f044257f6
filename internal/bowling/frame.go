package bowling

import (
	"fmt"
	"slices"
	"time"
)

type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "none"
	}
}

type Frame struct {
	ID           int64     `json:"id"`
	MatchID      int64     `json:"match_id"`
	FrameNumber  int       `json:"frame_number"`
	LaneNumber   int       `json:"lane_number"`
	GameNumber   int       `json:"game_number"`
	TeamAID      *int64    `json:"team_a_id,omitempty"`
	TeamBID      *int64    `json:"team_b_id,omitempty"`
	TeamAPlayers []int64   `json:"team_a_players"`
	TeamBPlayers []int64   `json:"team_b_players"`
	Rolls        []*Roll   `json:"rolls"`
	CreatedBy    int64     `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame %d (Game %d, Lane %d)", f.FrameNumber, f.GameNumber, f.LaneNumber)
}

func (f *Frame) IsLast() bool {
	return f.FrameNumber == LastFrame
}

func (f *Frame) SideOf(playerID int64) Side {
	switch {
	case slices.Contains(f.TeamAPlayers, playerID):
		return SideA
	case slices.Contains(f.TeamBPlayers, playerID):
		return SideB
	default:
		return SideNone
	}
}

func (f *Frame) HasPlayer(playerID int64) bool {
	return f.SideOf(playerID) != SideNone
}

// Players lists side A players followed by side B players.
func (f *Frame) Players() []int64 {
	players := make([]int64, 0, len(f.TeamAPlayers)+len(f.TeamBPlayers))
	players = append(players, f.TeamAPlayers...)
	return append(players, f.TeamBPlayers...)
}

func (f *Frame) sidePlayers(side Side) []int64 {
	switch side {
	case SideA:
		return f.TeamAPlayers
	case SideB:
		return f.TeamBPlayers
	default:
		return nil
	}
}

// AddPlayer puts a player on one side of the frame, moving them off the other
// side if needed.
func (f *Frame) AddPlayer(side Side, playerID int64) {
	f.RemovePlayer(playerID)
	switch side {
	case SideA:
		f.TeamAPlayers = append(f.TeamAPlayers, playerID)
	case SideB:
		f.TeamBPlayers = append(f.TeamBPlayers, playerID)
	}
}

func (f *Frame) RemovePlayer(playerID int64) {
	f.TeamAPlayers = slices.DeleteFunc(f.TeamAPlayers, func(id int64) bool { return id == playerID })
	f.TeamBPlayers = slices.DeleteFunc(f.TeamBPlayers, func(id int64) bool { return id == playerID })
}

// PlayerRolls returns the player's rolls ordered by roll number.
func (f *Frame) PlayerRolls(playerID int64) []*Roll {
	rolls := make([]*Roll, 0, MaxRollNumber)
	for _, r := range f.Rolls {
		if r.PlayerID == playerID {
			rolls = append(rolls, r)
		}
	}
	slices.SortFunc(rolls, func(a, b *Roll) int { return a.RollNumber - b.RollNumber })
	return rolls
}

func (f *Frame) PlayerRoll(playerID int64, rollNumber int) *Roll {
	for _, r := range f.Rolls {
		if r.PlayerID == playerID && r.RollNumber == rollNumber {
			return r
		}
	}
	return nil
}

func (f *Frame) PlayerPins(playerID int64) []int {
	rolls := f.PlayerRolls(playerID)
	pins := make([]int, len(rolls))
	for i, r := range rolls {
		pins[i] = r.PinsKnocked
	}
	return pins
}

func (f *Frame) PlayerTotalPins(playerID int64) int {
	total := 0
	for _, r := range f.Rolls {
		if r.PlayerID == playerID {
			total += r.PinsKnocked
		}
	}
	return total
}

// rollPins returns the pins of a roll or 0 when the roll is not recorded yet.
func (f *Frame) rollPins(playerID int64, rollNumber int) int {
	if f == nil {
		return 0
	}
	if r := f.PlayerRoll(playerID, rollNumber); r != nil {
		return r.PinsKnocked
	}
	return 0
}

func (f *Frame) IsPlayerStrike(playerID int64) bool {
	first := f.PlayerRoll(playerID, 1)
	return first != nil && first.PinsKnocked == MaxPins
}

func (f *Frame) IsPlayerSpare(playerID int64) bool {
	if f.IsPlayerStrike(playerID) {
		return false
	}
	first := f.PlayerRoll(playerID, 1)
	second := f.PlayerRoll(playerID, 2)
	return first != nil && second != nil && first.PinsKnocked+second.PinsKnocked == MaxPins
}

// PlayerScore is the player's frame score including strike and spare bonuses.
// next and nextNext are the following frames of the same lane-game; nil means
// the bonus is not known yet and counts as 0.
func (f *Frame) PlayerScore(playerID int64, next, nextNext *Frame) int {
	score := f.PlayerTotalPins(playerID)
	if f.IsLast() {
		return score
	}

	switch {
	case f.IsPlayerStrike(playerID) && next != nil:
		score += next.rollPins(playerID, 1)
		switch {
		case next.IsLast():
			score += next.rollPins(playerID, 2)
		case next.IsPlayerStrike(playerID) && nextNext != nil:
			score += nextNext.rollPins(playerID, 1)
		default:
			score += next.rollPins(playerID, 2)
		}
	case f.IsPlayerSpare(playerID) && next != nil:
		score += next.rollPins(playerID, 1)
	}

	return score
}

func (f *Frame) sideScore(side Side, next, nextNext *Frame) int {
	score := 0
	for _, p := range f.sidePlayers(side) {
		score += f.PlayerScore(p, next, nextNext)
	}
	return score
}

func (f *Frame) TeamAScore(next, nextNext *Frame) int {
	return f.sideScore(SideA, next, nextNext)
}

func (f *Frame) TeamBScore(next, nextNext *Frame) int {
	return f.sideScore(SideB, next, nextNext)
}

// IsPlayerComplete reports whether the player has bowled every roll the frame
// allows them.
func (f *Frame) IsPlayerComplete(playerID int64) bool {
	count := len(f.PlayerRolls(playerID))
	strike := f.IsPlayerStrike(playerID)

	if f.IsLast() {
		if strike || f.IsPlayerSpare(playerID) {
			return count >= 3
		}
		return count >= 2
	}

	if strike {
		return count >= 1
	}
	return count >= 2
}

func (f *Frame) isSideComplete(side Side) bool {
	players := f.sidePlayers(side)
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !f.IsPlayerComplete(p) {
			return false
		}
	}
	return true
}

func (f *Frame) IsTeamAComplete() bool {
	return f.isSideComplete(SideA)
}

func (f *Frame) IsTeamBComplete() bool {
	return f.isSideComplete(SideB)
}

func (f *Frame) IsComplete() bool {
	return f.IsTeamAComplete() && f.IsTeamBComplete()
}

// SideStrikes counts the players on a side who struck in this frame.
func (f *Frame) SideStrikes(side Side) int {
	n := 0
	for _, p := range f.sidePlayers(side) {
		if f.IsPlayerStrike(p) {
			n++
		}
	}
	return n
}

func (f *Frame) SideSpares(side Side) int {
	n := 0
	for _, p := range f.sidePlayers(side) {
		if f.IsPlayerSpare(p) {
			n++
		}
	}
	return n
}

// AddRoll attaches a roll to the frame and commits its strike/spare flags.
// It does not check scoring legality; see CheckRoll.
func (f *Frame) AddRoll(r *Roll) {
	r.FrameID = f.ID
	f.Rolls = append(f.Rolls, r)
	f.classifyPlayerRolls(r.PlayerID)
}

// RemovePlayerRolls detaches and returns every roll of the player.
func (f *Frame) RemovePlayerRolls(playerID int64) []*Roll {
	removed := f.PlayerRolls(playerID)
	f.Rolls = slices.DeleteFunc(f.Rolls, func(r *Roll) bool { return r.PlayerID == playerID })
	return removed
}

func (f *Frame) RemoveRoll(rollID int64) *Roll {
	idx := slices.IndexFunc(f.Rolls, func(r *Roll) bool { return r.ID == rollID })
	if idx == -1 {
		return nil
	}
	removed := f.Rolls[idx]
	f.Rolls = slices.Delete(f.Rolls, idx, idx+1)
	f.classifyPlayerRolls(removed.PlayerID)
	return removed
}

func (f *Frame) classifyPlayerRolls(playerID int64) {
	first := f.PlayerRoll(playerID, 1)
	for _, r := range f.Rolls {
		if r.PlayerID != playerID {
			continue
		}
		class := ClassifyRoll(r.RollNumber, r.PinsKnocked, first)
		r.IsStrike = class.Strike
		r.IsSpare = class.Spare
	}
}
