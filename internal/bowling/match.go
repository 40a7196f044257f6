package bowling

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

const (
	Draw          = "DRAW"
	WinnerTeamA   = "Team A"
	WinnerTeamB   = "Team B"
	WinnerPlayerA = "Player A"
	WinnerPlayerB = "Player B"
)

type Match struct {
	ID          int64     `json:"id"`
	Pin         string    `json:"pin"`
	LeagueID    *int64    `json:"league_id,omitempty"`
	TeamAID     *int64    `json:"team_a_id,omitempty"`
	TeamBID     *int64    `json:"team_b_id,omitempty"`
	Status      Status    `json:"status"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	Frames      []*Frame  `json:"frames,omitempty"`
	TeamAPoints *int      `json:"team_a_points"`
	TeamBPoints *int      `json:"team_b_points"`
	Version     int       `json:"-"`
	CreatedBy   int64     `json:"-"`
	UpdatedBy   int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewMatch(date time.Time, leagueID *int64, actor int64) *Match {
	return &Match{
		LeagueID:  leagueID,
		Status:    StatusDraft,
		Date:      date,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
}

func (m *Match) IsTeamMatch() bool {
	return m.TeamAID != nil && m.TeamBID != nil
}

// AddFrame attaches a frame and keeps frames ordered by lane, game and frame number.
func (m *Match) AddFrame(f *Frame) {
	f.MatchID = m.ID
	m.Frames = append(m.Frames, f)
	m.sortFrames()
}

func (m *Match) RemoveFrames() []*Frame {
	removed := m.Frames
	m.Frames = nil
	return removed
}

func (m *Match) sortFrames() {
	slices.SortStableFunc(m.Frames, func(a, b *Frame) int {
		if c := cmp.Compare(a.LaneNumber, b.LaneNumber); c != 0 {
			return c
		}
		if c := cmp.Compare(a.GameNumber, b.GameNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.FrameNumber, b.FrameNumber)
	})
}

func (m *Match) Frame(id int64) *Frame {
	for _, f := range m.Frames {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// FindFrame looks a frame up by its position rather than its id.
func (m *Match) FindFrame(gameNumber, frameNumber int, playerID int64) *Frame {
	for _, f := range m.Frames {
		if f.GameNumber == gameNumber && f.FrameNumber == frameNumber && f.HasPlayer(playerID) {
			return f
		}
	}
	return nil
}

func (m *Match) sidePlayers(side Side, gameNumber int) []int64 {
	players := make([]int64, 0, 3)
	for _, f := range m.Frames {
		if gameNumber != 0 && f.GameNumber != gameNumber {
			continue
		}
		for _, p := range f.sidePlayers(side) {
			if !slices.Contains(players, p) {
				players = append(players, p)
			}
		}
	}
	return players
}

func (m *Match) TeamAPlayers() []int64 {
	return m.sidePlayers(SideA, 0)
}

func (m *Match) TeamBPlayers() []int64 {
	return m.sidePlayers(SideB, 0)
}

// Players lists every player of the match once, side A first.
func (m *Match) Players() []int64 {
	players := m.TeamAPlayers()
	for _, p := range m.TeamBPlayers() {
		if !slices.Contains(players, p) {
			players = append(players, p)
		}
	}
	return players
}

func (m *Match) SideOf(playerID int64) Side {
	for _, f := range m.Frames {
		if side := f.SideOf(playerID); side != SideNone {
			return side
		}
	}
	return SideNone
}

func (m *Match) PlayerTotalScore(playerID int64) int {
	total := 0
	for _, g := range LaneGames(m.Frames, playerID) {
		total += g.Score(playerID)
	}
	return total
}

func (m *Match) PlayerLaneGameScore(playerID int64, gameNumber int) int {
	for _, g := range LaneGames(m.Frames, playerID) {
		if g.GameNumber == gameNumber {
			return g.Score(playerID)
		}
	}
	return 0
}

func (m *Match) sideScore(side Side, gameNumber int) int {
	score := 0
	for _, p := range m.sidePlayers(side, gameNumber) {
		if gameNumber == 0 {
			score += m.PlayerTotalScore(p)
		} else {
			score += m.PlayerLaneGameScore(p, gameNumber)
		}
	}
	return score
}

func (m *Match) TeamAScore() int {
	return m.sideScore(SideA, 0)
}

func (m *Match) TeamBScore() int {
	return m.sideScore(SideB, 0)
}

// LaneGameScores returns side A and side B scores for a single lane-game.
func (m *Match) LaneGameScores(gameNumber int) (int, int) {
	return m.sideScore(SideA, gameNumber), m.sideScore(SideB, gameNumber)
}

// IsComplete reports whether every player of the match has at least one roll
// in every frame they are listed in. It gates the finish transition.
func (m *Match) IsComplete() bool {
	if len(m.Frames) == 0 {
		return false
	}
	for _, f := range m.Frames {
		for _, p := range f.Players() {
			if len(f.PlayerRolls(p)) == 0 {
				return false
			}
		}
	}
	return true
}

// CalculatePoints awards 2 points per won lane-game and 1 each on a tie. It
// does nothing until the match is finished.
func (m *Match) CalculatePoints() {
	if m.Status != StatusFinished {
		return
	}

	pointsA, pointsB := 0, 0
	for _, n := range GameNumbers(m.Frames) {
		a, b := m.LaneGameScores(n)
		switch {
		case a > b:
			pointsA += 2
		case b > a:
			pointsB += 2
		default:
			pointsA++
			pointsB++
		}
	}

	m.TeamAPoints = &pointsA
	m.TeamBPoints = &pointsB
}

// PlayerPoints returns the match points credited to the player's side, or nil
// when points have not been computed.
func (m *Match) PlayerPoints(playerID int64) *int {
	switch m.SideOf(playerID) {
	case SideA:
		return m.TeamAPoints
	case SideB:
		return m.TeamBPoints
	default:
		return nil
	}
}

// WinningSide compares total scores of a finished match. SideNone with ok set
// means a draw.
func (m *Match) WinningSide() (side Side, ok bool) {
	if m.Status != StatusFinished {
		return SideNone, false
	}
	a, b := m.TeamAScore(), m.TeamBScore()
	switch {
	case a > b:
		return SideA, true
	case b > a:
		return SideB, true
	default:
		return SideNone, true
	}
}

// Winner labels the winning side of a finished match, or returns "" while the
// match is still open. Individual matches use the winner's name when players
// holds it.
func (m *Match) Winner(players map[int64]Player) string {
	side, ok := m.WinningSide()
	if !ok {
		return ""
	}
	if side == SideNone {
		return Draw
	}

	if m.IsTeamMatch() {
		if side == SideA {
			return WinnerTeamA
		}
		return WinnerTeamB
	}

	if ids := m.sidePlayers(side, 0); len(ids) > 0 {
		if p, found := players[ids[0]]; found && p.FullName() != "" {
			return p.FullName()
		}
	}
	if side == SideA {
		return WinnerPlayerA
	}
	return WinnerPlayerB
}

func (m *Match) CanEditScores() bool {
	return m.Status == StatusInProgress
}

func (m *Match) Transition(to Status) error {
	if !m.Status.CanTransition(to) {
		return &DomainError{
			Op:     "transition",
			Reason: fmt.Sprintf("match cannot move from %s to %s", m.Status, to),
		}
	}
	m.Status = to
	return nil
}

// Finish closes a complete, in-progress match and computes its points.
func (m *Match) Finish() error {
	if m.Status != StatusInProgress {
		return &DomainError{Op: "finish", Reason: "only a match in progress can be finished"}
	}
	if !m.IsComplete() {
		return &DomainError{Op: "finish", Reason: "every player needs a score in every frame"}
	}

	m.Status = StatusFinished
	m.CalculatePoints()
	return nil
}

func (m *Match) Cancel() error {
	if m.Status.IsTerminal() {
		return &DomainError{Op: "cancel", Reason: fmt.Sprintf("match is already %s", m.Status)}
	}
	m.Status = StatusCancelled
	return nil
}
