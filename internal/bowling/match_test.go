package bowling

import (
	"testing"
	"time"

	"BowlingLeagueApi/internal/assert"
)

func frames(regular []int, last []int) [][]int {
	out := make([][]int, 0, FramesPerGame)
	for i := 1; i < FramesPerGame; i++ {
		out = append(out, regular)
	}
	return append(out, last)
}

var (
	perfectGame = frames([]int{10}, []int{10, 10, 10})
	open44      = frames([]int{4, 4}, []int{4, 4})
	open33      = frames([]int{3, 3}, []int{3, 3})
	open54      = frames([]int{5, 4}, []int{5, 4})
)

func bowlGame(t *testing.T, m *Match, playerID int64, game int, pins [][]int) {
	t.Helper()

	for i, p := range pins {
		f := m.FindFrame(game, i+1, playerID)
		if f == nil {
			t.Fatalf("no frame %d in game %d for player %d", i+1, game, playerID)
		}
		addPins(t, f, playerID, p...)
	}
}

func newIndividualMatch(t *testing.T) *Match {
	t.Helper()

	m := NewMatch(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), nil, 99)
	err := Generate(m, GenerateRequest{Type: MatchTypeIndividual, PlayerA: 1, PlayerB: 2,
		StartLane: 3}, 99)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return m
}

func newTeamMatch(t *testing.T) *Match {
	t.Helper()

	m := NewMatch(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), nil, 99)
	err := Generate(m, GenerateRequest{
		Type:         MatchTypeTeam,
		TeamA:        10,
		TeamB:        20,
		TeamAPlayers: []int64{1, 2, 3},
		TeamBPlayers: []int64{4, 5, 6},
		StartLane:    1,
	}, 99)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return m
}

func TestMatchPlayerTotalScore(t *testing.T) {
	m := newIndividualMatch(t)
	bowlGame(t, m, 1, 1, perfectGame)
	bowlGame(t, m, 1, 2, open44)
	bowlGame(t, m, 2, 1, open33)

	assert.Equal(t, m.PlayerTotalScore(1), 380)
	assert.Equal(t, m.PlayerLaneGameScore(1, 1), 300)
	assert.Equal(t, m.PlayerLaneGameScore(1, 2), 80)
	assert.Equal(t, m.PlayerTotalScore(2), 60)
	assert.Equal(t, m.TeamAScore(), 380)
	assert.Equal(t, m.TeamBScore(), 60)
}

func TestMatchLookaheadStaysInLaneGame(t *testing.T) {
	m := newIndividualMatch(t)
	game1 := [][]int{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {10}}
	bowlGame(t, m, 1, 1, game1)
	bowlGame(t, m, 1, 2, perfectGame)

	assert.Equal(t, m.PlayerLaneGameScore(1, 1), 10)
	assert.Equal(t, m.PlayerLaneGameScore(1, 2), 300)
	assert.Equal(t, m.PlayerTotalScore(1), 310)
}

func TestMatchTeamLanesDoNotCollide(t *testing.T) {
	m := newTeamMatch(t)
	games := map[int64][][]int{1: open44, 2: perfectGame, 3: open33, 4: open54, 5: open33, 6: open33}
	for player, pins := range games {
		bowlGame(t, m, player, 1, pins)
		bowlGame(t, m, player, 2, pins)
	}

	assert.Equal(t, m.PlayerTotalScore(1), 160)
	assert.Equal(t, m.PlayerTotalScore(2), 600)
	assert.Equal(t, m.PlayerTotalScore(3), 120)
	assert.Equal(t, m.TeamAScore(), 880)
	assert.Equal(t, m.TeamBScore(), 180+120+120)
	assert.SliceEqual(t, m.TeamAPlayers(), []int64{1, 2, 3})
	assert.SliceEqual(t, m.Players(), []int64{1, 2, 3, 4, 5, 6})
}

func TestMatchCalculatePoints(t *testing.T) {
	tests := []struct {
		name    string
		aGame1  [][]int
		aGame2  [][]int
		bGame1  [][]int
		bGame2  [][]int
		wantA   int
		wantB   int
		winner  string
		winSide Side
	}{
		{name: "Sweep", aGame1: open54, aGame2: open54, bGame1: open33, bGame2: open33,
			wantA: 4, wantB: 0, winner: WinnerPlayerA, winSide: SideA},
		{name: "Split", aGame1: open44, aGame2: open33, bGame1: open33, bGame2: open44,
			wantA: 2, wantB: 2, winner: Draw, winSide: SideNone},
		{name: "Split By Different Margins", aGame1: perfectGame, aGame2: open33, bGame1: open33,
			bGame2: open44, wantA: 2, wantB: 2, winner: WinnerPlayerA, winSide: SideA},
		{name: "Tie And Loss", aGame1: open44, aGame2: open33, bGame1: open44, bGame2: open54,
			wantA: 1, wantB: 3, winner: WinnerPlayerB, winSide: SideB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newIndividualMatch(t)
			bowlGame(t, m, 1, 1, tt.aGame1)
			bowlGame(t, m, 1, 2, tt.aGame2)
			bowlGame(t, m, 2, 1, tt.bGame1)
			bowlGame(t, m, 2, 2, tt.bGame2)

			m.CalculatePoints()
			if m.TeamAPoints != nil {
				t.Fatalf("points computed before the match finished")
			}
			assert.Equal(t, m.Winner(nil), "")

			assert.NilError(t, m.Transition(StatusInProgress))
			assert.NilError(t, m.Finish())

			assert.IntPtrEqual(t, m.TeamAPoints, tt.wantA)
			assert.IntPtrEqual(t, m.TeamBPoints, tt.wantB)
			assert.IntPtrEqual(t, m.PlayerPoints(2), tt.wantB)
			side, ok := m.WinningSide()
			assert.Equal(t, ok, true)
			assert.Equal(t, side, tt.winSide)
			assert.Equal(t, m.Winner(nil), tt.winner)
		})
	}
}

func TestMatchTeamPointsAndWinner(t *testing.T) {
	m := newTeamMatch(t)
	for _, p := range []int64{1, 2, 3} {
		bowlGame(t, m, p, 1, open54)
		bowlGame(t, m, p, 2, open33)
	}
	for _, p := range []int64{4, 5, 6} {
		bowlGame(t, m, p, 1, open44)
		bowlGame(t, m, p, 2, open44)
	}

	assert.NilError(t, m.Transition(StatusInProgress))
	assert.NilError(t, m.Finish())

	assert.IntPtrEqual(t, m.TeamAPoints, 2)
	assert.IntPtrEqual(t, m.TeamBPoints, 2)
	assert.Equal(t, m.Winner(nil), WinnerTeamB)
}

func TestMatchWinnerUsesPlayerName(t *testing.T) {
	m := newIndividualMatch(t)
	bowlGame(t, m, 1, 1, open33)
	bowlGame(t, m, 1, 2, open33)
	bowlGame(t, m, 2, 1, open44)
	bowlGame(t, m, 2, 2, open44)
	m.Status = StatusFinished

	players := map[int64]Player{2: {ID: 2, FirstName: "Ada", LastName: "Pinsetter"}}
	assert.Equal(t, m.Winner(players), "Ada Pinsetter")
}

func TestMatchIsComplete(t *testing.T) {
	m := NewMatch(time.Now(), nil, 1)
	assert.Equal(t, m.IsComplete(), false)

	m = newIndividualMatch(t)
	bowlGame(t, m, 1, 1, open33)
	bowlGame(t, m, 1, 2, open33)
	bowlGame(t, m, 2, 1, open33)
	assert.Equal(t, m.IsComplete(), false)

	bowlGame(t, m, 2, 2, frames([]int{3}, []int{3}))
	assert.Equal(t, m.IsComplete(), true)
}

func TestMatchFinish(t *testing.T) {
	m := newIndividualMatch(t)

	err := m.Finish()
	assert.ErrorAs[*DomainError](t, err)

	assert.NilError(t, m.Transition(StatusInProgress))
	err = m.Finish()
	derr := assert.ErrorAs[*DomainError](t, err)
	assert.StringContains(t, derr.Error(), "every player")
	assert.Equal(t, m.Status, StatusInProgress)

	err = m.Transition(StatusFinished)
	assert.ErrorAs[*DomainError](t, err)
	assert.Equal(t, m.Status, StatusInProgress)
	assert.Equal(t, m.TeamAPoints == nil, true)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusDraft, StatusPlanned, true},
		{StatusDraft, StatusInProgress, false},
		{StatusPlanned, StatusInProgress, true},
		{StatusInProgress, StatusFinished, false},
		{StatusPlanned, StatusFinished, false},
		{StatusDraft, StatusCancelled, true},
		{StatusPlanned, StatusCancelled, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusFinished, StatusCancelled, false},
		{StatusCancelled, StatusPlanned, false},
		{StatusFinished, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			m := &Match{Status: tt.from}
			err := m.Transition(tt.to)
			assert.Equal(t, err == nil, tt.want)
			if !tt.want {
				assert.Equal(t, m.Status, tt.from)
			}
		})
	}
}

func TestMatchCancel(t *testing.T) {
	m := &Match{Status: StatusFinished}
	assert.ErrorAs[*DomainError](t, m.Cancel())

	m = &Match{Status: StatusPlanned}
	assert.NilError(t, m.Cancel())
	assert.Equal(t, m.Status, StatusCancelled)
	assert.ErrorAs[*DomainError](t, m.Cancel())
}

func TestLaneGames(t *testing.T) {
	m := newTeamMatch(t)
	games := LaneGames(m.Frames, 2)

	assert.Equal(t, len(games), 2)
	for i, g := range games {
		assert.Equal(t, g.GameNumber, i+1)
		assert.Equal(t, len(g.Frames), FramesPerGame)
		for n, f := range g.Frames {
			assert.Equal(t, f.FrameNumber, n+1)
			assert.Equal(t, f.HasPlayer(2), true)
		}
	}
	assert.SliceEqual(t, GameNumbers(m.Frames), []int{1, 2})
	assert.Equal(t, len(LaneGames(m.Frames, 42)), 0)
}

func TestLaneGameRunningTotals(t *testing.T) {
	m := newIndividualMatch(t)
	bowlGame(t, m, 1, 1, perfectGame)

	games := LaneGames(m.Frames, 1)
	totals := games[0].RunningTotals(1)
	assert.SliceEqual(t, totals, []int{30, 60, 90, 120, 150, 180, 210, 240, 270, 300})
	assert.Equal(t, games[1].Score(1), 0)
}
