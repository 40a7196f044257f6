package bowling

import (
	"testing"

	"BowlingLeagueApi/internal/assert"
)

func newTestFrame(number int, teamA, teamB []int64) *Frame {
	return &Frame{
		FrameNumber:  number,
		LaneNumber:   1,
		GameNumber:   1,
		TeamAPlayers: teamA,
		TeamBPlayers: teamB,
	}
}

func addPins(t *testing.T, f *Frame, playerID int64, pins ...int) {
	t.Helper()

	for i, p := range pins {
		r, err := NewRoll(f.ID, playerID, i+1, p)
		if err != nil {
			t.Fatalf("new roll: %v", err)
		}
		f.AddRoll(r)
	}
}

func TestClassifyRoll(t *testing.T) {
	tests := []struct {
		name       string
		rollNumber int
		pins       int
		first      *Roll
		want       RollClass
	}{
		{name: "Strike", rollNumber: 1, pins: 10, want: RollClass{Strike: true}},
		{name: "Open First Roll", rollNumber: 1, pins: 9},
		{name: "Spare", rollNumber: 2, pins: 3, first: &Roll{RollNumber: 1, PinsKnocked: 7},
			want: RollClass{Spare: true}},
		{name: "Open Second Roll", rollNumber: 2, pins: 2, first: &Roll{RollNumber: 1, PinsKnocked: 7}},
		{name: "Ten On Second Roll Without First", rollNumber: 2, pins: 10},
		{name: "Ten After Strike", rollNumber: 2, pins: 10, first: &Roll{RollNumber: 1, PinsKnocked: 10}},
		{name: "Gutter Then Ten", rollNumber: 2, pins: 10, first: &Roll{RollNumber: 1, PinsKnocked: 0},
			want: RollClass{Spare: true}},
		{name: "Third Roll", rollNumber: 3, pins: 10, first: &Roll{RollNumber: 1, PinsKnocked: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRoll(tt.rollNumber, tt.pins, tt.first)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestNewRoll(t *testing.T) {
	tests := []struct {
		name       string
		rollNumber int
		pins       int
		wantRule   Rule
	}{
		{name: "Valid", rollNumber: 1, pins: 7},
		{name: "Too Many Pins", rollNumber: 1, pins: 11, wantRule: RulePinsRange},
		{name: "Negative Pins", rollNumber: 1, pins: -1, wantRule: RulePinsRange},
		{name: "Roll Zero", rollNumber: 0, pins: 5, wantRule: RuleRollNumberRange},
		{name: "Roll Four", rollNumber: 4, pins: 5, wantRule: RuleRollNumberRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRoll(1, 2, tt.rollNumber, tt.pins)
			if tt.wantRule == "" {
				assert.NilError(t, err)
				assert.Equal(t, r.PinsKnocked, tt.pins)
				return
			}
			verr := assert.ErrorAs[*ValidationError](t, err)
			assert.Equal(t, verr.Rule, tt.wantRule)
		})
	}
}

func TestFrameFlags(t *testing.T) {
	f := newTestFrame(1, []int64{1}, []int64{2})
	addPins(t, f, 1, 10)
	addPins(t, f, 2, 7, 3)

	assert.Equal(t, f.IsPlayerStrike(1), true)
	assert.Equal(t, f.IsPlayerSpare(1), false)
	assert.Equal(t, f.IsPlayerStrike(2), false)
	assert.Equal(t, f.IsPlayerSpare(2), true)
	assert.Equal(t, f.PlayerRoll(1, 1).IsStrike, true)
	assert.Equal(t, f.PlayerRoll(2, 2).IsSpare, true)
	assert.Equal(t, f.SideStrikes(SideA), 1)
	assert.Equal(t, f.SideSpares(SideB), 1)

	removed := f.RemovePlayerRolls(2)
	assert.Equal(t, len(removed), 2)
	assert.Equal(t, f.IsPlayerSpare(2), false)
	assert.Equal(t, len(f.PlayerRolls(1)), 1)
}

func TestFramePlayerScore(t *testing.T) {
	tests := []struct {
		name     string
		number   int
		pins     []int
		next     []int
		nextLast bool
		nextNext []int
		want     int
	}{
		{name: "Open Frame", number: 1, pins: []int{5, 3}, want: 8},
		{name: "Strike", number: 1, pins: []int{10}, next: []int{5, 3}, want: 18},
		{name: "Spare", number: 1, pins: []int{7, 3}, next: []int{5, 2}, want: 15},
		{name: "Strike Without Lookahead", number: 1, pins: []int{10}, want: 10},
		{name: "Strike With Empty Next Frame", number: 1, pins: []int{10}, next: []int{}, want: 10},
		{name: "Double Strike", number: 1, pins: []int{10}, next: []int{10}, nextNext: []int{7, 2},
			want: 27},
		{name: "Double Strike Without Next Next", number: 1, pins: []int{10}, next: []int{10},
			want: 20},
		{name: "Turkey", number: 1, pins: []int{10}, next: []int{10}, nextNext: []int{10}, want: 30},
		{name: "Strike Before Tenth", number: 9, pins: []int{10}, next: []int{10, 4, 3},
			nextLast: true, want: 24},
		{name: "Spare Before Tenth", number: 9, pins: []int{6, 4}, next: []int{10, 10, 10},
			nextLast: true, want: 20},
		{name: "Perfect Tenth", number: 10, pins: []int{10, 10, 10}, next: []int{10}, want: 30},
		{name: "Tenth Spare", number: 10, pins: []int{9, 1, 8}, want: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFrame(tt.number, []int64{1}, []int64{2})
			addPins(t, f, 1, tt.pins...)

			var next, nextNext *Frame
			if tt.next != nil {
				n := tt.number + 1
				if tt.nextLast {
					n = LastFrame
				}
				next = newTestFrame(n, []int64{1}, []int64{2})
				addPins(t, next, 1, tt.next...)
			}
			if tt.nextNext != nil {
				nextNext = newTestFrame(tt.number+2, []int64{1}, []int64{2})
				addPins(t, nextNext, 1, tt.nextNext...)
			}

			assert.Equal(t, f.PlayerScore(1, next, nextNext), tt.want)
		})
	}
}

func TestFrameTeamScoreKeepsPlayersApart(t *testing.T) {
	f := newTestFrame(1, []int64{1, 2}, []int64{3})
	next := newTestFrame(2, []int64{1, 2}, []int64{3})
	addPins(t, f, 1, 10)
	addPins(t, f, 2, 4, 4)
	addPins(t, f, 3, 6, 4)
	addPins(t, next, 1, 1, 1)
	addPins(t, next, 2, 9, 0)
	addPins(t, next, 3, 5, 0)

	assert.Equal(t, f.TeamAScore(next, nil), 12+8)
	assert.Equal(t, f.TeamBScore(next, nil), 15)
}

func TestFrameCompletion(t *testing.T) {
	tests := []struct {
		name   string
		number int
		pins   []int
		want   bool
	}{
		{name: "Strike Needs One Roll", number: 4, pins: []int{10}, want: true},
		{name: "Open Needs Two Rolls", number: 4, pins: []int{7}, want: false},
		{name: "Open With Two Rolls", number: 4, pins: []int{7, 1}, want: true},
		{name: "No Rolls", number: 4, want: false},
		{name: "Tenth Open With Two Rolls", number: 10, pins: []int{7, 1}, want: true},
		{name: "Tenth Strike With Two Rolls", number: 10, pins: []int{10, 3}, want: false},
		{name: "Tenth Strike With Three Rolls", number: 10, pins: []int{10, 3, 4}, want: true},
		{name: "Tenth Spare With Two Rolls", number: 10, pins: []int{6, 4}, want: false},
		{name: "Tenth Spare With Three Rolls", number: 10, pins: []int{6, 4, 2}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFrame(tt.number, []int64{1}, []int64{2})
			addPins(t, f, 1, tt.pins...)
			assert.Equal(t, f.IsPlayerComplete(1), tt.want)
			assert.Equal(t, f.IsTeamAComplete(), tt.want)
			assert.Equal(t, f.IsComplete(), false)
		})
	}
}

func TestFrameEmptySideNeverComplete(t *testing.T) {
	f := newTestFrame(1, []int64{1}, nil)
	addPins(t, f, 1, 10)

	assert.Equal(t, f.IsTeamAComplete(), true)
	assert.Equal(t, f.IsTeamBComplete(), false)
	assert.Equal(t, f.IsComplete(), false)
}

func TestFramePlayerSides(t *testing.T) {
	f := newTestFrame(1, []int64{1}, []int64{2})
	f.AddPlayer(SideB, 1)

	assert.Equal(t, f.SideOf(1), SideB)
	assert.SliceEqual(t, f.TeamAPlayers, []int64{})
	assert.SliceEqual(t, f.Players(), []int64{2, 1})
	assert.Equal(t, f.String(), "Frame 1 (Game 1, Lane 1)")
}
