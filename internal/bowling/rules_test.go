package bowling

import (
	"testing"

	"BowlingLeagueApi/internal/assert"
)

func TestCheckRoll(t *testing.T) {
	tests := []struct {
		name       string
		frame      int
		existing   []int
		player     int64
		rollNumber int
		pins       int
		wantRule   Rule
	}{
		{name: "First Roll", frame: 1, player: 1, rollNumber: 1, pins: 7},
		{name: "Eleven Pins", frame: 1, player: 1, rollNumber: 1, pins: 11, wantRule: RulePinsRange},
		{name: "Unknown Player", frame: 1, player: 99, rollNumber: 1, pins: 3,
			wantRule: RulePlayerNotInFrame},
		{name: "Fourth Roll", frame: 10, existing: []int{10, 10, 10}, player: 1, rollNumber: 4,
			pins: 3, wantRule: RuleRollNumberRange},
		{name: "Duplicate First Roll", frame: 1, existing: []int{4}, player: 1, rollNumber: 1,
			pins: 3, wantRule: RuleDuplicateRoll},
		{name: "Second Before First", frame: 1, player: 1, rollNumber: 2, pins: 3,
			wantRule: RulePreviousMissing},
		{name: "Second After Strike", frame: 1, existing: []int{10}, player: 1, rollNumber: 2,
			pins: 0, wantRule: RuleRollAfterStrike},
		{name: "Frame Overflow", frame: 1, existing: []int{7}, player: 1, rollNumber: 2, pins: 4,
			wantRule: RuleFrameOverflow},
		{name: "Spare", frame: 1, existing: []int{7}, player: 1, rollNumber: 2, pins: 3},
		{name: "Third Roll Before Tenth", frame: 5, existing: []int{7, 3}, player: 1, rollNumber: 3,
			pins: 3, wantRule: RuleThirdRollFrame},
		{name: "Tenth Third Roll Without Bonus", frame: 10, existing: []int{7, 2}, player: 1,
			rollNumber: 3, pins: 3, wantRule: RuleThirdRollNoBonus},
		{name: "Tenth Overflow", frame: 10, existing: []int{7}, player: 1, rollNumber: 2, pins: 6,
			wantRule: RuleFrameOverflow},
		{name: "Tenth Second After Strike", frame: 10, existing: []int{10}, player: 1, rollNumber: 2,
			pins: 10},
		{name: "Tenth Fill Ball Overflow", frame: 10, existing: []int{10, 5}, player: 1,
			rollNumber: 3, pins: 6, wantRule: RuleFillBallOverflow},
		{name: "Tenth Fill Ball Spare", frame: 10, existing: []int{10, 5}, player: 1, rollNumber: 3,
			pins: 5},
		{name: "Tenth Turkey", frame: 10, existing: []int{10, 10}, player: 1, rollNumber: 3,
			pins: 10},
		{name: "Tenth Spare Fill", frame: 10, existing: []int{7, 3}, player: 1, rollNumber: 3,
			pins: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFrame(tt.frame, []int64{1}, []int64{2})
			f.ID = 40
			addPins(t, f, 1, tt.existing...)

			err := CheckRoll(f, tt.player, tt.rollNumber, tt.pins)
			if tt.wantRule == "" {
				assert.NilError(t, err)
				return
			}

			verr := assert.ErrorAs[*ValidationError](t, err)
			assert.Equal(t, verr.Rule, tt.wantRule)
			assert.Equal(t, verr.PlayerID, tt.player)
			assert.Equal(t, verr.FrameNumber, tt.frame)
			assert.Equal(t, verr.RollNumber, tt.rollNumber)
			assert.StringContains(t, verr.Error(), string(tt.wantRule))
		})
	}
}
