package bowling

// CheckRoll reports whether the player may record rollNumber with pins in the
// frame given the rolls already there. Checks run in a fixed order and the
// first broken rule is returned.
func CheckRoll(f *Frame, playerID int64, rollNumber, pins int) error {
	reject := func(rule Rule) error {
		return &ValidationError{
			PlayerID:    playerID,
			FrameID:     f.ID,
			FrameNumber: f.FrameNumber,
			RollNumber:  rollNumber,
			Rule:        rule,
		}
	}

	if pins < 0 || pins > MaxPins {
		return reject(RulePinsRange)
	}
	if !f.HasPlayer(playerID) {
		return reject(RulePlayerNotInFrame)
	}
	if rollNumber < 1 || rollNumber > MaxRollNumber {
		return reject(RuleRollNumberRange)
	}
	if f.PlayerRoll(playerID, rollNumber) != nil {
		return reject(RuleDuplicateRoll)
	}
	if rollNumber > 1 && f.PlayerRoll(playerID, rollNumber-1) == nil {
		return reject(RulePreviousMissing)
	}

	first := f.PlayerRoll(playerID, 1)
	if rollNumber > 1 && first == nil {
		return reject(RulePreviousMissing)
	}

	if rollNumber == 2 {
		switch {
		case !f.IsLast() && first.PinsKnocked == MaxPins:
			return reject(RuleRollAfterStrike)
		case first.PinsKnocked < MaxPins && first.PinsKnocked+pins > MaxPins:
			return reject(RuleFrameOverflow)
		}
	}

	if rollNumber == 3 {
		if !f.IsLast() {
			return reject(RuleThirdRollFrame)
		}
		second := f.PlayerRoll(playerID, 2)
		strike := first.PinsKnocked == MaxPins
		spare := !strike && first.PinsKnocked+second.PinsKnocked == MaxPins
		if !strike && !spare {
			return reject(RuleThirdRollNoBonus)
		}
		if strike && second.PinsKnocked < MaxPins && second.PinsKnocked+pins > MaxPins {
			return reject(RuleFillBallOverflow)
		}
	}

	return nil
}
