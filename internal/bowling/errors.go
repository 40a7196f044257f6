package bowling

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names the scoring rule a rejected roll violated.
type Rule string

const (
	RulePinsRange         Rule = "pins must be between 0 and 10"
	RulePlayerNotInFrame  Rule = "player is not listed in this frame"
	RuleRollNumberRange   Rule = "roll number must be between 1 and 3"
	RuleDuplicateRoll     Rule = "roll already recorded"
	RulePreviousMissing   Rule = "previous roll has not been recorded"
	RuleRollAfterStrike   Rule = "no second roll after a strike outside the 10th frame"
	RuleFrameOverflow     Rule = "first two rolls cannot exceed 10 pins"
	RuleThirdRollFrame    Rule = "third roll is only allowed in the 10th frame"
	RuleThirdRollNoBonus  Rule = "third roll requires a strike or spare in the 10th frame"
	RuleFillBallOverflow  Rule = "second and third roll cannot exceed 10 pins after a single strike"
	RuleUnparsableInput   Rule = "input could not be parsed"
	RuleScoresNotEditable Rule = "scores cannot be edited in the current match status"
)

// ValidationError reports a single rejected roll submission. Sibling rolls in
// the same batch keep being processed.
type ValidationError struct {
	PlayerID    int64
	FrameID     int64
	FrameNumber int
	RollNumber  int
	Rule        Rule
	Input       string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 4)
	if e.PlayerID != 0 {
		parts = append(parts, fmt.Sprintf("player %d", e.PlayerID))
	}
	if e.FrameNumber != 0 {
		parts = append(parts, fmt.Sprintf("frame %d", e.FrameNumber))
	}
	if e.RollNumber != 0 {
		parts = append(parts, fmt.Sprintf("roll %d", e.RollNumber))
	}
	msg := string(e.Rule)
	if e.Input != "" {
		msg = fmt.Sprintf("%s (%q)", msg, e.Input)
	}
	if len(parts) == 0 {
		return msg
	}
	return strings.Join(parts, ", ") + ": " + msg
}

// DomainError aborts a whole operation: nothing it would have changed is applied.
type DomainError struct {
	Op       string
	Reason   string
	Problems []string
}

func (e *DomainError) Error() string {
	if len(e.Problems) > 0 {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Reason, strings.Join(e.Problems, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NotFoundError reports a referenced match, frame or player id that does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsDomain(err error) bool {
	var target *DomainError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
