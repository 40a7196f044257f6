package bowling

import (
	"fmt"
	"slices"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{StatusDraft, StatusPlanned, StatusInProgress, StatusFinished, StatusCancelled}

// transitions lists the moves Match.Transition may make. Reaching finished
// needs Match.Finish, which checks completion and awards points.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusPlanned, StatusCancelled},
	StatusPlanned:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCancelled},
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !slices.Contains(Statuses, status) {
		return "", fmt.Errorf("unknown match status %q", s)
	}
	return status, nil
}

func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

func (s Status) CanTransition(to Status) bool {
	return slices.Contains(transitions[s], to)
}
