package bowling

import "time"

const (
	MaxPins       = 10
	LastFrame     = 10
	MaxRollNumber = 3
)

type Roll struct {
	ID          int64     `json:"id"`
	FrameID     int64     `json:"frame_id"`
	PlayerID    int64     `json:"player_id"`
	RollNumber  int       `json:"roll_number"`
	PinsKnocked int       `json:"pins_knocked"`
	IsStrike    bool      `json:"is_strike"`
	IsSpare     bool      `json:"is_spare"`
	CreatedBy   int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRoll checks the pin count and roll number ranges. Strike and spare flags
// are filled in once the roll is attached to its frame.
func NewRoll(frameID, playerID int64, rollNumber, pins int) (*Roll, error) {
	if pins < 0 || pins > MaxPins {
		return nil, &ValidationError{PlayerID: playerID, FrameID: frameID, RollNumber: rollNumber,
			Rule: RulePinsRange}
	}
	if rollNumber < 1 || rollNumber > MaxRollNumber {
		return nil, &ValidationError{PlayerID: playerID, FrameID: frameID, RollNumber: rollNumber,
			Rule: RuleRollNumberRange}
	}

	return &Roll{
		FrameID:     frameID,
		PlayerID:    playerID,
		RollNumber:  rollNumber,
		PinsKnocked: pins,
	}, nil
}

type RollClass struct {
	Strike bool
	Spare  bool
}

// ClassifyRoll derives strike/spare from the roll itself and the same player's
// first roll in the frame. A missing first roll never yields a spare.
func ClassifyRoll(rollNumber, pins int, first *Roll) RollClass {
	switch rollNumber {
	case 1:
		return RollClass{Strike: pins == MaxPins}
	case 2:
		if first == nil || first.PinsKnocked == MaxPins {
			return RollClass{}
		}
		return RollClass{Spare: first.PinsKnocked+pins == MaxPins}
	default:
		return RollClass{}
	}
}
