package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"BowlingLeagueApi/internal/bowling"
)

// RollStore persists rolls. ReplacePlayerRolls must delete the player's rolls
// in the frame and insert the new ones as one unit of work.
type RollStore interface {
	InsertRoll(ctx context.Context, roll *bowling.Roll) error
	ReplacePlayerRolls(ctx context.Context, frameID, playerID int64, rolls []*bowling.Roll) error
	DeleteRoll(ctx context.Context, rollID int64) error
	UpdateRolls(ctx context.Context, rolls []*bowling.Roll) error
}

type RollService struct {
	store   RollStore
	logger  *slog.Logger
	metrics *Metrics
}

func NewRollService(store RollStore, logger *slog.Logger, metrics *Metrics) *RollService {
	return &RollService{store: store, logger: logger, metrics: metrics}
}

// AddRoll validates a single roll against the frame, persists it and attaches
// it to the frame.
func (s *RollService) AddRoll(ctx context.Context, f *bowling.Frame, playerID int64, rollNumber,
	pins int, actor int64) (*bowling.Roll, error) {
	if err := bowling.CheckRoll(f, playerID, rollNumber, pins); err != nil {
		s.metrics.rejected(err)
		return nil, err
	}

	roll, err := bowling.NewRoll(f.ID, playerID, rollNumber, pins)
	if err != nil {
		return nil, err
	}
	roll.CreatedBy = actor
	class := bowling.ClassifyRoll(rollNumber, pins, f.PlayerRoll(playerID, 1))
	roll.IsStrike, roll.IsSpare = class.Strike, class.Spare

	if err := s.store.InsertRoll(ctx, roll); err != nil {
		return nil, fmt.Errorf("insert roll: %w", err)
	}

	f.AddRoll(roll)
	s.metrics.recorded(1)
	return roll, nil
}

// DeleteRoll removes a roll, refusing to leave a gap before a later roll of
// the same player.
func (s *RollService) DeleteRoll(ctx context.Context, f *bowling.Frame, rollID int64) error {
	var target *bowling.Roll
	for _, r := range f.Rolls {
		if r.ID == rollID {
			target = r
		}
	}
	if target == nil {
		return &bowling.NotFoundError{Kind: "roll", ID: rollID}
	}
	if f.PlayerRoll(target.PlayerID, target.RollNumber+1) != nil {
		return &bowling.DomainError{Op: "delete roll", Reason: "later rolls of the player must be removed first"}
	}

	if err := s.store.DeleteRoll(ctx, rollID); err != nil {
		return fmt.Errorf("delete roll: %w", err)
	}
	f.RemoveRoll(rollID)
	return nil
}

// UpdateRoll changes the pin count of a stored roll. The player's whole
// sequence in the frame is checked again with the new count, and every roll
// whose strike or spare flag depends on it is stored with the roll.
func (s *RollService) UpdateRoll(ctx context.Context, f *bowling.Frame, rollID int64,
	pins int) (*bowling.Roll, error) {
	var target *bowling.Roll
	for _, r := range f.Rolls {
		if r.ID == rollID {
			target = r
		}
	}
	if target == nil {
		return nil, &bowling.NotFoundError{Kind: "roll", ID: rollID}
	}

	scratch := *f
	scratch.Rolls = nil
	for _, r := range f.Rolls {
		if r.PlayerID != target.PlayerID {
			scratch.Rolls = append(scratch.Rolls, r)
		}
	}

	var updated []*bowling.Roll
	for _, r := range f.PlayerRolls(target.PlayerID) {
		edit := *r
		if edit.ID == rollID {
			edit.PinsKnocked = pins
		}
		if err := bowling.CheckRoll(&scratch, edit.PlayerID, edit.RollNumber, edit.PinsKnocked); err != nil {
			s.metrics.rejected(err)
			return nil, err
		}
		scratch.AddRoll(&edit)
		updated = append(updated, &edit)
	}

	if err := s.store.UpdateRolls(ctx, updated); err != nil {
		return nil, fmt.Errorf("update roll %d: %w", rollID, err)
	}

	f.RemovePlayerRolls(target.PlayerID)
	var result *bowling.Roll
	for _, r := range updated {
		f.AddRoll(r)
		if r.ID == rollID {
			result = r
		}
	}

	s.logger.Debug("roll updated",
		slog.Int64("frame_id", f.ID),
		slog.Int64("roll_id", rollID),
		slog.Int("pins", pins))
	return result, nil
}

// ReplaceResult holds the rolls that were stored and the ones rejected.
type ReplaceResult struct {
	Rolls    []*bowling.Roll
	Rejected []*bowling.ValidationError
}

// ReplacePlayerRolls swaps all of the player's rolls in the frame for pins.
// Each roll is checked in order against the rolls accepted before it; rejected
// rolls are reported and skipped. The accepted set replaces the stored one
// atomically, so replaying the same pins yields the same rolls.
func (s *RollService) ReplacePlayerRolls(ctx context.Context, f *bowling.Frame, playerID int64,
	pins []int, actor int64) (*ReplaceResult, error) {
	if !f.HasPlayer(playerID) {
		return nil, &bowling.ValidationError{PlayerID: playerID, FrameID: f.ID,
			FrameNumber: f.FrameNumber, Rule: bowling.RulePlayerNotInFrame}
	}

	scratch := *f
	scratch.Rolls = nil
	for _, r := range f.Rolls {
		if r.PlayerID != playerID {
			scratch.Rolls = append(scratch.Rolls, r)
		}
	}

	result := &ReplaceResult{}
	for i, p := range pins {
		rollNumber := i + 1
		if err := bowling.CheckRoll(&scratch, playerID, rollNumber, p); err != nil {
			var verr *bowling.ValidationError
			if errors.As(err, &verr) {
				result.Rejected = append(result.Rejected, verr)
				s.metrics.rejected(err)
				continue
			}
			return nil, err
		}
		roll, err := bowling.NewRoll(f.ID, playerID, rollNumber, p)
		if err != nil {
			return nil, err
		}
		roll.CreatedBy = actor
		scratch.AddRoll(roll)
		result.Rolls = append(result.Rolls, roll)
	}

	if err := s.store.ReplacePlayerRolls(ctx, f.ID, playerID, result.Rolls); err != nil {
		return nil, fmt.Errorf("replace rolls for player %d in frame %d: %w", playerID, f.ID, err)
	}

	f.RemovePlayerRolls(playerID)
	for _, r := range result.Rolls {
		f.AddRoll(r)
	}

	s.metrics.recorded(len(result.Rolls))
	s.logger.Debug("player rolls replaced",
		slog.Int64("frame_id", f.ID),
		slog.Int64("player_id", playerID),
		slog.Int("stored", len(result.Rolls)),
		slog.Int("rejected", len(result.Rejected)))

	return result, nil
}

// CopyPlayerRolls copies the player's pins from one frame into another,
// replacing whatever the target held.
func (s *RollService) CopyPlayerRolls(ctx context.Context, from, to *bowling.Frame, playerID int64,
	actor int64) (*ReplaceResult, error) {
	return s.ReplacePlayerRolls(ctx, to, playerID, from.PlayerPins(playerID), actor)
}

// ScoreEntry is one player's input for one frame: either explicit pins per
// roll number or shorthand notation.
type ScoreEntry struct {
	FrameID  int64  `json:"frame_id"`
	PlayerID int64  `json:"player_id"`
	Pins     []int  `json:"rolls,omitempty"`
	Notation string `json:"input,omitempty"`
}

func (e ScoreEntry) empty() bool {
	return len(e.Pins) == 0 && strings.TrimSpace(e.Notation) == ""
}

type Warning struct {
	FrameID     int64  `json:"frame_id"`
	FrameNumber int    `json:"frame_number,omitempty"`
	PlayerID    int64  `json:"player_id"`
	RollNumber  int    `json:"roll_number,omitempty"`
	Message     string `json:"message"`
}

func warningFrom(err error, entry ScoreEntry) Warning {
	w := Warning{FrameID: entry.FrameID, PlayerID: entry.PlayerID, Message: err.Error()}
	var verr *bowling.ValidationError
	if errors.As(err, &verr) {
		w.FrameNumber = verr.FrameNumber
		w.RollNumber = verr.RollNumber
	}
	return w
}

type Report struct {
	Saved    int       `json:"saved"`
	Skipped  int       `json:"skipped"`
	Warnings []Warning `json:"warnings"`
	Finished bool      `json:"finished"`
}

// SaveScores applies a batch of entries to an in-progress match. Unknown
// frames, unparsable input and illegal rolls become warnings while the rest of
// the batch goes on; a store failure aborts the batch.
func (s *RollService) SaveScores(ctx context.Context, m *bowling.Match, entries []ScoreEntry,
	actor int64) (*Report, error) {
	if !m.CanEditScores() {
		return nil, &bowling.DomainError{Op: "save scores", Reason: string(bowling.RuleScoresNotEditable)}
	}

	report := &Report{Warnings: make([]Warning, 0)}
	for _, entry := range entries {
		if entry.empty() {
			report.Skipped++
			continue
		}

		f := m.Frame(entry.FrameID)
		if f == nil {
			report.Warnings = append(report.Warnings,
				warningFrom(&bowling.NotFoundError{Kind: "frame", ID: entry.FrameID}, entry))
			continue
		}

		pins := entry.Pins
		if len(pins) == 0 {
			parsed, ok := bowling.ParseNotation(entry.Notation, f.FrameNumber)
			if !ok {
				err := &bowling.ValidationError{PlayerID: entry.PlayerID, FrameID: f.ID,
					FrameNumber: f.FrameNumber, Rule: bowling.RuleUnparsableInput, Input: entry.Notation}
				s.metrics.rejected(err)
				report.Warnings = append(report.Warnings, warningFrom(err, entry))
				continue
			}
			pins = parsed
		}

		result, err := s.ReplacePlayerRolls(ctx, f, entry.PlayerID, pins, actor)
		if err != nil {
			if bowling.IsValidation(err) {
				report.Warnings = append(report.Warnings, warningFrom(err, entry))
				continue
			}
			return nil, err
		}

		report.Saved++
		for _, verr := range result.Rejected {
			report.Warnings = append(report.Warnings, warningFrom(verr, entry))
		}
	}

	if len(report.Warnings) > 0 {
		s.logger.Info("scores saved with warnings",
			slog.Int64("match_id", m.ID),
			slog.Int("saved", report.Saved),
			slog.Int("warnings", len(report.Warnings)))
	}

	return report, nil
}
