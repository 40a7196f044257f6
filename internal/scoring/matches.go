package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"BowlingLeagueApi/internal/bowling"
)

var ErrNoPlayers = errors.New("match has no players to notify")

type MatchStore interface {
	Update(ctx context.Context, m *bowling.Match) error
	InsertFrames(ctx context.Context, m *bowling.Match) error
	DeleteFrames(ctx context.Context, m *bowling.Match) error
	GetFinished(ctx context.Context, leagueID *int64) ([]*bowling.Match, error)
}

type PlayerDirectory interface {
	GetPlayers(ctx context.Context, ids []int64) ([]bowling.Player, error)
}

// Notifier tells players about schedule changes. Delivery failures are
// logged and never fail the operation that triggered them.
type Notifier interface {
	MatchScheduled(ctx context.Context, m *bowling.Match, players []bowling.Player) error
	MatchCancelled(ctx context.Context, m *bowling.Match, players []bowling.Player) error
	MatchDateChanged(ctx context.Context, m *bowling.Match, players []bowling.Player,
		oldDate time.Time) error
}

// Publisher receives every match whose scores or status changed.
type Publisher interface {
	Publish(m *bowling.Match)
}

type MatchService struct {
	matches    MatchStore
	players    PlayerDirectory
	notifier   Notifier
	publisher  Publisher
	rolls      *RollService
	logger     *slog.Logger
	metrics    *Metrics
	background func(func())
}

type MatchServiceConfig struct {
	Matches   MatchStore
	Players   PlayerDirectory
	Notifier  Notifier
	Publisher Publisher
	Rolls     *RollService
	Logger    *slog.Logger
	Metrics   *Metrics
	// Background runs notification tasks. Tasks run inline when it is nil.
	Background func(func())
}

func NewMatchService(cfg MatchServiceConfig) *MatchService {
	background := cfg.Background
	if background == nil {
		background = func(task func()) { task() }
	}
	return &MatchService{
		matches:    cfg.Matches,
		players:    cfg.Players,
		notifier:   cfg.Notifier,
		publisher:  cfg.Publisher,
		rolls:      cfg.Rolls,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		background: background,
	}
}

// Generate builds the frame skeleton of a draft match, stores it and tells the
// players the match is scheduled.
func (s *MatchService) Generate(ctx context.Context, m *bowling.Match, req bowling.GenerateRequest,
	actor int64) error {
	if err := bowling.Generate(m, req, actor); err != nil {
		return err
	}
	if err := s.matches.InsertFrames(ctx, m); err != nil {
		return fmt.Errorf("store frames: %w", err)
	}

	s.logger.Info("match frames generated",
		slog.Int64("match_id", m.ID),
		slog.String("type", string(req.Type)),
		slog.Int("frames", len(m.Frames)))

	s.notify(m, "scheduled", func(ctx context.Context, players []bowling.Player) error {
		return s.notifier.MatchScheduled(ctx, m, players)
	})
	return nil
}

func (s *MatchService) ClearFrames(ctx context.Context, m *bowling.Match, actor int64) error {
	if err := bowling.ClearFrames(m, actor); err != nil {
		return err
	}
	if err := s.matches.DeleteFrames(ctx, m); err != nil {
		return fmt.Errorf("delete frames: %w", err)
	}
	return nil
}

// OpenScoring moves a planned match into progress. A match already in
// progress is left alone.
func (s *MatchService) OpenScoring(ctx context.Context, m *bowling.Match, actor int64) error {
	if m.Status == bowling.StatusInProgress {
		return nil
	}
	if err := m.Transition(bowling.StatusInProgress); err != nil {
		return err
	}
	m.UpdatedBy = actor
	if err := s.matches.Update(ctx, m); err != nil {
		return err
	}
	s.publish(m)
	return nil
}

// RecordScores saves a batch of score entries, opening a planned match first.
// With finish set, a match that is complete afterwards is finished too.
func (s *MatchService) RecordScores(ctx context.Context, m *bowling.Match, entries []ScoreEntry,
	finish bool, actor int64) (*Report, error) {
	if m.Status == bowling.StatusPlanned {
		if err := s.OpenScoring(ctx, m, actor); err != nil {
			return nil, err
		}
	}

	report, err := s.rolls.SaveScores(ctx, m, entries, actor)
	if err != nil {
		return nil, err
	}

	if finish {
		if m.IsComplete() {
			if err := s.Finish(ctx, m, actor); err != nil {
				return nil, err
			}
			report.Finished = true
		} else {
			report.Warnings = append(report.Warnings, Warning{
				Message: "match was not finished: every player needs a score in every frame",
			})
		}
	}

	if !report.Finished {
		s.publish(m)
	}
	return report, nil
}

// Finish closes a complete match, computes its points and stores both.
func (s *MatchService) Finish(ctx context.Context, m *bowling.Match, actor int64) error {
	if err := m.Finish(); err != nil {
		return err
	}
	m.UpdatedBy = actor
	if err := s.matches.Update(ctx, m); err != nil {
		return err
	}

	s.metrics.closed(m.Status)
	s.logger.Info("match finished",
		slog.Int64("match_id", m.ID),
		slog.Int("team_a_points", *m.TeamAPoints),
		slog.Int("team_b_points", *m.TeamBPoints))
	s.publish(m)
	return nil
}

func (s *MatchService) Cancel(ctx context.Context, m *bowling.Match, actor int64) error {
	if err := m.Cancel(); err != nil {
		return err
	}
	m.UpdatedBy = actor
	if err := s.matches.Update(ctx, m); err != nil {
		return err
	}

	s.metrics.closed(m.Status)
	s.publish(m)
	s.notify(m, "cancelled", func(ctx context.Context, players []bowling.Player) error {
		return s.notifier.MatchCancelled(ctx, m, players)
	})
	return nil
}

// Reschedule moves the match date. Players are told when the match is
// planned or already running.
func (s *MatchService) Reschedule(ctx context.Context, m *bowling.Match, date time.Time,
	actor int64) error {
	if m.Status.IsTerminal() {
		return &bowling.DomainError{Op: "reschedule", Reason: fmt.Sprintf("match is already %s", m.Status)}
	}
	if date.Equal(m.Date) {
		return nil
	}

	oldDate := m.Date
	m.Date = date
	m.UpdatedBy = actor
	if err := s.matches.Update(ctx, m); err != nil {
		m.Date = oldDate
		return err
	}

	if m.Status == bowling.StatusPlanned || m.Status == bowling.StatusInProgress {
		s.notify(m, "date changed", func(ctx context.Context, players []bowling.Player) error {
			return s.notifier.MatchDateChanged(ctx, m, players, oldDate)
		})
	}
	return nil
}

// RecalculatePoints recomputes and stores points for every finished match,
// optionally within one league. A failing match is logged and skipped.
func (s *MatchService) RecalculatePoints(ctx context.Context, leagueID *int64) (int, error) {
	matches, err := s.matches.GetFinished(ctx, leagueID)
	if err != nil {
		return 0, fmt.Errorf("load finished matches: %w", err)
	}

	var errs []error
	updated := 0
	for _, m := range matches {
		m.CalculatePoints()
		if err := s.matches.Update(ctx, m); err != nil {
			s.logger.Error("recalculate points",
				slog.Int64("match_id", m.ID),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("match %d: %w", m.ID, err))
			continue
		}
		s.metrics.recalculated()
		updated++
	}

	s.logger.Info("points recalculated", slog.Int("matches", updated), slog.Int("failed", len(errs)))
	return updated, errors.Join(errs...)
}

func (s *MatchService) publish(m *bowling.Match) {
	if s.publisher != nil {
		s.publisher.Publish(m)
	}
}

func (s *MatchService) notify(m *bowling.Match, event string,
	send func(ctx context.Context, players []bowling.Player) error) {
	if s.notifier == nil || s.players == nil {
		return
	}
	ids := m.Players()

	s.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := ErrNoPlayers
		if len(ids) > 0 {
			var players []bowling.Player
			players, err = s.players.GetPlayers(ctx, ids)
			if err == nil {
				err = send(ctx, players)
			}
		}
		if err != nil {
			s.logger.Warn("match notification not delivered",
				slog.Int64("match_id", m.ID),
				slog.String("event", event),
				slog.String("error", err.Error()))
		}
	})
}
