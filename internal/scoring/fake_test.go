package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"BowlingLeagueApi/internal/bowling"
)

var errStoreDown = errors.New("store down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRollStore struct {
	mu       sync.Mutex
	nextID   int64
	rolls    map[int64][]*bowling.Roll
	replaced int
	fail     bool
}

func newFakeRollStore() *fakeRollStore {
	return &fakeRollStore{rolls: make(map[int64][]*bowling.Roll)}
}

func (s *fakeRollStore) InsertRoll(_ context.Context, roll *bowling.Roll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.nextID++
	roll.ID = s.nextID
	s.rolls[roll.FrameID] = append(s.rolls[roll.FrameID], roll)
	return nil
}

func (s *fakeRollStore) ReplacePlayerRolls(_ context.Context, frameID, playerID int64,
	rolls []*bowling.Roll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	kept := slices.DeleteFunc(s.rolls[frameID], func(r *bowling.Roll) bool {
		return r.PlayerID == playerID
	})
	for _, r := range rolls {
		s.nextID++
		r.ID = s.nextID
		kept = append(kept, r)
	}
	s.rolls[frameID] = kept
	s.replaced++
	return nil
}

func (s *fakeRollStore) DeleteRoll(_ context.Context, rollID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	for frameID, rolls := range s.rolls {
		s.rolls[frameID] = slices.DeleteFunc(rolls, func(r *bowling.Roll) bool { return r.ID == rollID })
	}
	return nil
}

func (s *fakeRollStore) UpdateRolls(_ context.Context, rolls []*bowling.Roll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	for _, updated := range rolls {
		for i, r := range s.rolls[updated.FrameID] {
			if r.ID == updated.ID {
				s.rolls[updated.FrameID][i] = updated
			}
		}
	}
	return nil
}

func (s *fakeRollStore) pins(frameID, playerID int64) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pins []int
	for _, r := range s.rolls[frameID] {
		if r.PlayerID == playerID {
			pins = append(pins, r.PinsKnocked)
		}
	}
	return pins
}

type fakeMatchStore struct {
	mu           sync.Mutex
	updates      int
	frameInserts int
	frameDeletes int
	finished     []*bowling.Match
	failUpdateID int64
}

func (s *fakeMatchStore) Update(_ context.Context, m *bowling.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == s.failUpdateID && m.ID != 0 {
		return errStoreDown
	}
	s.updates++
	m.Version++
	return nil
}

func (s *fakeMatchStore) InsertFrames(_ context.Context, m *bowling.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameInserts++
	for i, f := range m.Frames {
		f.ID = int64(i + 1)
	}
	return nil
}

func (s *fakeMatchStore) DeleteFrames(_ context.Context, _ *bowling.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameDeletes++
	return nil
}

func (s *fakeMatchStore) GetFinished(_ context.Context, _ *int64) ([]*bowling.Match, error) {
	return s.finished, nil
}

type fakePlayers struct{}

func (fakePlayers) GetPlayers(_ context.Context, ids []int64) ([]bowling.Player, error) {
	players := make([]bowling.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, bowling.Player{ID: id, FirstName: "Player", Email: "p@example.com"})
	}
	return players, nil
}

type sentNotice struct {
	event   string
	players int
	oldDate time.Time
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
	fail bool
}

func (n *fakeNotifier) record(event string, players []bowling.Player, oldDate time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp unavailable")
	}
	n.sent = append(n.sent, sentNotice{event: event, players: len(players), oldDate: oldDate})
	return nil
}

func (n *fakeNotifier) MatchScheduled(_ context.Context, _ *bowling.Match, players []bowling.Player) error {
	return n.record("scheduled", players, time.Time{})
}

func (n *fakeNotifier) MatchCancelled(_ context.Context, _ *bowling.Match, players []bowling.Player) error {
	return n.record("cancelled", players, time.Time{})
}

func (n *fakeNotifier) MatchDateChanged(_ context.Context, _ *bowling.Match, players []bowling.Player,
	oldDate time.Time) error {
	return n.record("date changed", players, oldDate)
}

type fakePublisher struct {
	published []bowling.Status
}

func (p *fakePublisher) Publish(m *bowling.Match) {
	p.published = append(p.published, m.Status)
}
