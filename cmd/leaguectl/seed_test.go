package main

import (
	"testing"
	"time"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/data"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoster(t *testing.T) {
	first, err := newRoster(gofakeit.New(7), 12)
	require.NoError(t, err)
	again, err := newRoster(gofakeit.New(7), 12)
	require.NoError(t, err)

	require.Len(t, first, 12)
	emails := make(map[string]bool)
	for i, u := range first {
		assert.True(t, u.Activated)
		assert.Equal(t, again[i].Email, u.Email)
		assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
		emails[u.Email] = true

		ok, err := u.Password.Matches(seedPassword)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRandomFrameIsLegal(t *testing.T) {
	f := gofakeit.New(42)

	for _, last := range []bool{false, true} {
		for range 500 {
			frame := &bowling.Frame{
				ID: 1, FrameNumber: 3, LaneNumber: 1, GameNumber: 1,
				TeamAPlayers: []int64{1}, TeamBPlayers: []int64{2},
			}
			if last {
				frame.FrameNumber = bowling.LastFrame
			}

			pins := randomFrame(f, last, f.Number(0, 12))
			for i, p := range pins {
				require.NoError(t, bowling.CheckRoll(frame, 1, i+1, p), "pins %v", pins)
				frame.AddRoll(&bowling.Roll{ID: int64(i + 1), FrameID: 1, PlayerID: 1, RollNumber: i + 1,
					PinsKnocked: p})
			}
			assert.True(t, frame.IsPlayerComplete(1), "pins %v", pins)
		}
	}
}

func TestScoreEntriesCompleteMatch(t *testing.T) {
	f := gofakeit.New(3)
	m := bowling.NewMatch(time.Date(2025, 4, 2, 19, 0, 0, 0, time.UTC), nil, 1)
	require.NoError(t, bowling.Generate(m, bowling.GenerateRequest{
		Type: bowling.MatchTypeIndividual, PlayerA: 1, PlayerB: 2, StartLane: 1,
	}, 1))
	for i, frame := range m.Frames {
		frame.ID = int64(i + 1)
	}

	entries := scoreEntries(f, m, map[int64]int{1: 6, 2: 0})
	assert.Len(t, entries, 40)

	for _, e := range entries {
		frame := m.Frame(e.FrameID)
		require.NotNil(t, frame)
		for i, p := range e.Pins {
			frame.AddRoll(&bowling.Roll{PlayerID: e.PlayerID, RollNumber: i + 1, PinsKnocked: p})
		}
	}
	assert.True(t, m.IsComplete())
}

func TestFixtures(t *testing.T) {
	players := make([]*data.User, 7)
	for i := range players {
		players[i] = &data.User{ID: int64(i + 1)}
	}
	s := &seeder{players: players}

	for week := range 6 {
		reqs := s.fixtures(week)
		require.Len(t, reqs, 3)

		seen := make(map[int64]bool)
		for i, req := range reqs {
			assert.Equal(t, bowling.MatchTypeIndividual, req.Type)
			assert.Equal(t, 1+2*i, req.StartLane)
			assert.NotEqual(t, req.PlayerA, req.PlayerB)
			assert.False(t, seen[req.PlayerA] || seen[req.PlayerB], "week %d reuses a player", week)
			seen[req.PlayerA], seen[req.PlayerB] = true, true
		}
	}

	s.teams = []*data.Team{{ID: 10, PlayerIDs: []int64{1, 2, 3}}, {ID: 11, PlayerIDs: []int64{4, 5, 6}}}
	reqs := s.fixtures(0)
	require.Len(t, reqs, 4)
	assert.Equal(t, bowling.MatchTypeTeam, reqs[3].Type)
	assert.Equal(t, 7, reqs[3].StartLane)
}
