package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/data"
	"BowlingLeagueApi/internal/scoring"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/urfave/cli/v2"
)

const seedPassword = "pa55word"

func newSeedCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "fill the database with a fake league and a played season",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "players", Value: 8, Usage: "number of bowlers"},
			&cli.IntFlag{Name: "weeks", Value: 4, Usage: "weeks of matches, the last one left unplayed"},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 for a random one"},
			&cli.StringFlag{Name: "admin-email", Value: "admin@example.com"},
			&cli.StringFlag{Name: "admin-password", Value: seedPassword},
		},
		Action: func(c *cli.Context) error {
			if c.Int("players") < 2 {
				return fmt.Errorf("at least 2 players are needed, got %d", c.Int("players"))
			}

			seed := c.Uint64("seed")
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			s := &seeder{
				env:   e,
				faker: gofakeit.New(seed),
			}

			if err := s.run(c.Context, c.String("admin-email"), c.String("admin-password"),
				c.Int("players"), c.Int("weeks")); err != nil {
				return err
			}

			fmt.Printf("Seeded league %q with %d players and %d matches (seed %d)\n",
				s.league.Name, len(s.players), s.matchCount, seed)
			return nil
		},
	}
}

type seeder struct {
	*env
	faker      *gofakeit.Faker
	admin      *data.User
	players    []*data.User
	skills     map[int64]int
	league     *data.League
	teams      []*data.Team
	matchCount int
}

func (s *seeder) run(ctx context.Context, adminEmail, adminPassword string, players, weeks int) error {
	admin := &data.User{FirstName: "League", LastName: "Admin", Email: adminEmail, Activated: true}
	if err := admin.Password.Set(adminPassword); err != nil {
		return err
	}
	if err := s.models.Users.Insert(ctx, admin); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	err := s.models.Permissions.AddForUser(ctx, admin.ID, data.PermissionMatchesRead,
		data.PermissionMatchesWrite, data.PermissionScoresWrite, data.PermissionLeaguesWrite)
	if err != nil {
		return err
	}
	s.admin = admin

	s.players, err = newRoster(s.faker, players)
	if err != nil {
		return err
	}
	s.skills = make(map[int64]int, len(s.players))
	for _, p := range s.players {
		if err := s.models.Users.Insert(ctx, p); err != nil {
			return fmt.Errorf("insert player %s: %w", p.Email, err)
		}
		if err := s.models.Permissions.AddForUser(ctx, p.ID, data.PermissionMatchesRead); err != nil {
			return err
		}
		s.skills[p.ID] = s.faker.Number(0, 6)
	}

	s.league = &data.League{
		UserID:    admin.ID,
		Name:      fmt.Sprintf("%s Lanes League", s.faker.City()),
		PlayerIDs: userIDs(s.players),
	}
	if err := s.models.Leagues.Insert(ctx, s.league); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	for i := 0; i+bowling.TeamSize <= len(s.players) && len(s.teams) < 2; i += bowling.TeamSize {
		team := &data.Team{
			UserID:    admin.ID,
			LeagueID:  &s.league.ID,
			Name:      fmt.Sprintf("%s %ss", s.faker.Color(), s.faker.Animal()),
			PlayerIDs: userIDs(s.players[i : i+bowling.TeamSize]),
		}
		if err := s.models.Teams.Insert(ctx, team); err != nil {
			return fmt.Errorf("insert team: %w", err)
		}
		s.teams = append(s.teams, team)
	}

	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -7*(weeks-1))
	for week := range weeks {
		date := start.AddDate(0, 0, 7*week).Add(19 * time.Hour)
		play := week < weeks-1
		for _, req := range s.fixtures(week) {
			if err := s.match(ctx, date, req, play); err != nil {
				return err
			}
		}
	}

	return nil
}

// fixtures pairs the players off round-robin style, rotating everyone but the
// first player each week, and adds a team match when two teams exist. With an
// odd roster the middle player sits the week out.
func (s *seeder) fixtures(week int) []bowling.GenerateRequest {
	n := len(s.players)
	order := make([]*data.User, 0, n)
	order = append(order, s.players[0])
	rest := s.players[1:]
	shift := week % len(rest)
	order = append(order, rest[shift:]...)
	order = append(order, rest[:shift]...)

	var reqs []bowling.GenerateRequest
	lane := 1
	for i := 0; i < n/2; i++ {
		reqs = append(reqs, bowling.GenerateRequest{
			Type:      bowling.MatchTypeIndividual,
			PlayerA:   order[i].ID,
			PlayerB:   order[n-1-i].ID,
			StartLane: lane,
		})
		lane += 2
	}

	if len(s.teams) == 2 {
		reqs = append(reqs, bowling.GenerateRequest{
			Type:         bowling.MatchTypeTeam,
			TeamA:        s.teams[0].ID,
			TeamB:        s.teams[1].ID,
			TeamAPlayers: s.teams[0].PlayerIDs,
			TeamBPlayers: s.teams[1].PlayerIDs,
			StartLane:    lane,
		})
	}
	return reqs
}

func (s *seeder) match(ctx context.Context, date time.Time, req bowling.GenerateRequest, play bool) error {
	m := bowling.NewMatch(date, &s.league.ID, s.admin.ID)
	if req.Type == bowling.MatchTypeTeam {
		m.TeamAID, m.TeamBID = &req.TeamA, &req.TeamB
	}
	if err := s.models.Matches.Insert(ctx, m); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	s.matchCount++

	if err := s.matches.Generate(ctx, m, req, s.admin.ID); err != nil {
		return fmt.Errorf("generate match %d: %w", m.ID, err)
	}
	if !play {
		return nil
	}

	report, err := s.matches.RecordScores(ctx, m, scoreEntries(s.faker, m, s.skills), true, s.admin.ID)
	if err != nil {
		return fmt.Errorf("score match %d: %w", m.ID, err)
	}
	if !report.Finished {
		return fmt.Errorf("match %d was not finished: %d warnings", m.ID, len(report.Warnings))
	}
	return nil
}

// newRoster builds activated users with unique emails and the seed password.
func newRoster(f *gofakeit.Faker, n int) ([]*data.User, error) {
	users := make([]*data.User, 0, n)
	for i := range n {
		first, last := f.FirstName(), f.LastName()
		u := &data.User{
			FirstName: first,
			LastName:  last,
			Email: fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), i+1,
				f.DomainName()),
			Activated: true,
		}
		if err := u.Password.Set(seedPassword); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// scoreEntries bowls a full card for every player of m. skill raises the
// lowest possible first ball.
func scoreEntries(f *gofakeit.Faker, m *bowling.Match, skills map[int64]int) []scoring.ScoreEntry {
	var entries []scoring.ScoreEntry
	for _, frame := range m.Frames {
		for _, playerID := range frame.Players() {
			entries = append(entries, scoring.ScoreEntry{
				FrameID:  frame.ID,
				PlayerID: playerID,
				Pins:     randomFrame(f, frame.IsLast(), skills[playerID]),
			})
		}
	}
	return entries
}

func randomFrame(f *gofakeit.Faker, last bool, skill int) []int {
	first := f.Number(min(skill, bowling.MaxPins), bowling.MaxPins)
	if first == bowling.MaxPins {
		if !last {
			return []int{first}
		}
		second := f.Number(0, bowling.MaxPins)
		if second == bowling.MaxPins {
			return []int{first, second, f.Number(0, bowling.MaxPins)}
		}
		return []int{first, second, f.Number(0, bowling.MaxPins-second)}
	}

	second := f.Number(0, bowling.MaxPins-first)
	if last && first+second == bowling.MaxPins {
		return []int{first, second, f.Number(0, bowling.MaxPins)}
	}
	return []int{first, second}
}

func userIDs(users []*data.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
