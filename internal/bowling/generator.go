package bowling

import (
	"fmt"
	"slices"
)

const (
	FramesPerGame     = 10
	LaneGamesPerMatch = 2
	TeamSize          = 3
)

type MatchType string

const (
	MatchTypeIndividual MatchType = "individual"
	MatchTypeTeam       MatchType = "team"
)

// GenerateRequest describes the players and lanes of a match whose frames are
// about to be built.
type GenerateRequest struct {
	Type         MatchType `json:"type"`
	PlayerA      int64     `json:"player_a_id"`
	PlayerB      int64     `json:"player_b_id"`
	TeamA        int64     `json:"team_a_id"`
	TeamB        int64     `json:"team_b_id"`
	TeamAPlayers []int64   `json:"team_a_players"`
	TeamBPlayers []int64   `json:"team_b_players"`
	StartLane    int       `json:"start_lane"`
}

// ValidateGameData returns every problem with the request at once so callers
// can show them together. An empty result means the request is usable.
func ValidateGameData(req GenerateRequest) []string {
	var problems []string

	if req.StartLane < 1 {
		problems = append(problems, "start lane must be 1 or greater")
	}

	switch req.Type {
	case MatchTypeIndividual:
		if req.PlayerA == 0 {
			problems = append(problems, "player A must be selected")
		}
		if req.PlayerB == 0 {
			problems = append(problems, "player B must be selected")
		}
		if req.PlayerA != 0 && req.PlayerA == req.PlayerB {
			problems = append(problems, "player A and player B must be different players")
		}
	case MatchTypeTeam:
		if req.TeamA == 0 {
			problems = append(problems, "team A must be selected")
		}
		if req.TeamB == 0 {
			problems = append(problems, "team B must be selected")
		}
		if req.TeamA != 0 && req.TeamA == req.TeamB {
			problems = append(problems, "team A and team B must be different teams")
		}
		problems = append(problems, validateLineup("team A", req.TeamAPlayers)...)
		problems = append(problems, validateLineup("team B", req.TeamBPlayers)...)
		for _, p := range req.TeamAPlayers {
			if p != 0 && slices.Contains(req.TeamBPlayers, p) {
				problems = append(problems, fmt.Sprintf("player %d cannot play for both teams", p))
			}
		}
	default:
		problems = append(problems, `match type must be "individual" or "team"`)
	}

	return problems
}

func validateLineup(name string, players []int64) []string {
	var problems []string
	if len(players) != TeamSize {
		problems = append(problems, fmt.Sprintf("%s must have exactly %d players", name, TeamSize))
	}
	seen := make(map[int64]bool, len(players))
	for i, p := range players {
		if p == 0 {
			problems = append(problems, fmt.Sprintf("%s player %d must be selected", name, i+1))
			continue
		}
		if seen[p] {
			problems = append(problems, fmt.Sprintf("%s lists player %d more than once", name, p))
		}
		seen[p] = true
	}
	return problems
}

// GenerateIndividualFrames builds both lane-games for a 1v1 match. Lane-game n
// is played on startLane+n-1.
func GenerateIndividualFrames(m *Match, playerA, playerB int64, startLane int, actor int64) error {
	if len(m.Frames) > 0 {
		return &DomainError{Op: "generate", Reason: "match already has frames"}
	}

	for game := 1; game <= LaneGamesPerMatch; game++ {
		addLaneGame(m, game, startLane+game-1, nil, nil, []int64{playerA}, []int64{playerB}, actor)
	}
	return nil
}

// GenerateTeamFrames builds a double-match for each of the three player pairs.
// Pair i bowls on its own two adjacent lanes starting at startLane+2i.
func GenerateTeamFrames(m *Match, teamA, teamB int64, playersA, playersB []int64, startLane int,
	actor int64) error {
	if len(m.Frames) > 0 {
		return &DomainError{Op: "generate", Reason: "match already has frames"}
	}
	if len(playersA) != TeamSize || len(playersB) != TeamSize {
		return &DomainError{
			Op:     "generate",
			Reason: fmt.Sprintf("team matches need exactly %d players per team", TeamSize),
		}
	}

	for pair := 0; pair < TeamSize; pair++ {
		for game := 1; game <= LaneGamesPerMatch; game++ {
			lane := startLane + 2*pair + game - 1
			addLaneGame(m, game, lane, &teamA, &teamB, []int64{playersA[pair]},
				[]int64{playersB[pair]}, actor)
		}
	}

	m.TeamAID = &teamA
	m.TeamBID = &teamB
	return nil
}

func addLaneGame(m *Match, game, lane int, teamA, teamB *int64, playersA, playersB []int64,
	actor int64) {
	for n := 1; n <= FramesPerGame; n++ {
		m.AddFrame(&Frame{
			FrameNumber:  n,
			LaneNumber:   lane,
			GameNumber:   game,
			TeamAID:      teamA,
			TeamBID:      teamB,
			TeamAPlayers: slices.Clone(playersA),
			TeamBPlayers: slices.Clone(playersB),
			CreatedBy:    actor,
		})
	}
}

// Generate validates the request, builds the frame skeleton and moves a draft
// match to planned. Nothing is changed when it fails.
func Generate(m *Match, req GenerateRequest, actor int64) error {
	if problems := ValidateGameData(req); len(problems) > 0 {
		return &DomainError{Op: "generate", Reason: "invalid match setup", Problems: problems}
	}
	if m.Status != StatusDraft {
		return &DomainError{Op: "generate", Reason: "frames can only be generated for a draft match"}
	}
	if err := checkMatchTeams(m, req); err != nil {
		return err
	}

	var err error
	switch req.Type {
	case MatchTypeTeam:
		err = GenerateTeamFrames(m, req.TeamA, req.TeamB, req.TeamAPlayers, req.TeamBPlayers,
			req.StartLane, actor)
	default:
		err = GenerateIndividualFrames(m, req.PlayerA, req.PlayerB, req.StartLane, actor)
	}
	if err != nil {
		return err
	}

	m.UpdatedBy = actor
	return m.Transition(StatusPlanned)
}

// checkMatchTeams keeps a generated skeleton in line with the teams the match
// was created with. A match without teams takes whatever the request names.
func checkMatchTeams(m *Match, req GenerateRequest) error {
	if m.TeamAID == nil && m.TeamBID == nil {
		return nil
	}
	if req.Type != MatchTypeTeam {
		return &DomainError{Op: "generate", Reason: "a match between teams needs a team setup"}
	}
	if (m.TeamAID != nil && *m.TeamAID != req.TeamA) || (m.TeamBID != nil && *m.TeamBID != req.TeamB) {
		return &DomainError{Op: "generate", Reason: "setup teams differ from the match teams"}
	}
	return nil
}

// ClearFrames removes the frame skeleton of a match that has not started,
// drops its teams and returns it to draft.
func ClearFrames(m *Match, actor int64) error {
	if m.Status != StatusDraft && m.Status != StatusPlanned {
		return &DomainError{Op: "clear frames", Reason: "only draft or planned matches can be cleared"}
	}
	m.RemoveFrames()
	m.TeamAID, m.TeamBID = nil, nil
	m.Status = StatusDraft
	m.UpdatedBy = actor
	return nil
}

// IsReady reports whether every frame has players on both sides.
func IsReady(m *Match) bool {
	if len(m.Frames) == 0 {
		return false
	}
	for _, f := range m.Frames {
		if len(f.TeamAPlayers) == 0 || len(f.TeamBPlayers) == 0 {
			return false
		}
	}
	return true
}

type Structure struct {
	IsTeamMatch bool  `json:"is_team_match"`
	Frames      int   `json:"frames"`
	LaneGames   int   `json:"lane_games"`
	Lanes       []int `json:"lanes"`
	Players     int   `json:"players"`
	Ready       bool  `json:"ready"`
}

func DescribeStructure(m *Match) Structure {
	lanes := make([]int, 0, 2*TeamSize)
	for _, f := range m.Frames {
		if !slices.Contains(lanes, f.LaneNumber) {
			lanes = append(lanes, f.LaneNumber)
		}
	}
	slices.Sort(lanes)

	return Structure{
		IsTeamMatch: m.IsTeamMatch(),
		Frames:      len(m.Frames),
		LaneGames:   len(GameNumbers(m.Frames)),
		Lanes:       lanes,
		Players:     len(m.Players()),
		Ready:       IsReady(m),
	}
}
