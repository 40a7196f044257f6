package scoresheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/scoring"

	"github.com/google/uuid"
)

var ErrEmptySheet = errors.New("score sheet has no score rows")

// Row is one player's line for one lane-game: a notation cell per frame.
type Row struct {
	Line       int
	PlayerID   int64
	GameNumber int
	Cells      []string
}

// Problem is a sheet line that could not be read.
type Problem struct {
	Line    int
	Message string
}

// Sheet is a parsed upload. BatchID tags the import in logs and responses.
type Sheet struct {
	BatchID  uuid.UUID
	Rows     []Row
	Problems []Problem
}

// newSheet reads records shaped "player_id, game_number, f1..f10". A leading
// row whose first cell is not a number is taken as the header.
func newSheet(records [][]string) (*Sheet, error) {
	sheet := &Sheet{BatchID: uuid.New()}

	for i, record := range records {
		line := i + 1
		if blank(record) {
			continue
		}
		if i == 0 && !numeric(record[0]) {
			continue
		}

		row, err := parseRow(line, record)
		if err != nil {
			sheet.Problems = append(sheet.Problems, Problem{Line: line, Message: err.Error()})
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if len(sheet.Rows) == 0 && len(sheet.Problems) == 0 {
		return nil, ErrEmptySheet
	}
	return sheet, nil
}

func parseRow(line int, record []string) (Row, error) {
	if len(record) < 3 {
		return Row{}, fmt.Errorf("expected player_id, game_number and frame cells, got %d columns", len(record))
	}

	playerID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil || playerID < 1 {
		return Row{}, fmt.Errorf("invalid player_id %q", record[0])
	}

	game, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil || game < 1 || game > bowling.LaneGamesPerMatch {
		return Row{}, fmt.Errorf("invalid game_number %q", record[1])
	}

	cells := record[2:]
	if len(cells) > bowling.FramesPerGame {
		extra := cells[bowling.FramesPerGame:]
		if !blank(extra) {
			return Row{}, fmt.Errorf("more than %d frame cells", bowling.FramesPerGame)
		}
		cells = cells[:bowling.FramesPerGame]
	}

	trimmed := make([]string, len(cells))
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
	}

	return Row{Line: line, PlayerID: playerID, GameNumber: game, Cells: trimmed}, nil
}

// Entries maps the sheet onto the frames of m. Blank cells are skipped; rows
// and cells that match no frame come back as warnings.
func (s *Sheet) Entries(m *bowling.Match) ([]scoring.ScoreEntry, []scoring.Warning) {
	var (
		entries  []scoring.ScoreEntry
		warnings []scoring.Warning
	)

	for _, p := range s.Problems {
		warnings = append(warnings, scoring.Warning{Message: fmt.Sprintf("line %d: %s", p.Line, p.Message)})
	}

	for _, row := range s.Rows {
		for i, cell := range row.Cells {
			if cell == "" {
				continue
			}
			frameNumber := i + 1
			f := m.FindFrame(row.GameNumber, frameNumber, row.PlayerID)
			if f == nil {
				warnings = append(warnings, scoring.Warning{
					PlayerID:    row.PlayerID,
					FrameNumber: frameNumber,
					Message: fmt.Sprintf("line %d: player %d has no frame %d in game %d",
						row.Line, row.PlayerID, frameNumber, row.GameNumber),
				})
				continue
			}
			entries = append(entries, scoring.ScoreEntry{FrameID: f.ID, PlayerID: row.PlayerID, Notation: cell})
		}
	}

	return entries, warnings
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func numeric(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
