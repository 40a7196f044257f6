package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/scoresheet"
	"BowlingLeagueApi/internal/scoring"
	"BowlingLeagueApi/internal/validator"
)

const maxScoresheetBytes = 10 << 20

func (app *application) recordScoresHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	var input struct {
		Scores []scoring.ScoreEntry `json:"scores"`
		Finish bool                 `json:"finish"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if v.Check(len(input.Scores) > 0, "scores", "must contain at least one entry"); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	report, err := app.matches.RecordScores(r.Context(), match, input.Scores, input.Finish,
		app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	app.writeScoreboard(w, r, http.StatusOK, match, envelope{"report": report})
}

func (app *application) uploadScoresheetHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScoresheetBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("read score sheet: %w", err))
		return
	}
	defer file.Close()

	parser, err := app.sheets.GetParser(header.Filename)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("read score sheet: %w", err))
		return
	}

	sheet, err := parser.Parse(content)
	if err != nil {
		switch {
		case errors.Is(err, scoresheet.ErrEmptySheet):
			v := validator.New()
			v.AddError("file", err.Error())
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.badRequestResponse(w, r, err)
		}
		return
	}

	entries, warnings := sheet.Entries(match)
	app.logger.Info("score sheet imported",
		slog.String("batch_id", sheet.BatchID.String()),
		slog.Int64("match_id", match.ID),
		slog.String("file", header.Filename),
		slog.Int("rows", len(sheet.Rows)),
		slog.Int("entries", len(entries)))

	finish, _ := strconv.ParseBool(r.FormValue("finish"))

	report, err := app.matches.RecordScores(r.Context(), match, entries, finish, app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}
	report.Warnings = mergeWarnings(warnings, report.Warnings)

	app.writeScoreboard(w, r, http.StatusOK, match, envelope{
		"report":   report,
		"batch_id": sheet.BatchID,
	})
}

// mergeWarnings puts sheet warnings ahead of save warnings. The result is never
// nil so it encodes as an empty list.
func mergeWarnings(sheet, saved []scoring.Warning) []scoring.Warning {
	merged := make([]scoring.Warning, 0, len(sheet)+len(saved))
	merged = append(merged, sheet...)
	return append(merged, saved...)
}

// openForRolls moves a planned match into progress before a single roll edit.
func (app *application) openForRolls(r *http.Request, match *bowling.Match) error {
	if match.Status == bowling.StatusPlanned {
		return app.matches.OpenScoring(r.Context(), match, app.contextGetUser(r).ID)
	}
	if !match.CanEditScores() {
		return &bowling.DomainError{Op: "edit rolls", Reason: string(bowling.RuleScoresNotEditable)}
	}
	return nil
}

func (app *application) addRollHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	var input struct {
		FrameID    int64 `json:"frame_id"`
		PlayerID   int64 `json:"player_id"`
		RollNumber int   `json:"roll_number"`
		Pins       int   `json:"pins"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	frame := match.Frame(input.FrameID)
	if frame == nil {
		app.scoringErrorResponse(w, r, &bowling.NotFoundError{Kind: "frame", ID: input.FrameID})
		return
	}

	if err := app.openForRolls(r, match); err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	roll, err := app.rolls.AddRoll(r.Context(), frame, input.PlayerID, input.RollNumber, input.Pins,
		app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}
	app.live.Publish(match)

	err = app.writeJSON(w, http.StatusCreated, envelope{"roll": roll}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) copyRollsHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	var input struct {
		FromFrameID int64 `json:"from_frame_id"`
		ToFrameID   int64 `json:"to_frame_id"`
		PlayerID    int64 `json:"player_id"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	from, to := match.Frame(input.FromFrameID), match.Frame(input.ToFrameID)
	switch {
	case from == nil:
		app.scoringErrorResponse(w, r, &bowling.NotFoundError{Kind: "frame", ID: input.FromFrameID})
		return
	case to == nil:
		app.scoringErrorResponse(w, r, &bowling.NotFoundError{Kind: "frame", ID: input.ToFrameID})
		return
	}

	if err := app.openForRolls(r, match); err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	result, err := app.rolls.CopyPlayerRolls(r.Context(), from, to, input.PlayerID, app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}
	app.live.Publish(match)

	rejected := make([]string, 0, len(result.Rejected))
	for _, verr := range result.Rejected {
		rejected = append(rejected, verr.Error())
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"rolls": result.Rolls, "rejected": rejected}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteRollHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	rollID, err := app.readIDParam(r, "rollID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	frame := frameOfRoll(match, rollID)
	if frame == nil {
		app.scoringErrorResponse(w, r, &bowling.NotFoundError{Kind: "roll", ID: rollID})
		return
	}

	if !match.CanEditScores() {
		app.scoringErrorResponse(w, r, &bowling.DomainError{
			Op: "delete roll", Reason: string(bowling.RuleScoresNotEditable),
		})
		return
	}

	err = app.rolls.DeleteRoll(r.Context(), frame, rollID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}
	app.live.Publish(match)

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "roll successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateRollHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	rollID, err := app.readIDParam(r, "rollID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Pins *int `json:"pins"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if v.Check(input.Pins != nil, "pins", "must be provided"); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	frame := frameOfRoll(match, rollID)
	if frame == nil {
		app.scoringErrorResponse(w, r, &bowling.NotFoundError{Kind: "roll", ID: rollID})
		return
	}

	if !match.CanEditScores() {
		app.scoringErrorResponse(w, r, &bowling.DomainError{
			Op: "update roll", Reason: string(bowling.RuleScoresNotEditable),
		})
		return
	}

	roll, err := app.rolls.UpdateRoll(r.Context(), frame, rollID, *input.Pins)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}
	app.live.Publish(match)

	err = app.writeJSON(w, http.StatusOK, envelope{"roll": roll}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func frameOfRoll(match *bowling.Match, rollID int64) *bowling.Frame {
	for _, f := range match.Frames {
		for _, roll := range f.Rolls {
			if roll.ID == rollID {
				return f
			}
		}
	}
	return nil
}
