package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/pins"
	"BowlingLeagueApi/internal/validator"

	"github.com/lib/pq"
)

// MatchFilter narrows a match listing. Nil and empty fields do not filter.
type MatchFilter struct {
	LeagueID *int64
	TeamID   *int64
	PlayerID *int64
	Status   string
	Dates    DateRange
	Filters
}

func ValidateMatchFilter(v *validator.Validator, f MatchFilter) {
	ValidateFilters(v, f.Filters)
	if f.Status != "" {
		_, err := bowling.ParseStatus(f.Status)
		v.Check(err == nil, "status", "invalid status")
	}
	if f.Dates.IsFull() {
		v.Check(!f.Dates.BeforeDate.Before(*f.Dates.AfterDate), "before_date", "must not be before after_date")
	}
}

func ValidateMatch(v *validator.Validator, m *bowling.Match) {
	v.Check(!m.Date.IsZero(), "date", "must be provided")
	v.Check(len(m.Notes) <= 500, "notes", "must be 500 characters or less")
	v.Check((m.TeamAID == nil) == (m.TeamBID == nil), "team_ids", "must set both teams or neither")
	if m.TeamAID != nil && m.TeamBID != nil {
		v.Check(*m.TeamAID != *m.TeamBID, "team_ids", "teams must differ")
	}
}

type MatchModel struct {
	db *sql.DB
}

func (m MatchModel) Insert(ctx context.Context, match *bowling.Match) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	pin, err := newPin(ctx, tx, pins.PinScopeMatches)
	if err != nil {
		return rollback(tx, err)
	}
	match.Pin = pin.Pin

	stmt := `
		INSERT INTO matches (pin_id, league_id, team_a_id, team_b_id, status, date, notes,
			created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		pin.ID,
		match.LeagueID,
		match.TeamAID,
		match.TeamBID,
		match.Status,
		match.Date,
		match.Notes,
		match.CreatedBy,
		match.UpdatedBy,
	}

	err = tx.QueryRowContext(ctx, stmt, args...).Scan(
		&match.ID,
		&match.CreatedAt,
		&match.UpdatedAt,
		&match.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "matches" violates foreign key `+
			`constraint "matches_league_id_fkey"`:
			return rollback(tx, NewModelValidationErr("league_id", "league does not exist"))
		default:
			return rollback(tx, teamRefErr(err))
		}
	}

	return tx.Commit()
}

const matchColumns = `matches.id, pins.pin, matches.league_id, matches.team_a_id, matches.team_b_id,
	matches.status, matches.date, matches.notes, matches.team_a_points, matches.team_b_points,
	matches.version, matches.created_by, matches.updated_by, matches.created_at, matches.updated_at`

func matchDest(match *bowling.Match) []any {
	return []any{
		&match.ID,
		&match.Pin,
		&match.LeagueID,
		&match.TeamAID,
		&match.TeamBID,
		&match.Status,
		&match.Date,
		&match.Notes,
		&match.TeamAPoints,
		&match.TeamBPoints,
		&match.Version,
		&match.CreatedBy,
		&match.UpdatedBy,
		&match.CreatedAt,
		&match.UpdatedAt,
	}
}

// Get loads a match with its frames and rolls.
func (m MatchModel) Get(ctx context.Context, id int64) (*bowling.Match, error) {
	return m.getOne(ctx, `WHERE matches.id = $1`, id)
}

func (m MatchModel) GetByPin(ctx context.Context, pin string) (*bowling.Match, error) {
	return m.getOne(ctx, `WHERE pins.pin = $1`, pin)
}

func (m MatchModel) getOne(ctx context.Context, where string, arg any) (*bowling.Match, error) {
	stmt := `
		SELECT ` + matchColumns + `
		FROM matches
		INNER JOIN pins ON pins.id = matches.pin_id
		` + where

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var match bowling.Match
	err := m.db.QueryRowContext(ctx, stmt, arg).Scan(matchDest(&match)...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := m.loadFrames(ctx, []*bowling.Match{&match}); err != nil {
		return nil, err
	}

	return &match, nil
}

// GetAll lists matches without their frames.
func (m MatchModel) GetAll(ctx context.Context, filter MatchFilter) ([]*bowling.Match, Metadata, error) {
	stmt := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM matches
		INNER JOIN pins ON pins.id = matches.pin_id
		WHERE ($1::bigint IS NULL OR matches.league_id = $1)
		AND ($2::bigint IS NULL OR matches.team_a_id = $2 OR matches.team_b_id = $2)
		AND ($3::bigint IS NULL OR EXISTS (
			SELECT 1 FROM frames
			WHERE frames.match_id = matches.id
			AND ($3 = ANY(frames.team_a_players) OR $3 = ANY(frames.team_b_players))))
		AND ($4 = '' OR matches.status = $4)
		AND ($5::timestamptz IS NULL OR matches.date >= $5)
		AND ($6::timestamptz IS NULL OR matches.date <= $6)
		ORDER BY matches.%s %s, matches.id ASC
		LIMIT $7 OFFSET $8`, matchColumns, filter.sortColumn(), filter.sortDirection())

	args := []any{
		filter.LeagueID,
		filter.TeamID,
		filter.PlayerID,
		filter.Status,
		filter.Dates.AfterDate,
		filter.Dates.BeforeDate,
		filter.limit(),
		filter.offset(),
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	matches := make([]*bowling.Match, 0)
	for rows.Next() {
		var match bowling.Match
		dest := append([]any{&totalRecords}, matchDest(&match)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, Metadata{}, err
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return matches, calculateMetadata(totalRecords, filter.Page, filter.PageSize), nil
}

// GetFinished loads every finished match with frames and rolls, optionally
// within one league.
func (m MatchModel) GetFinished(ctx context.Context, leagueID *int64) ([]*bowling.Match, error) {
	stmt := `
		SELECT ` + matchColumns + `
		FROM matches
		INNER JOIN pins ON pins.id = matches.pin_id
		WHERE matches.status = $1
		AND ($2::bigint IS NULL OR matches.league_id = $2)
		ORDER BY matches.date, matches.id`

	ctx, cancel := context.WithTimeout(ctx, 4*queryTimeout)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, bowling.StatusFinished, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*bowling.Match, 0)
	for rows.Next() {
		var match bowling.Match
		if err := rows.Scan(matchDest(&match)...); err != nil {
			return nil, err
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := m.loadFrames(ctx, matches); err != nil {
		return nil, err
	}

	return matches, nil
}

func (m MatchModel) loadFrames(ctx context.Context, matches []*bowling.Match) error {
	if len(matches) == 0 {
		return nil
	}

	byID := make(map[int64]*bowling.Match, len(matches))
	ids := make([]int64, 0, len(matches))
	for _, match := range matches {
		byID[match.ID] = match
		ids = append(ids, match.ID)
	}

	framesStmt := `
		SELECT id, match_id, frame_number, lane_number, game_number, team_a_id, team_b_id,
			team_a_players, team_b_players, created_by, created_at
		FROM frames
		WHERE match_id = ANY($1)`

	rows, err := m.db.QueryContext(ctx, framesStmt, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	frames := make(map[int64]*bowling.Frame)
	for rows.Next() {
		var f bowling.Frame
		err := rows.Scan(
			&f.ID,
			&f.MatchID,
			&f.FrameNumber,
			&f.LaneNumber,
			&f.GameNumber,
			&f.TeamAID,
			&f.TeamBID,
			pq.Array(&f.TeamAPlayers),
			pq.Array(&f.TeamBPlayers),
			&f.CreatedBy,
			&f.CreatedAt,
		)
		if err != nil {
			return err
		}
		frames[f.ID] = &f
		byID[f.MatchID].AddFrame(&f)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rollsStmt := `
		SELECT rolls.id, rolls.frame_id, rolls.player_id, rolls.roll_number, rolls.pins_knocked,
			rolls.created_by, rolls.created_at
		FROM rolls
		INNER JOIN frames ON frames.id = rolls.frame_id
		WHERE frames.match_id = ANY($1)
		ORDER BY rolls.frame_id, rolls.player_id, rolls.roll_number`

	rollRows, err := m.db.QueryContext(ctx, rollsStmt, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rollRows.Close()

	for rollRows.Next() {
		var r bowling.Roll
		err := rollRows.Scan(&r.ID, &r.FrameID, &r.PlayerID, &r.RollNumber, &r.PinsKnocked,
			&r.CreatedBy, &r.CreatedAt)
		if err != nil {
			return err
		}
		if f, ok := frames[r.FrameID]; ok {
			f.AddRoll(&r)
		}
	}

	return rollRows.Err()
}

// Update stores the mutable match fields. A stale version yields ErrEditConflict.
func (m MatchModel) Update(ctx context.Context, match *bowling.Match) error {
	stmt := `
		UPDATE matches
		SET status = $1, date = $2, notes = $3, team_a_points = $4, team_b_points = $5,
			updated_by = $6, updated_at = now(), version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at`

	args := []any{
		match.Status,
		match.Date,
		match.Notes,
		match.TeamAPoints,
		match.TeamBPoints,
		match.UpdatedBy,
		match.ID,
		match.Version,
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&match.Version, &match.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

// Delete removes the match with its frames and rolls and releases its pin.
func (m MatchModel) Delete(ctx context.Context, id int64) error {
	stmt := `
		DELETE FROM matches
		WHERE id = $1
		RETURNING pin_id`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var pinID int64
	err = tx.QueryRowContext(ctx, stmt, id).Scan(&pinID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rollback(tx, ErrRecordNotFound)
		}
		return rollback(tx, err)
	}

	if err := deletePin(ctx, tx, pinID, pins.PinScopeMatches); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

// InsertFrames stores the frame skeleton of a freshly generated match together
// with its new status and teams.
func (m MatchModel) InsertFrames(ctx context.Context, match *bowling.Match) error {
	stmt := `
		INSERT INTO frames (match_id, frame_number, lane_number, game_number, team_a_id, team_b_id,
			team_a_players, team_b_players, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7::bigint[], '{}'), COALESCE($8::bigint[], '{}'), $9)
		RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, 2*queryTimeout)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	insert, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return rollback(tx, err)
	}
	defer insert.Close()

	for _, f := range match.Frames {
		args := []any{
			match.ID,
			f.FrameNumber,
			f.LaneNumber,
			f.GameNumber,
			f.TeamAID,
			f.TeamBID,
			pq.Array(f.TeamAPlayers),
			pq.Array(f.TeamBPlayers),
			f.CreatedBy,
		}
		if err := insert.QueryRowContext(ctx, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
			var refErr ModelValidationErr
			if errors.As(teamRefErr(err), &refErr) {
				return rollback(tx, refErr)
			}
			return rollback(tx, fmt.Errorf("frame %d game %d lane %d: %w",
				f.FrameNumber, f.GameNumber, f.LaneNumber, err))
		}
		f.MatchID = match.ID
	}

	if err := updateFrameState(ctx, tx, match); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

// DeleteFrames drops every frame of the match, cascading to rolls, and stores
// the match's new status and teams.
func (m MatchModel) DeleteFrames(ctx context.Context, match *bowling.Match) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM frames WHERE match_id = $1`, match.ID); err != nil {
		return rollback(tx, err)
	}

	if err := updateFrameState(ctx, tx, match); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

// updateFrameState stores what generating or clearing frames changes on the
// match row.
func updateFrameState(ctx context.Context, tx *sql.Tx, match *bowling.Match) error {
	stmt := `
		UPDATE matches
		SET status = $1, team_a_id = $2, team_b_id = $3, updated_by = $4, updated_at = now(),
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version, updated_at`

	args := []any{match.Status, match.TeamAID, match.TeamBID, match.UpdatedBy, match.ID, match.Version}

	err := tx.QueryRowContext(ctx, stmt, args...).Scan(&match.Version, &match.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrEditConflict
	case err != nil:
		return teamRefErr(err)
	}
	return nil
}

// teamRefErr turns a foreign key violation on a match or frame team column
// into a ModelValidationErr. Other errors are returned as they are.
func teamRefErr(err error) error {
	for _, table := range []string{"matches", "frames"} {
		for _, column := range []string{"team_a_id", "team_b_id"} {
			msg := fmt.Sprintf(`pq: insert or update on table "%s" violates foreign key constraint "%s_%s_fkey"`,
				table, table, column)
			if err.Error() == msg {
				return NewModelValidationErr(column, "team does not exist")
			}
		}
	}
	return err
}
