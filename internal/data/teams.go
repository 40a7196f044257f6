package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/pins"
	"BowlingLeagueApi/internal/validator"

	"github.com/lib/pq"
)

var (
	ErrDuplicateTeamName = errors.New("duplicate team name")
	ErrPlayerNotFound    = errors.New("player(s) not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrDuplicatePlayer   = errors.New("duplicate player team assignment")
)

type Team struct {
	ID        int64            `json:"id"`
	Pin       pins.Pin         `json:"pin"`
	UserID    int64            `json:"-"`
	LeagueID  *int64           `json:"league_id,omitempty"`
	Name      string           `json:"name"`
	Size      int              `json:"size"`
	CreatedAt time.Time        `json:"-"`
	Version   int32            `json:"-"`
	IsActive  bool             `json:"is_active"`
	PlayerIDs []int64          `json:"-"`
	Players   []bowling.Player `json:"players,omitempty"`
}

type TeamModel struct {
	db *sql.DB
}

func (m TeamModel) Insert(ctx context.Context, team *Team) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	pin, err := newPin(ctx, tx, pins.PinScopeTeams)
	if err != nil {
		return rollback(tx, err)
	}
	team.Pin = *pin

	stmt := `
		INSERT INTO teams (pin_id, user_id, league_id, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version, is_active`

	args := []any{team.Pin.ID, team.UserID, team.LeagueID, team.Name}

	err = tx.QueryRowContext(ctx, stmt, args...).Scan(
		&team.ID,
		&team.CreatedAt,
		&team.Version,
		&team.IsActive,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint`+
			` "unq_userid_team_name"`:
			return rollback(tx, ErrDuplicateTeamName)
		default:
			return rollback(tx, err)
		}
	}

	if len(team.PlayerIDs) != 0 {
		if err := assignPlayers(ctx, tx, team, team.PlayerIDs); err != nil {
			return rollback(tx, err)
		}
	}

	return tx.Commit()
}

// Get loads a team with its members.
func (m TeamModel) Get(ctx context.Context, id int64) (*Team, error) {
	stmt := `
		SELECT teams.id, teams.user_id, teams.league_id, teams.name, teams.size, teams.created_at,
			teams.version, teams.is_active, pins.id, pins.pin, pins.scope
		FROM teams
		INNER JOIN pins ON pins.id = teams.pin_id
		WHERE teams.id = $1`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var team Team
	err := m.db.QueryRowContext(ctx, stmt, id).Scan(
		&team.ID,
		&team.UserID,
		&team.LeagueID,
		&team.Name,
		&team.Size,
		&team.CreatedAt,
		&team.Version,
		&team.IsActive,
		&team.Pin.ID,
		&team.Pin.Pin,
		&team.Pin.Scope,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	membersStmt := `
		SELECT users.id, users.first_name, users.last_name, users.email
		FROM teams_players
		INNER JOIN users ON users.id = teams_players.player_id
		WHERE teams_players.team_id = $1
		ORDER BY users.last_name, users.first_name`

	rows, err := m.db.QueryContext(ctx, membersStmt, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p bowling.Player
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email); err != nil {
			return nil, err
		}
		team.Players = append(team.Players, p)
		team.PlayerIDs = append(team.PlayerIDs, p.ID)
	}

	return &team, rows.Err()
}

func (m TeamModel) GetAll(ctx context.Context, leagueID *int64, filters Filters) ([]*Team, Metadata, error) {
	stmt := `
		SELECT count(*) OVER(), teams.id, teams.user_id, teams.league_id, teams.name, teams.size,
			teams.created_at, teams.version, teams.is_active, pins.id, pins.pin, pins.scope
		FROM teams
		INNER JOIN pins ON pins.id = teams.pin_id
		WHERE ($1::bigint IS NULL OR teams.league_id = $1)
		ORDER BY teams.` + filters.sortColumn() + ` ` + filters.sortDirection() + `, teams.id ASC
		LIMIT $2 OFFSET $3`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, leagueID, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	teams := make([]*Team, 0)
	for rows.Next() {
		var team Team
		err := rows.Scan(
			&totalRecords,
			&team.ID,
			&team.UserID,
			&team.LeagueID,
			&team.Name,
			&team.Size,
			&team.CreatedAt,
			&team.Version,
			&team.IsActive,
			&team.Pin.ID,
			&team.Pin.Pin,
			&team.Pin.Scope,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return teams, calculateMetadata(totalRecords, filters.Page, filters.PageSize), nil
}

// GetNames maps team ids to names for standings.
func (m TeamModel) GetNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	stmt := `
		SELECT id, name
		FROM teams
		WHERE id = ANY($1)`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}

	return names, rows.Err()
}

// Update renames the team and applies the assignment list in PlayerIDs, where a
// negative id unassigns that player.
func (m TeamModel) Update(ctx context.Context, team *Team) error {
	stmt := `
		UPDATE teams
		SET name = $1, league_id = $2, is_active = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	args := []any{team.Name, team.LeagueID, team.IsActive, team.ID, team.Version}
	err = tx.QueryRowContext(ctx, stmt, args...).Scan(&team.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint`+
			` "unq_userid_team_name"`:
			return rollback(tx, ErrDuplicateTeamName)
		case errors.Is(err, sql.ErrNoRows):
			return rollback(tx, ErrEditConflict)
		default:
			return rollback(tx, err)
		}
	}

	assign, unassign := parsePlayerAsgList(team)
	if len(assign) != 0 {
		if err := assignPlayers(ctx, tx, team, assign); err != nil {
			return rollback(tx, err)
		}
	}
	if len(unassign) != 0 {
		if err := unassignPlayers(ctx, tx, team, unassign); err != nil {
			return rollback(tx, err)
		}
	}

	return tx.Commit()
}

func (m TeamModel) Delete(ctx context.Context, teamID, userID int64) error {
	stmt := `
		DELETE FROM teams
		WHERE id = $1 AND user_id = $2
		RETURNING pin_id`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var pinID int64
	err = tx.QueryRowContext(ctx, stmt, teamID, userID).Scan(&pinID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rollback(tx, ErrRecordNotFound)
		}
		return rollback(tx, err)
	}

	if err := deletePin(ctx, tx, pinID, pins.PinScopeTeams); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func assignPlayers(ctx context.Context, tx *sql.Tx, team *Team, playerIDs []int64) error {
	insertStmt := `
		INSERT INTO teams_players (team_id, player_id)
		SELECT $1, unnest($2::bigint[])`
	adjSizeStmt := `
		UPDATE teams
			SET size = size + $1
			WHERE id = $2
			RETURNING size`

	_, err := tx.ExecContext(ctx, insertStmt, team.ID, pq.Array(playerIDs))
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "teams_players" violates foreign key `+
			`constraint "teams_players_team_id_fkey"`:
			return ErrTeamNotFound
		case err.Error() == `pq: insert or update on table "teams_players" violates foreign key `+
			`constraint "teams_players_player_id_fkey"`:
			return ErrPlayerNotFound
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"teams_players_pkey"`:
			return ErrDuplicatePlayer
		default:
			return err
		}
	}

	return tx.QueryRowContext(ctx, adjSizeStmt, len(playerIDs), team.ID).Scan(&team.Size)
}

func unassignPlayers(ctx context.Context, tx *sql.Tx, team *Team, playerIDs []int64) error {
	stmt := `
		DELETE FROM teams_players
		WHERE team_id = $1 AND player_id = ANY($2)`

	res, err := tx.ExecContext(ctx, stmt, team.ID, pq.Array(playerIDs))
	if err != nil {
		return err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if int(removed) != len(playerIDs) {
		return ErrPlayerNotFound
	}

	return tx.QueryRowContext(ctx, `
		UPDATE teams
			SET size = size - $1
			WHERE id = $2
			RETURNING size`, removed, team.ID).Scan(&team.Size)
}

func ValidateTeam(v *validator.Validator, team *Team) {
	v.Check(team.Name != "", "name", "must be provided")
	v.Check(len(team.Name) <= 20, "name", "must be 20 characters or less")
	v.Check(validator.Unique(team.PlayerIDs), "player_ids", "must not contain duplicates")
}
