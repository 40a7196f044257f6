package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"BowlingLeagueApi/internal/pins"
	"BowlingLeagueApi/internal/validator"

	"github.com/lib/pq"
)

var ErrDuplicateLeagueName = errors.New("duplicate league name")

type League struct {
	ID        int64     `json:"id"`
	Pin       pins.Pin  `json:"pin"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
	Version   int32     `json:"-"`
	IsActive  bool      `json:"is_active"`
	PlayerIDs []int64   `json:"player_ids,omitempty"`
}

func ValidateLeague(v *validator.Validator, l *League) {
	v.Check(l.Name != "", "name", "must be provided")
	v.Check(len(l.Name) <= 40, "name", "must be 40 characters or less")
	v.Check(validator.Unique(l.PlayerIDs), "player_ids", "must not contain duplicates")
}

type LeagueModel struct {
	db *sql.DB
}

func (m LeagueModel) Insert(ctx context.Context, l *League) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	pin, err := newPin(ctx, tx, pins.PinScopeLeagues)
	if err != nil {
		return rollback(tx, err)
	}
	l.Pin = *pin

	stmt := `
		INSERT INTO leagues (name, pin_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version, is_active`

	err = tx.QueryRowContext(ctx, stmt, l.Name, l.Pin.ID, l.UserID).Scan(
		&l.ID,
		&l.CreatedAt,
		&l.Version,
		&l.IsActive,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "unq_userid_league_name"`:
			return rollback(tx, ErrDuplicateLeagueName)
		default:
			return rollback(tx, err)
		}
	}

	if len(l.PlayerIDs) != 0 {
		if err := addLeaguePlayers(ctx, tx, l.ID, l.PlayerIDs); err != nil {
			return rollback(tx, err)
		}
	}

	return tx.Commit()
}

const leagueColumns = `leagues.id, leagues.name, leagues.user_id, leagues.created_at, leagues.version,
	leagues.is_active, pins.id, pins.pin, pins.scope`

func scanLeague(row interface{ Scan(...any) error }) (*League, error) {
	var l League
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.UserID,
		&l.CreatedAt,
		&l.Version,
		&l.IsActive,
		&l.Pin.ID,
		&l.Pin.Pin,
		&l.Pin.Scope,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (m LeagueModel) Get(ctx context.Context, id int64) (*League, error) {
	stmt := `
		SELECT ` + leagueColumns + `,
			COALESCE(ARRAY(SELECT player_id FROM leagues_players WHERE league_id = leagues.id
				ORDER BY player_id), '{}')
		FROM leagues
		INNER JOIN pins ON pins.id = leagues.pin_id
		WHERE leagues.id = $1`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var l League
	err := m.db.QueryRowContext(ctx, stmt, id).Scan(
		&l.ID,
		&l.Name,
		&l.UserID,
		&l.CreatedAt,
		&l.Version,
		&l.IsActive,
		&l.Pin.ID,
		&l.Pin.Pin,
		&l.Pin.Scope,
		pq.Array(&l.PlayerIDs),
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &l, nil
}

func (m LeagueModel) GetAll(ctx context.Context, userID int64, name string,
	filters Filters) ([]*League, Metadata, error) {
	stmt := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM leagues
		INNER JOIN pins ON pins.id = leagues.pin_id
		WHERE leagues.user_id = $1
		AND (to_tsvector('simple', leagues.name) @@ plainto_tsquery('simple', $2) OR $2 = '')
		ORDER BY leagues.%s %s, leagues.id ASC
		LIMIT $3 OFFSET $4`, leagueColumns, filters.sortColumn(), filters.sortDirection())

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, userID, name, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	leagues := make([]*League, 0)
	for rows.Next() {
		var l League
		err := rows.Scan(
			&totalRecords,
			&l.ID,
			&l.Name,
			&l.UserID,
			&l.CreatedAt,
			&l.Version,
			&l.IsActive,
			&l.Pin.ID,
			&l.Pin.Pin,
			&l.Pin.Scope,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		leagues = append(leagues, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return leagues, calculateMetadata(totalRecords, filters.Page, filters.PageSize), nil
}

// Update renames the league and applies player assignments. PlayerIDs use the
// team convention: a negative id removes that player from the league.
func (m LeagueModel) Update(ctx context.Context, l *League) error {
	stmt := `
		UPDATE leagues
		SET name = $1, is_active = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, stmt, l.Name, l.IsActive, l.ID, l.Version).Scan(&l.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "unq_userid_league_name"`:
			return rollback(tx, ErrDuplicateLeagueName)
		case errors.Is(err, sql.ErrNoRows):
			return rollback(tx, ErrEditConflict)
		default:
			return rollback(tx, err)
		}
	}

	assign, unassign := parsePlayerAsgList(&Team{PlayerIDs: l.PlayerIDs})
	if len(assign) != 0 {
		if err := addLeaguePlayers(ctx, tx, l.ID, assign); err != nil {
			return rollback(tx, err)
		}
	}
	if len(unassign) != 0 {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM leagues_players
			WHERE league_id = $1 AND player_id = ANY($2)`, l.ID, pq.Array(unassign))
		if err != nil {
			return rollback(tx, err)
		}
	}

	return tx.Commit()
}

func (m LeagueModel) Delete(ctx context.Context, leagueID, userID int64) error {
	stmt := `
		DELETE FROM leagues
		WHERE id = $1 AND user_id = $2
		RETURNING pin_id`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var pinID int64
	err = tx.QueryRowContext(ctx, stmt, leagueID, userID).Scan(&pinID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rollback(tx, ErrRecordNotFound)
		}
		return rollback(tx, err)
	}

	if err := deletePin(ctx, tx, pinID, pins.PinScopeLeagues); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func addLeaguePlayers(ctx context.Context, tx *sql.Tx, leagueID int64, playerIDs []int64) error {
	stmt := `
		INSERT INTO leagues_players (league_id, player_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`

	_, err := tx.ExecContext(ctx, stmt, leagueID, pq.Array(playerIDs))
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "leagues_players" violates foreign key `+
			`constraint "leagues_players_player_id_fkey"`:
			return ErrPlayerNotFound
		default:
			return err
		}
	}
	return nil
}
