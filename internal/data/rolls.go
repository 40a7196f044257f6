package data

import (
	"context"
	"database/sql"
	"errors"

	"BowlingLeagueApi/internal/bowling"
)

var ErrDuplicateRoll = errors.New("duplicate roll")

type RollModel struct {
	db *sql.DB
}

const insertRollStmt = `
	INSERT INTO rolls (frame_id, player_id, roll_number, pins_knocked, is_strike, is_spare, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at`

func rollArgs(r *bowling.Roll) []any {
	return []any{r.FrameID, r.PlayerID, r.RollNumber, r.PinsKnocked, r.IsStrike, r.IsSpare, r.CreatedBy}
}

func rollInsertErr(err error) error {
	switch {
	case err.Error() == `pq: duplicate key value violates unique constraint "rolls_frame_id_player_id_roll_number_key"`:
		return ErrDuplicateRoll
	case err.Error() == `pq: insert or update on table "rolls" violates foreign key constraint "rolls_frame_id_fkey"`:
		return ErrRecordNotFound
	default:
		return err
	}
}

func (m RollModel) InsertRoll(ctx context.Context, roll *bowling.Roll) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := m.db.QueryRowContext(ctx, insertRollStmt, rollArgs(roll)...).Scan(&roll.ID, &roll.CreatedAt)
	if err != nil {
		return rollInsertErr(err)
	}
	return nil
}

// ReplacePlayerRolls swaps every roll of the player in the frame for rolls in
// one transaction.
func (m RollModel) ReplacePlayerRolls(ctx context.Context, frameID, playerID int64,
	rolls []*bowling.Roll) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM rolls
		WHERE frame_id = $1 AND player_id = $2`, frameID, playerID)
	if err != nil {
		return rollback(tx, err)
	}

	for _, r := range rolls {
		err := tx.QueryRowContext(ctx, insertRollStmt, rollArgs(r)...).Scan(&r.ID, &r.CreatedAt)
		if err != nil {
			return rollback(tx, rollInsertErr(err))
		}
	}

	return tx.Commit()
}

func (m RollModel) DeleteRoll(ctx context.Context, rollID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := m.db.ExecContext(ctx, `DELETE FROM rolls WHERE id = $1`, rollID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateRolls stores new pin counts and flags for existing rolls in one
// transaction.
func (m RollModel) UpdateRolls(ctx context.Context, rolls []*bowling.Roll) error {
	stmt := `
		UPDATE rolls
		SET pins_knocked = $1, is_strike = $2, is_spare = $3
		WHERE id = $4`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, r := range rolls {
		res, err := tx.ExecContext(ctx, stmt, r.PinsKnocked, r.IsStrike, r.IsSpare, r.ID)
		if err != nil {
			return rollback(tx, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return rollback(tx, err)
		}
		if n == 0 {
			return rollback(tx, ErrRecordNotFound)
		}
	}

	return tx.Commit()
}
