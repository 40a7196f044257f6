package data

import (
	"context"
	"database/sql"
	"errors"

	"BowlingLeagueApi/internal/pins"
)

const maxPinAttempts = 5

var errPinsExhausted = errors.New("could not generate a unique pin")

// newPin reserves a unique pin for scope inside tx. A collision is retried with
// a fresh code inside a savepoint so the surrounding transaction survives.
func newPin(ctx context.Context, tx *sql.Tx, scope string) (*pins.Pin, error) {
	stmt := `
		INSERT INTO pins (pin, scope)
		VALUES ($1, $2)
		RETURNING id`

	for range maxPinAttempts {
		pin := &pins.Pin{Pin: pins.GeneratePin(pins.Length), Scope: scope}

		if _, err := tx.ExecContext(ctx, "SAVEPOINT new_pin"); err != nil {
			return nil, err
		}
		err := tx.QueryRowContext(ctx, stmt, pin.Pin, pin.Scope).Scan(&pin.ID)
		if err == nil {
			return pin, nil
		}
		if err.Error() != `pq: duplicate key value violates unique constraint "pins_pin_key"` {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT new_pin"); err != nil {
			return nil, err
		}
	}

	return nil, errPinsExhausted
}

func deletePin(ctx context.Context, tx *sql.Tx, pinID int64, scope string) error {
	stmt := `
		DELETE FROM pins
		WHERE id = $1 AND scope = $2`

	_, err := tx.ExecContext(ctx, stmt, pinID, scope)
	return err
}
