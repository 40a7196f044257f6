package data

import (
	"context"
	"database/sql"

	"BowlingLeagueApi/internal/bowling"

	"github.com/lib/pq"
)

// PlayerModel reads users in the shape the scoring engine works with.
type PlayerModel struct {
	db *sql.DB
}

func (m PlayerModel) GetPlayers(ctx context.Context, ids []int64) ([]bowling.Player, error) {
	stmt := `
		SELECT id, first_name, last_name, email
		FROM users
		WHERE id = ANY($1)
		ORDER BY id`

	return m.query(ctx, stmt, pq.Array(ids))
}

func (m PlayerModel) GetForLeague(ctx context.Context, leagueID int64) ([]bowling.Player, error) {
	stmt := `
		SELECT users.id, users.first_name, users.last_name, users.email
		FROM users
		INNER JOIN leagues_players ON leagues_players.player_id = users.id
		WHERE leagues_players.league_id = $1
		ORDER BY users.id`

	return m.query(ctx, stmt, leagueID)
}

// Directory keys players by id.
func (m PlayerModel) Directory(ctx context.Context, ids []int64) (map[int64]bowling.Player, error) {
	players, err := m.GetPlayers(ctx, ids)
	if err != nil {
		return nil, err
	}
	dir := make(map[int64]bowling.Player, len(players))
	for _, p := range players {
		dir[p.ID] = p
	}
	return dir, nil
}

func (m PlayerModel) query(ctx context.Context, stmt string, args ...any) ([]bowling.Player, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]bowling.Player, 0)
	for rows.Next() {
		var p bowling.Player
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email); err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	return players, rows.Err()
}
