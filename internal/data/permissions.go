package data

import (
	"context"
	"database/sql"
	"slices"

	"github.com/lib/pq"
)

const (
	PermissionMatchesRead  = "matches:read"
	PermissionMatchesWrite = "matches:write"
	PermissionScoresWrite  = "scores:write"
	PermissionLeaguesWrite = "leagues:write"
)

type Permissions []string

func (p Permissions) Include(code string) bool {
	return slices.Contains(p, code)
}

type PermissionModel struct {
	db *sql.DB
}

func (m PermissionModel) GetAllForUser(ctx context.Context, userID int64) (Permissions, error) {
	stmt := `
		SELECT permissions.code
		FROM permissions
		INNER JOIN users_permissions ON users_permissions.permission_id = permissions.id
		INNER JOIN users ON users_permissions.user_id = users.id
		WHERE users.id = $1`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions Permissions
	for rows.Next() {
		var permission string
		if err := rows.Scan(&permission); err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}

	return permissions, rows.Err()
}

func (m PermissionModel) AddForUser(ctx context.Context, userID int64, codes ...string) error {
	stmt := `
		INSERT INTO users_permissions
		SELECT $1, permissions.id FROM permissions WHERE permissions.code = ANY($2)
		ON CONFLICT DO NOTHING`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := m.db.ExecContext(ctx, stmt, userID, pq.Array(codes))
	return err
}
