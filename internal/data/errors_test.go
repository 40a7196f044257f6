package data

import (
	"testing"

	"BowlingLeagueApi/internal/assert"
)

func TestModelValidationErr(t *testing.T) {
	err := NewModelValidationErr("team_b_id", "team does not exist")
	err.AddError("league_id", "league does not exist")
	err.AddError("team_b_id", "ignored")

	assert.Equal(t, err.Valid(), false)
	assert.Equal(t, err.Errors["team_b_id"], "team does not exist")
	assert.Equal(t, err.Error(), "model validation unsuccessful: league_id, team_b_id")
}
