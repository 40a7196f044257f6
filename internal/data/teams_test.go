package data

import (
	"testing"

	"BowlingLeagueApi/internal/assert"
	"BowlingLeagueApi/internal/validator"
)

func TestParsePlayerAsgList(t *testing.T) {
	tests := []struct {
		name         string
		idList       []int64
		assignWant   []int64
		unassignWant []int64
	}{
		{
			name:         "Parse Assignment",
			idList:       []int64{1, 2, 3},
			assignWant:   []int64{1, 2, 3},
			unassignWant: []int64{},
		},
		{
			name:         "Parse Unassignment",
			idList:       []int64{-1, -2, -3},
			assignWant:   []int64{},
			unassignWant: []int64{1, 2, 3},
		},
		{
			name:         "Parse Assign & Unassign",
			idList:       []int64{1, 2, -4},
			assignWant:   []int64{1, 2},
			unassignWant: []int64{4},
		},
		{
			name:         "Parse With Zero",
			idList:       []int64{0, 1, 2},
			assignWant:   []int64{1, 2},
			unassignWant: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as, ua := parsePlayerAsgList(&Team{PlayerIDs: tt.idList})
			assert.SliceEqual(t, as, tt.assignWant)
			assert.SliceEqual(t, ua, tt.unassignWant)
		})
	}
}

func TestValidateTeam(t *testing.T) {
	tests := []struct {
		name    string
		team    Team
		wantKey string
	}{
		{name: "Valid", team: Team{Name: "Pin Pals", PlayerIDs: []int64{1, 2, 3}}},
		{name: "Missing Name", team: Team{}, wantKey: "name"},
		{name: "Long Name", team: Team{Name: "The Extremely Long Team Name Club"}, wantKey: "name"},
		{name: "Duplicate Player", team: Team{Name: "Pals", PlayerIDs: []int64{1, 1}}, wantKey: "player_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateTeam(v, &tt.team)
			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			_, ok := v.Errors[tt.wantKey]
			assert.Equal(t, ok, true)
		})
	}
}
