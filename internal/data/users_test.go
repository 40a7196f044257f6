package data

import (
	"testing"
	"time"

	"BowlingLeagueApi/internal/assert"
	"BowlingLeagueApi/internal/validator"
)

func TestPassword(t *testing.T) {
	var p password
	assert.NilError(t, p.Set("strike-on-ten"))

	ok, err := p.Matches("strike-on-ten")
	assert.NilError(t, err)
	assert.Equal(t, ok, true)

	ok, err = p.Matches("gutter-ball")
	assert.NilError(t, err)
	assert.Equal(t, ok, false)
}

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		email    string
		password string
		wantKey  string
	}{
		{name: "Valid", first: "Ada", email: "ada@example.com", password: "pa55word"},
		{name: "Missing First Name", email: "ada@example.com", password: "pa55word", wantKey: "first_name"},
		{name: "Bad Email", first: "Ada", email: "ada.example.com", password: "pa55word", wantKey: "email"},
		{name: "Short Password", first: "Ada", email: "ada@example.com", password: "pass", wantKey: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{FirstName: tt.first, LastName: "Lovelace", Email: tt.email}
			assert.NilError(t, user.Password.Set(tt.password))

			v := validator.New()
			ValidateUser(v, user)
			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			_, ok := v.Errors[tt.wantKey]
			assert.Equal(t, ok, true)
		})
	}
}

func TestUserPlayer(t *testing.T) {
	user := &User{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	p := user.Player()

	assert.Equal(t, p.ID, int64(7))
	assert.Equal(t, p.FullName(), "Ada Lovelace")
	assert.Equal(t, AnonymousUser.IsAnonymous(), true)
	assert.Equal(t, user.IsAnonymous(), false)
}

func TestGenerateToken(t *testing.T) {
	token, err := generateToken(3, time.Hour, ScopeActivation)
	assert.NilError(t, err)

	assert.Equal(t, len(token.Plaintext), 26)
	assert.Equal(t, len(token.Hash), 32)
	assert.Equal(t, token.Scope, ScopeActivation)

	v := validator.New()
	ValidateTokenPlaintext(v, token.Plaintext)
	assert.Equal(t, v.Valid(), true)
}
