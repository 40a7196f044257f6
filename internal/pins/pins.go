package pins

import (
	"errors"
	"math/rand/v2"
	"strconv"
)

const Length = 6

var (
	ErrDuplicatePin = errors.New("duplicate pin")
	letterRunes     = []rune("abcdefghijklmnopqrstuvwxyz1234567890")
	PinScopeTeams   = "teams"
	PinScopeLeagues = "leagues"
	PinScopeMatches = "matches"
)

// Pin is the public share code of a league, team or match. It marshals to its
// code alone.
type Pin struct {
	ID    int64
	Pin   string
	Scope string
}

func (p Pin) MarshalJSON() ([]byte, error) {
	jsonValue := strconv.Quote(p.Pin)
	return []byte(jsonValue), nil
}

func GeneratePin(l int) string {
	b := make([]rune, l)
	for i := range b {
		b[i] = letterRunes[rand.IntN(len(letterRunes))]
	}
	return string(b)
}

// Valid reports whether s could be a pin produced by GeneratePin.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
