package pins

import (
	"encoding/json"
	"testing"

	"BowlingLeagueApi/internal/assert"
)

func TestGeneratePin(t *testing.T) {
	for range 50 {
		pin := GeneratePin(Length)
		assert.Equal(t, len(pin), Length)
		assert.Equal(t, Valid(pin), true)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		pin  string
		want bool
	}{
		{name: "Valid", pin: "ab12cd", want: true},
		{name: "Too Short", pin: "ab12", want: false},
		{name: "Uppercase", pin: "AB12CD", want: false},
		{name: "Symbol", pin: "ab-2cd", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Valid(tt.pin), tt.want)
		})
	}
}

func TestPinMarshalJSON(t *testing.T) {
	js, err := json.Marshal(struct {
		Pin Pin `json:"pin"`
	}{Pin: Pin{ID: 4, Pin: "k3x9qa", Scope: PinScopeMatches}})
	assert.NilError(t, err)
	assert.Equal(t, string(js), `{"pin":"k3x9qa"}`)
}
