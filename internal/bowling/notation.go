package bowling

import (
	"strconv"
	"strings"
)

// ParseNotation turns shorthand such as "X", "7/", "7,2" or "X X X" into the
// pin counts of consecutive rolls in one frame. ok is false when any token is
// invalid or the rolls break the frame's shape; no partial result is returned.
func ParseNotation(input string, frameNumber int) (pins []int, ok bool) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return nil, false
	}

	tokens := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	for _, tok := range tokens {
		rolls, ok := parseToken(tok, pins)
		if !ok {
			return nil, false
		}
		pins = append(pins, rolls...)
	}

	if !validShape(pins, frameNumber) {
		return nil, false
	}
	return pins, true
}

// parseToken reads one token. prev holds the rolls already read so a lone "/"
// can close the open rack.
func parseToken(tok string, prev []int) ([]int, bool) {
	switch {
	case tok == "X":
		return []int{MaxPins}, true
	case tok == "-":
		return []int{0}, true
	case tok == "/":
		if len(prev) == 0 || !rackOpen(prev) {
			return nil, false
		}
		return []int{MaxPins - prev[len(prev)-1]}, true
	case len(tok) == 2 && tok[1] == '/':
		first, ok := spareLead(tok[0])
		if !ok {
			return nil, false
		}
		return []int{first, MaxPins - first}, true
	}

	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 || n > MaxPins {
		return nil, false
	}
	return []int{n}, true
}

func spareLead(c byte) (int, bool) {
	if c == '-' {
		return 0, true
	}
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// rackOpen reports whether the last roll left standing pins that a spare
// could clear.
func rackOpen(rolls []int) bool {
	fresh := true
	for _, p := range rolls {
		switch {
		case fresh && p == MaxPins:
			fresh = true
		case fresh:
			fresh = false
		default:
			fresh = true
		}
	}
	return !fresh
}

func validShape(pins []int, frameNumber int) bool {
	if frameNumber == LastFrame {
		return len(pins) == 2 || len(pins) == 3
	}
	switch len(pins) {
	case 1:
		return true
	case 2:
		// A roll after a strike is left for CheckRoll to reject.
		return pins[0] == MaxPins || pins[0]+pins[1] <= MaxPins
	default:
		return false
	}
}

// FormatRolls renders pin counts with scoreboard symbols: X for a strike on a
// full rack, / for a spare, - for a miss.
func FormatRolls(pins []int) []string {
	symbols := make([]string, len(pins))
	fresh := true
	for i, p := range pins {
		switch {
		case fresh && p == MaxPins:
			symbols[i] = "X"
		case fresh:
			symbols[i] = pinSymbol(p)
			fresh = false
		default:
			if pins[i-1]+p == MaxPins {
				symbols[i] = "/"
			} else {
				symbols[i] = pinSymbol(p)
			}
			fresh = true
		}
	}
	return symbols
}

func pinSymbol(p int) string {
	if p == 0 {
		return "-"
	}
	return strconv.Itoa(p)
}
