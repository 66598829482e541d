package solver

import (
	"fmt"
	"strings"
)

// MatchStatus is the feedback for a single letter at a single position.
type MatchStatus int

const (
	NoMatch MatchStatus = iota
	WrongPosition
	CorrectPosition
)

// Status names used on the wire.
const (
	StatusAbsent  = "absent"
	StatusPresent = "present"
	StatusCorrect = "correct"
)

func (s MatchStatus) String() string {
	switch s {
	case NoMatch:
		return StatusAbsent
	case WrongPosition:
		return StatusPresent
	case CorrectPosition:
		return StatusCorrect
	default:
		return fmt.Sprintf("MatchStatus(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s MatchStatus) MarshalText() ([]byte, error) {
	if s < NoMatch || s > CorrectPosition {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidFeedback, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts a status name or its digit code.
func (s *MatchStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case StatusAbsent, "0":
		*s = NoMatch
	case StatusPresent, "1":
		*s = WrongPosition
	case StatusCorrect, "2":
		*s = CorrectPosition
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidFeedback, text)
	}
	return nil
}

// Digit returns the interactive code of the status: '0', '1' or '2'.
func (s MatchStatus) Digit() byte {
	return '0' + byte(s)
}

// ParseFeedback reads a feedback code made of one digit per position:
// 0 for absent, 1 for present elsewhere and 2 for correct.
func ParseFeedback(code string) ([]MatchStatus, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", ErrInvalidFeedback)
	}
	result := make([]MatchStatus, 0, len(code))
	for i, r := range code {
		if r < '0' || r > '2' {
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidFeedback, r, i+1)
		}
		result = append(result, MatchStatus(r-'0'))
	}
	return result, nil
}

// FormatFeedback is the inverse of ParseFeedback.
func FormatFeedback(result []MatchStatus) string {
	b := make([]byte, len(result))
	for i, s := range result {
		b[i] = s.Digit()
	}
	return string(b)
}

// GuessResult pairs a guessed word with its per-position feedback.
type GuessResult struct {
	Word   string        `json:"word"`
	Result []MatchStatus `json:"result"`
}

// Solved reports whether every position is a correct hit.
func (g GuessResult) Solved() bool {
	if len(g.Result) == 0 {
		return false
	}
	for _, s := range g.Result {
		if s != CorrectPosition {
			return false
		}
	}
	return true
}

func (g GuessResult) String() string {
	return g.Word + ":" + FormatFeedback(g.Result)
}

// Simulate scores guess against secret. Exact hits are taken first and
// consume their secret letter; the remaining guess letters, left to right,
// each consume the first unconsumed matching secret letter or read absent.
func Simulate(guess, secret string) (GuessResult, error) {
	g := []rune(Normalize(guess))
	remaining := []rune(Normalize(secret))
	if len(g) != len(remaining) {
		return GuessResult{}, fmt.Errorf("%w: guess has %d letters, secret has %d", ErrLengthMismatch, len(g), len(remaining))
	}

	const consumed = rune(-1)
	result := make([]MatchStatus, len(g))
	marked := make([]bool, len(g))

	for i := range g {
		if g[i] == remaining[i] {
			result[i] = CorrectPosition
			marked[i] = true
			remaining[i] = consumed
		}
	}

	for i := range g {
		if marked[i] {
			continue
		}
		result[i] = NoMatch
		for j := range remaining {
			if remaining[j] == g[i] {
				result[i] = WrongPosition
				remaining[j] = consumed
				break
			}
		}
	}

	return GuessResult{Word: string(g), Result: result}, nil
}
