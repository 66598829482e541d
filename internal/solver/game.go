package solver

import (
	"fmt"
	"slices"
)

// Status is the state of a game.
type Status int

const (
	Playing Status = iota
	Solved
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Hint is a bounded, sorted sample of the remaining candidates.
type Hint struct {
	Total     int      `json:"total"`
	Words     []string `json:"words"`
	Truncated bool     `json:"truncated"`
}

// Game is one solving session: the candidate words still consistent with
// every merged result, the knowledge that produced them, and optionally the
// secret when the game scores guesses itself.
type Game struct {
	solver      *Solver
	secret      string
	constraints ConstraintSet
	candidates  []int
	history     []GuessResult
}

// NewGame starts a game over the solver's vocabulary. An empty secret means
// feedback will be supplied from outside; otherwise the secret must belong to
// the vocabulary.
func NewGame(s *Solver, secret string) (*Game, error) {
	v := s.vocab
	g := &Game{
		solver:      s,
		constraints: NewConstraintSet(v.length, v.alphabet),
		candidates:  make([]int, v.Len()),
	}
	for i := range g.candidates {
		g.candidates[i] = i
	}
	if secret != "" {
		n := Normalize(secret)
		if len([]rune(n)) != v.length {
			return nil, fmt.Errorf("%w: secret %q has %d letters, want %d", ErrLengthMismatch, secret, len([]rune(n)), v.length)
		}
		if !v.Contains(n) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, secret)
		}
		g.secret = n
	}
	return g, nil
}

// Restart returns a fresh game with the same secret.
func (g *Game) Restart() *Game {
	fresh, _ := NewGame(g.solver, g.secret)
	return fresh
}

// Secret returns the secret word when the game knows it.
func (g *Game) Secret() (string, bool) { return g.secret, g.secret != "" }

// WordLength returns the length every guess must have.
func (g *Game) WordLength() int { return g.solver.vocab.length }

// validateGuess normalizes a guess and checks its length and membership.
func (g *Game) validateGuess(guess string) (string, error) {
	n := Normalize(guess)
	if l := len([]rune(n)); l != g.WordLength() {
		return "", fmt.Errorf("%w: guess %q has %d letters, want %d", ErrLengthMismatch, guess, l, g.WordLength())
	}
	if !g.solver.vocab.Contains(n) {
		return "", fmt.Errorf("%w: %q", ErrUnknownWord, guess)
	}
	return n, nil
}

// Check scores guess against the known secret without merging it.
func (g *Game) Check(guess string) (GuessResult, error) {
	if g.secret == "" {
		return GuessResult{}, ErrNoSecret
	}
	n, err := g.validateGuess(guess)
	if err != nil {
		return GuessResult{}, err
	}
	return Simulate(n, g.secret)
}

// Merge folds a guess result into the game and narrows the candidates. On
// error nothing changes.
func (g *Game) Merge(gr GuessResult) error {
	word, err := g.validateGuess(gr.Word)
	if err != nil {
		return err
	}
	if len(gr.Result) != g.WordLength() {
		return fmt.Errorf("%w: feedback has %d positions, want %d", ErrLengthMismatch, len(gr.Result), g.WordLength())
	}
	gr = GuessResult{Word: word, Result: slices.Clone(gr.Result)}

	next, err := g.constraints.Merge(gr)
	if err != nil {
		return err
	}

	v := g.solver.vocab
	kept := make([]int, 0, len(g.candidates))
	for _, i := range g.candidates {
		if next.matchRunes(v.runes[i]) {
			kept = append(kept, i)
		}
	}

	g.constraints = next
	g.candidates = kept
	g.history = append(slices.Clip(g.history), gr)
	return nil
}

// Play checks guess against the secret and merges the result.
func (g *Game) Play(guess string) (GuessResult, error) {
	gr, err := g.Check(guess)
	if err != nil {
		return GuessResult{}, err
	}
	if err := g.Merge(gr); err != nil {
		return GuessResult{}, err
	}
	return gr, nil
}

// Propose returns the solver's next guess, or false once no candidate is left.
func (g *Game) Propose() (string, bool) {
	i, ok := g.solver.propose(g.candidates)
	if !ok {
		return "", false
	}
	return g.solver.vocab.words[i], true
}

// Candidates returns the remaining candidate words in vocabulary order.
func (g *Game) Candidates() []string { return g.solver.vocab.wordsAt(g.candidates) }

// CandidateCount returns how many candidates remain.
func (g *Game) CandidateCount() int { return len(g.candidates) }

// Hint returns up to limit candidates in vocabulary order.
func (g *Game) Hint(limit int) Hint {
	n := min(max(limit, 0), len(g.candidates))
	return Hint{
		Total:     len(g.candidates),
		Words:     g.solver.vocab.wordsAt(g.candidates[:n]),
		Truncated: len(g.candidates) > n,
	}
}

// History returns the merged results in order.
func (g *Game) History() []GuessResult { return slices.Clone(g.history) }

// Constraints returns the current knowledge snapshot.
func (g *Game) Constraints() ConstraintSet { return g.constraints }

// Status reports whether the game is solved, exhausted or still running.
func (g *Game) Status() Status {
	if n := len(g.history); n > 0 && g.history[n-1].Solved() {
		return Solved
	}
	if len(g.candidates) == 0 {
		return Exhausted
	}
	return Playing
}
