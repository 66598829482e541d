package solver

import (
	"fmt"
	"maps"
	"slices"
)

// ConstraintSet aggregates per-letter knowledge gathered from all guesses so
// far. It is a value: Merge returns a new set and never alters the receiver,
// so older snapshots stay valid.
type ConstraintSet struct {
	length  int
	letters map[rune]LetterConstraint
}

// NewConstraintSet returns an unconstrained set for words of the given length
// covering every letter of alphabet.
func NewConstraintSet(length int, alphabet []rune) ConstraintSet {
	letters := make(map[rune]LetterConstraint, len(alphabet))
	for _, r := range alphabet {
		letters[r] = NewLetterConstraint(r, length)
	}
	return ConstraintSet{length: length, letters: letters}
}

// WordLength returns the length of the words the set applies to.
func (cs ConstraintSet) WordLength() int { return cs.length }

// Letter returns the constraint recorded for r.
func (cs ConstraintSet) Letter(r rune) (LetterConstraint, bool) {
	c, ok := cs.letters[r]
	return c, ok
}

// Letters returns every letter constraint ordered by letter.
func (cs ConstraintSet) Letters() []LetterConstraint {
	out := make([]LetterConstraint, 0, len(cs.letters))
	for _, r := range slices.Sorted(maps.Keys(cs.letters)) {
		out = append(out, cs.letters[r])
	}
	return out
}

// Consistent reports whether every letter still has a satisfiable interval.
func (cs ConstraintSet) Consistent() bool {
	for _, c := range cs.letters {
		if !c.Valid(cs.length) {
			return false
		}
	}
	return true
}

type letterObservation struct {
	matched int
	absent  bool
	correct PositionSet
	wrong   PositionSet
}

// Merge absorbs one guess result and returns the tightened set. A result of
// the wrong length is rejected and the receiver is left as it was.
func (cs ConstraintSet) Merge(gr GuessResult) (ConstraintSet, error) {
	word := []rune(Normalize(gr.Word))
	if len(word) != cs.length {
		return cs, fmt.Errorf("%w: guess %q has %d letters, want %d", ErrLengthMismatch, gr.Word, len(word), cs.length)
	}
	if len(gr.Result) != cs.length {
		return cs, fmt.Errorf("%w: feedback has %d positions, want %d", ErrLengthMismatch, len(gr.Result), cs.length)
	}

	seen := make(map[rune]*letterObservation)
	for i, r := range word {
		obs, ok := seen[r]
		if !ok {
			obs = &letterObservation{}
			seen[r] = obs
		}
		switch gr.Result[i] {
		case NoMatch:
			obs.absent = true
			obs.wrong = obs.wrong.With(i)
		case WrongPosition:
			obs.matched++
			obs.wrong = obs.wrong.With(i)
		case CorrectPosition:
			obs.matched++
			obs.correct = obs.correct.With(i)
		default:
			return cs, fmt.Errorf("%w: status %d at position %d", ErrInvalidFeedback, int(gr.Result[i]), i+1)
		}
	}

	letters := make(map[rune]LetterConstraint, len(cs.letters)+len(seen))
	for r, c := range cs.letters {
		letters[r] = c
	}
	for r := range seen {
		if _, ok := letters[r]; !ok {
			letters[r] = NewLetterConstraint(r, cs.length)
		}
	}

	// Letters absent from this guess still go through Tighten with a zero
	// observation so the minimum absorbs any correct positions.
	knownMin := 0
	for r, c := range letters {
		var obs letterObservation
		if o, ok := seen[r]; ok {
			obs = *o
		}
		c = c.Tighten(obs.matched, obs.absent, obs.correct, obs.wrong)
		letters[r] = c
		knownMin += c.MinCount
	}

	slack := cs.length - knownMin
	for r, c := range letters {
		c.MaxCount = min(c.MaxCount, c.MinCount+slack, cs.length-c.WrongPositions.Len())
		letters[r] = c
	}

	return ConstraintSet{length: cs.length, letters: letters}, nil
}

// Matches reports whether word is consistent with every letter constraint.
func (cs ConstraintSet) Matches(word string) bool {
	runes := []rune(Normalize(word))
	if len(runes) != cs.length {
		return false
	}
	return cs.matchRunes(runes)
}

func (cs ConstraintSet) matchRunes(word []rune) bool {
	for _, c := range cs.letters {
		if !c.Matches(word) {
			return false
		}
	}
	return true
}

// Filter keeps, in order, the words that match.
func (cs ConstraintSet) Filter(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if cs.Matches(w) {
			out = append(out, w)
		}
	}
	return out
}
