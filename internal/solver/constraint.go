package solver

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxWordLength bounds word length so positions fit in a PositionSet.
const MaxWordLength = 64

// PositionSet is a set of zero-based word positions.
type PositionSet uint64

// Positions builds a set from the given positions.
func Positions(ps ...int) PositionSet {
	var s PositionSet
	for _, p := range ps {
		s = s.With(p)
	}
	return s
}

// With returns s plus position p.
func (s PositionSet) With(p int) PositionSet { return s | 1<<uint(p) }

// Has reports whether p is in s.
func (s PositionSet) Has(p int) bool { return s&(1<<uint(p)) != 0 }

// Union returns s ∪ o.
func (s PositionSet) Union(o PositionSet) PositionSet { return s | o }

// Len returns the number of positions in s.
func (s PositionSet) Len() int { return bits.OnesCount64(uint64(s)) }

// Slice lists the positions in increasing order.
func (s PositionSet) Slice() []int {
	out := make([]int, 0, s.Len())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros64(v))
	}
	return out
}

func (s PositionSet) String() string {
	parts := make([]string, 0, s.Len())
	for _, p := range s.Slice() {
		parts = append(parts, fmt.Sprint(p))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// LetterConstraint is what is known about one letter of the secret word.
// MaxCount equal to the word length means no upper bound is known yet.
type LetterConstraint struct {
	Letter           rune
	CorrectPositions PositionSet
	WrongPositions   PositionSet
	MinCount         int
	MaxCount         int
}

// NewLetterConstraint returns the initial, unconstrained record for a letter
// in words of the given length.
func NewLetterConstraint(letter rune, length int) LetterConstraint {
	return LetterConstraint{Letter: letter, MaxCount: length}
}

// Tighten folds one guess's feedback for this letter into the constraint.
// observed counts the positions marked correct or present; exact is set when
// at least one occurrence of the letter read absent, which pins the count.
func (c LetterConstraint) Tighten(observed int, exact bool, correct, wrong PositionSet) LetterConstraint {
	next := c
	next.CorrectPositions = c.CorrectPositions.Union(correct)
	next.WrongPositions = c.WrongPositions.Union(wrong)
	next.MinCount = max(c.MinCount, observed, next.CorrectPositions.Len())
	if exact {
		next.MaxCount = observed
	}
	return next
}

// Valid reports whether the interval invariant holds for words of length n:
// |correct| <= min <= max <= n.
func (c LetterConstraint) Valid(n int) bool {
	return c.CorrectPositions.Len() <= c.MinCount && c.MinCount <= c.MaxCount && c.MaxCount <= n
}

// Matches checks a word, given as runes, against this letter's constraint.
func (c LetterConstraint) Matches(word []rune) bool {
	count := 0
	for i, r := range word {
		if r == c.Letter {
			if c.WrongPositions.Has(i) {
				return false
			}
			count++
		} else if c.CorrectPositions.Has(i) {
			return false
		}
	}
	return count >= c.MinCount && count <= c.MaxCount
}

func (c LetterConstraint) String() string {
	return fmt.Sprintf("%c correct=%s wrong=%s count=[%d,%d]",
		c.Letter, c.CorrectPositions, c.WrongPositions, c.MinCount, c.MaxCount)
}
