package solver

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the vocabulary size below which scoring stays on the
// calling goroutine.
const parallelThreshold = 2048

// Solver proposes guesses over a fixed vocabulary.
type Solver struct {
	vocab   *Vocabulary
	workers int
}

// Option configures a Solver.
type Option func(*Solver)

// WithWorkers sets how many goroutines score the vocabulary. Values below
// one mean a sequential scan.
func WithWorkers(n int) Option {
	return func(s *Solver) { s.workers = n }
}

// NewSolver returns a solver over vocab, scoring on GOMAXPROCS goroutines by
// default.
func NewSolver(vocab *Vocabulary, opts ...Option) *Solver {
	s := &Solver{vocab: vocab, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vocabulary returns the solver's vocabulary.
func (s *Solver) Vocabulary() *Vocabulary { return s.vocab }

// ProposeGuess picks the next guess given the words still possible. It
// returns false when no candidate is left and the only candidate when one
// remains. Otherwise every vocabulary word is scored against letter
// statistics of the candidates and the lowest score wins, ties going to the
// lexicographically smallest word. Candidates outside the vocabulary are
// ignored.
func (s *Solver) ProposeGuess(candidates []string) (string, bool) {
	i, ok := s.propose(s.vocab.indices(candidates))
	if !ok {
		return "", false
	}
	return s.vocab.words[i], true
}

func (s *Solver) propose(candidates []int) (int, bool) {
	switch len(candidates) {
	case 0:
		return 0, false
	case 1:
		return candidates[0], true
	}
	st := newLetterStats(s.vocab, candidates)
	best, _ := s.bestScore(&st)
	return best, true
}

type scored struct {
	index int
	score float64
}

// better orders by score, then by vocabulary position.
func (a scored) better(b scored) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.index < b.index
}

func (s *Solver) bestScore(st *letterStats) (int, float64) {
	n := s.vocab.Len()
	workers := s.workers
	if n < parallelThreshold || workers < 2 {
		r := s.scanRange(st, 0, n)
		return r.index, r.score
	}

	chunk := (n + workers - 1) / workers
	results := make([]scored, 0, workers)
	for lo := 0; lo < n; lo += chunk {
		results = append(results, scored{index: -1})
	}

	var g errgroup.Group
	for w := range results {
		lo := w * chunk
		hi := min(lo+chunk, n)
		g.Go(func() error {
			results[w] = s.scanRange(st, lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.better(best) {
			best = r
		}
	}
	return best.index, best.score
}

func (s *Solver) scanRange(st *letterStats, lo, hi int) scored {
	best := scored{index: -1, score: math.Inf(1)}
	seen := make([]int, len(s.vocab.alphabet))
	for i := lo; i < hi; i++ {
		c := scored{index: i, score: st.score(s.vocab.codes[i], seen)}
		if best.index < 0 || c.better(best) {
			best = c
		}
	}
	return best
}

// letterStats holds the candidate statistics the score is built from. All
// fractions are over the full vocabulary size so scores stay comparable from
// one round to the next.
type letterStats struct {
	// pos[l][i]: fraction with letter l at position i.
	pos [][]float64
	// below[l][k]: fraction with fewer than k occurrences of l.
	below [][]float64
	// atLeast[l][k]: fraction with k or more occurrences of l.
	atLeast [][]float64
}

func newLetterStats(v *Vocabulary, candidates []int) letterStats {
	letters := len(v.alphabet)
	length := v.length
	total := float64(v.Len())

	pos := make([][]float64, letters)
	exact := make([][]float64, letters)
	for l := range letters {
		pos[l] = make([]float64, length)
		exact[l] = make([]float64, length+1)
	}

	counts := make([]int, letters)
	for _, c := range candidates {
		for i, l := range v.codes[c] {
			pos[l][i]++
			counts[l]++
		}
		for l := range letters {
			exact[l][counts[l]]++
			counts[l] = 0
		}
	}

	st := letterStats{
		pos:     pos,
		below:   make([][]float64, letters),
		atLeast: make([][]float64, letters),
	}
	for l := range letters {
		for i := range pos[l] {
			pos[l][i] /= total
		}
		for k := range exact[l] {
			exact[l][k] /= total
		}
		st.below[l] = make([]float64, length+1)
		st.atLeast[l] = make([]float64, length+1)
		for k := 0; k <= length; k++ {
			for j := 0; j < k; j++ {
				st.below[l][k] += exact[l][j]
			}
			for j := k; j <= length; j++ {
				st.atLeast[l][k] += exact[l][j]
			}
		}
	}
	return st
}

// score multiplies, over the word's letters, the likeliest of the three
// outcomes for that occurrence: correct here, present elsewhere, or absent
// because the secret holds fewer copies. seen is scratch space sized to the
// alphabet and is zero again on return.
func (st *letterStats) score(code []int, seen []int) float64 {
	score := 1.0
	for i, l := range code {
		seen[l]++
		k := seen[l]
		pCorrect := st.pos[l][i]
		pTooFew := st.below[l][k]
		pElsewhere := max(st.atLeast[l][k]-pCorrect, 0)
		score *= max(pCorrect, pElsewhere, pTooFew)
	}
	for _, l := range code {
		seen[l] = 0
	}
	return score
}
