package solver

import (
	"fmt"
	"maps"
	"slices"
)

// Vocabulary is an ordered, de-duplicated set of normalized words that all
// share one length. Order is lexicographic and is what breaks scoring ties.
type Vocabulary struct {
	words    []string
	runes    [][]rune
	codes    [][]int
	index    map[string]int
	display  map[string]string
	alphabet []rune
	letterID map[rune]int
	length   int
}

// NewVocabulary normalizes and sorts words. The first spelling seen for a
// normalized form is kept for display.
func NewVocabulary(words []string) (*Vocabulary, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no words", ErrInvalidVocabulary)
	}

	display := make(map[string]string, len(words))
	length := -1
	for _, w := range words {
		n := Normalize(w)
		l := len([]rune(n))
		if l == 0 {
			return nil, fmt.Errorf("%w: empty word", ErrInvalidVocabulary)
		}
		if length < 0 {
			length = l
		}
		if l != length {
			return nil, fmt.Errorf("%w: %q has %d letters, expected %d", ErrInvalidVocabulary, w, l, length)
		}
		if _, ok := display[n]; !ok {
			display[n] = w
		}
	}
	if length > MaxWordLength {
		return nil, fmt.Errorf("%w: words longer than %d letters are not supported", ErrInvalidVocabulary, MaxWordLength)
	}

	v := &Vocabulary{
		words:   slices.Sorted(maps.Keys(display)),
		display: display,
		length:  length,
	}

	letters := make(map[rune]struct{})
	v.runes = make([][]rune, len(v.words))
	v.index = make(map[string]int, len(v.words))
	for i, w := range v.words {
		v.index[w] = i
		v.runes[i] = []rune(w)
		for _, r := range v.runes[i] {
			letters[r] = struct{}{}
		}
	}

	v.alphabet = slices.Sorted(maps.Keys(letters))
	v.letterID = make(map[rune]int, len(v.alphabet))
	for i, r := range v.alphabet {
		v.letterID[r] = i
	}
	v.codes = make([][]int, len(v.words))
	for i, rs := range v.runes {
		code := make([]int, len(rs))
		for j, r := range rs {
			code[j] = v.letterID[r]
		}
		v.codes[i] = code
	}
	return v, nil
}

// Len returns the number of words.
func (v *Vocabulary) Len() int { return len(v.words) }

// WordLength returns the shared word length.
func (v *Vocabulary) WordLength() int { return v.length }

// Words returns a copy of the sorted words.
func (v *Vocabulary) Words() []string { return slices.Clone(v.words) }

// Alphabet returns the sorted letters used by the vocabulary.
func (v *Vocabulary) Alphabet() []rune { return slices.Clone(v.alphabet) }

// Contains reports whether the normalized word is in the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.index[word]
	return ok
}

// Lookup normalizes text and returns the matching vocabulary word.
func (v *Vocabulary) Lookup(text string) (string, bool) {
	n := Normalize(text)
	if _, ok := v.index[n]; !ok {
		return "", false
	}
	return n, true
}

// Display returns the spelling a word was loaded with, accents included.
func (v *Vocabulary) Display(word string) string {
	if d, ok := v.display[word]; ok {
		return d
	}
	return word
}

// Word returns the i-th word in vocabulary order.
func (v *Vocabulary) Word(i int) string { return v.words[i] }

func (v *Vocabulary) indexOf(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// indices maps words to vocabulary positions in increasing order, dropping
// unknown words and duplicates.
func (v *Vocabulary) indices(words []string) []int {
	out := make([]int, 0, len(words))
	for _, w := range words {
		if i, ok := v.index[w]; ok {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (v *Vocabulary) wordsAt(idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = v.words[j]
	}
	return out
}
