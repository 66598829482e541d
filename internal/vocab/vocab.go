// Package vocab loads word lists for the solver.
package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"vortsolvo/internal/solver"
	"vortsolvo/internal/types"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

// Load reads a word list. JSON files may hold a {"words":[{"word","hint"}]}
// document or a plain array of strings; anything else is read as free text
// where every run of word characters is one word.
func Load(path string) ([]types.WordEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		entries, err := ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return entries, nil
	}
	return ParseText(string(data)), nil
}

// ParseJSON decodes either supported JSON layout.
func ParseJSON(data []byte) ([]types.WordEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var words []string
		if err := json.Unmarshal(trimmed, &words); err != nil {
			return nil, err
		}
		return lo.Map(words, func(w string, _ int) types.WordEntry {
			return types.WordEntry{Word: strings.TrimSpace(w)}
		}), nil
	}
	var wl types.WordList
	if err := json.Unmarshal(trimmed, &wl); err != nil {
		return nil, err
	}
	return lo.Filter(wl.Words, func(e types.WordEntry, _ int) bool {
		return strings.TrimSpace(e.Word) != ""
	}), nil
}

// ParseText uppercases text and returns every word in it, in order.
func ParseText(text string) []types.WordEntry {
	return lo.Map(wordPattern.FindAllString(strings.ToUpper(text), -1), func(w string, _ int) types.WordEntry {
		return types.WordEntry{Word: w}
	})
}

// FilterLength keeps entries whose normalized form has n letters and reports
// how many were dropped.
func FilterLength(entries []types.WordEntry, n int) ([]types.WordEntry, int) {
	kept := lo.Filter(entries, func(e types.WordEntry, _ int) bool {
		return utf8.RuneCountInString(solver.Normalize(e.Word)) == n
	})
	return kept, len(entries) - len(kept)
}

// Words extracts the words of entries.
func Words(entries []types.WordEntry) []string {
	return lo.Map(entries, func(e types.WordEntry, _ int) string { return e.Word })
}

// Hints maps normalized words to their hint, skipping entries without one.
func Hints(entries []types.WordEntry) map[string]string {
	withHint := lo.Filter(entries, func(e types.WordEntry, _ int) bool { return e.Hint != "" })
	return lo.Associate(withHint, func(e types.WordEntry) (string, string) {
		return solver.Normalize(e.Word), e.Hint
	})
}

// Build loads path, keeps words of the given length (0 means the length of
// the first word) and returns the vocabulary together with the hints.
func Build(path string, length int) (*solver.Vocabulary, map[string]string, int, error) {
	entries, err := Load(path)
	if err != nil {
		return nil, nil, 0, err
	}
	if length <= 0 && len(entries) > 0 {
		length = utf8.RuneCountInString(solver.Normalize(entries[0].Word))
	}
	kept, dropped := FilterLength(entries, length)
	v, err := solver.NewVocabulary(Words(kept))
	if err != nil {
		return nil, nil, dropped, fmt.Errorf("%s: %w", path, err)
	}
	return v, Hints(kept), dropped, nil
}
