package types

import "time"

type WordEntry struct {
	Word string `json:"word"`
	Hint string `json:"hint,omitempty"`
}

type WordList struct {
	Words []WordEntry `json:"words"`
}

// GuessRecord is one merged guess; Result holds one 0/1/2 digit per letter.
type GuessRecord struct {
	Word   string `json:"word"`
	Result string `json:"result"`
}

// SessionRecord is what gets written to disk for a session. The solver
// state is rebuilt by replaying Guesses.
type SessionRecord struct {
	Mode           string        `json:"mode"`
	Secret         string        `json:"secret,omitempty"`
	Guesses        []GuessRecord `json:"guesses"`
	LastAccessTime time.Time     `json:"lastAccessTime"`
}

type LetterView struct {
	Letter           string `json:"letter"`
	Status           string `json:"status"`
	CorrectPositions []int  `json:"correctPositions,omitempty"`
	WrongPositions   []int  `json:"wrongPositions,omitempty"`
	MinCount         int    `json:"minCount"`
	MaxCount         int    `json:"maxCount"`
}

type GuessView struct {
	Word    string   `json:"word"`
	Display string   `json:"display"`
	Letters []string `json:"letters"`
	Result  []string `json:"result"`
	Code    string   `json:"code"`
}

type GameView struct {
	Mode           string       `json:"mode"`
	Status         string       `json:"status"`
	WordLength     int          `json:"wordLength"`
	CandidateCount int          `json:"candidateCount"`
	Guesses        []GuessView  `json:"guesses"`
	Letters        []LetterView `json:"letters,omitempty"`
	TargetWord     string       `json:"targetWord,omitempty"`
	Clue           string       `json:"clue,omitempty"`
}

type HintView struct {
	Total     int      `json:"total"`
	Words     []string `json:"words"`
	Truncated bool     `json:"truncated"`
}

type SuggestionView struct {
	Guess          string `json:"guess,omitempty"`
	Display        string `json:"display,omitempty"`
	Exhausted      bool   `json:"exhausted"`
	CandidateCount int    `json:"candidateCount"`
}
