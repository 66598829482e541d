package solver

import "errors"

var (
	// ErrInvalidVocabulary is returned when a vocabulary is empty or its words
	// do not all share the same length.
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
	// ErrLengthMismatch is returned when a guess, secret or feedback sequence
	// does not have the session's word length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrUnknownWord is returned when a guess is not part of the vocabulary.
	ErrUnknownWord = errors.New("unknown word")
	// ErrInvalidFeedback is returned for feedback codes that cannot be parsed.
	ErrInvalidFeedback = errors.New("invalid feedback")
	// ErrNoSecret is returned when a game without a known secret is asked to
	// score a guess itself.
	ErrNoSecret = errors.New("secret word unknown")
)
