package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/samber/lo"

	"vortsolvo/internal/solver"
	"vortsolvo/internal/types"
)

// modeError reports an action that the session's mode does not support.
type modeError struct {
	mode string
}

func (e *modeError) Error() string {
	return fmt.Sprintf(ErrorWrongMode, e.mode)
}

// getRandomWord returns a random word from the vocabulary.
func (app *App) getRandomWord(ctx context.Context) string {
	select {
	case <-ctx.Done():
		logWarn(withRequestID(ctx, "getRandomWord cancelled: %v"), ctx.Err())
		return app.Vocab.Word(0)
	default:
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(app.Vocab.Len())))
	if err != nil {
		logWarn(withRequestID(ctx, "Error generating random number: %v, using fallback"), err)
		return app.Vocab.Word(0)
	}

	logInfo(withRequestID(ctx, "Selected random word index: %d"), n.Int64())
	return app.Vocab.Word(int(n.Int64()))
}

// newGameSession starts a session in the given mode. Simulation games use
// secret, or a random word when it is empty; interactive games have no secret.
func (app *App) newGameSession(ctx context.Context, mode, secret string) (*Session, error) {
	switch mode {
	case ModeSimulation:
		if secret == "" {
			secret = app.getRandomWord(ctx)
		}
	case ModeInteractive:
		if secret != "" {
			logWarn(withRequestID(ctx, "Ignoring secret for %s game"), mode)
		}
		secret = ""
	default:
		return nil, fmt.Errorf("%s: %q", ErrorUnknownMode, mode)
	}

	game, err := solver.NewGame(app.Solver, secret)
	if err != nil {
		return nil, err
	}
	return &Session{Mode: mode, Game: game, LastAccessTime: time.Now()}, nil
}

// replaySession rebuilds a session from its stored record by merging every
// recorded guess again.
func (app *App) replaySession(record *SessionRecord) (*Session, error) {
	game, err := solver.NewGame(app.Solver, record.Secret)
	if err != nil {
		return nil, err
	}
	if record.Mode == ModeSimulation && record.Secret == "" {
		return nil, solver.ErrNoSecret
	}
	for i, g := range record.Guesses {
		result, err := solver.ParseFeedback(g.Result)
		if err != nil {
			return nil, fmt.Errorf("guess %d: %w", i+1, err)
		}
		if err := game.Merge(solver.GuessResult{Word: g.Word, Result: result}); err != nil {
			return nil, fmt.Errorf("guess %d: %w", i+1, err)
		}
	}
	return &Session{Mode: record.Mode, Game: game, LastAccessTime: record.LastAccessTime}, nil
}

// record converts the session into its on-disk form.
func (s *Session) record() *SessionRecord {
	secret, _ := s.Game.Secret()
	return &SessionRecord{
		Mode:   s.Mode,
		Secret: secret,
		Guesses: lo.Map(s.Game.History(), func(gr solver.GuessResult, _ int) GuessRecord {
			return GuessRecord{Word: gr.Word, Result: solver.FormatFeedback(gr.Result)}
		}),
	}
}

// buildGameView renders the session for API responses. The secret is only
// revealed once the game is over.
func (app *App) buildGameView(s *Session) GameView {
	g := s.Game
	status := g.Status()
	view := GameView{
		Mode:           s.Mode,
		Status:         status.String(),
		WordLength:     g.WordLength(),
		CandidateCount: g.CandidateCount(),
		Guesses:        lo.Map(g.History(), func(gr solver.GuessResult, _ int) types.GuessView { return app.guessView(gr) }),
		Letters:        letterViews(g.Constraints()),
	}
	if secret, ok := g.Secret(); ok {
		if status != solver.Playing {
			view.TargetWord = app.Vocab.Display(secret)
		}
		view.Clue = app.getHintForWord(secret)
	}
	return view
}

func (app *App) guessView(gr solver.GuessResult) types.GuessView {
	return types.GuessView{
		Word:    gr.Word,
		Display: app.Vocab.Display(gr.Word),
		Letters: strings.Split(gr.Word, ""),
		Result:  lo.Map(gr.Result, func(s solver.MatchStatus, _ int) string { return s.String() }),
		Code:    solver.FormatFeedback(gr.Result),
	}
}

// letterViews lists the letters some guess has told us about.
func letterViews(cs solver.ConstraintSet) []types.LetterView {
	known := lo.Filter(cs.Letters(), func(c solver.LetterConstraint, _ int) bool {
		return c.MinCount > 0 || c.MaxCount == 0
	})
	return lo.Map(known, func(c solver.LetterConstraint, _ int) types.LetterView {
		return types.LetterView{
			Letter:           string(c.Letter),
			Status:           letterStatus(c),
			CorrectPositions: c.CorrectPositions.Slice(),
			WrongPositions:   c.WrongPositions.Slice(),
			MinCount:         c.MinCount,
			MaxCount:         c.MaxCount,
		}
	})
}

func letterStatus(c solver.LetterConstraint) string {
	switch {
	case c.CorrectPositions != 0:
		return solver.StatusCorrect
	case c.MinCount > 0:
		return solver.StatusPresent
	default:
		return solver.StatusAbsent
	}
}

// getHintForWord returns the clue for a given word, or an empty string if the
// word list has none.
func (app *App) getHintForWord(word string) string {
	if word == "" {
		return ""
	}
	return app.HintMap[word]
}
