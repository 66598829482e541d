package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"vortsolvo/internal/solver"
)

const maxHints = 10

// player runs games on a terminal. Either side of a round, picking the guess
// or scoring it, is done by the solver unless the user takes it over.
type player struct {
	solver *solver.Solver
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	userGuess bool
	userCheck bool
	hints     bool
	secret    string
}

func (p *player) vocab() *solver.Vocabulary { return p.solver.Vocabulary() }

// run plays games until n have been played (forever when n is 0) or the input
// ends.
func (p *player) run(n int) error {
	if p.userCheck {
		fmt.Fprintln(p.out, "For each letter, enter `0` if it doesn't exist in the word, `1` if it is in the wrong position and `2` if it is correct")
		fmt.Fprintln(p.out)
	}
	for num := 1; n == 0 || num <= n; num++ {
		err := p.play(num)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out)
	}
	return nil
}

func (p *player) pickSecret() string {
	if p.userCheck {
		return ""
	}
	if p.secret != "" {
		return p.secret
	}
	return p.vocab().Word(rand.IntN(p.vocab().Len()))
}

// play runs one game to completion.
func (p *player) play(num int) error {
	game, err := solver.NewGame(p.solver, p.pickSecret())
	if err != nil {
		return err
	}
	label := "<?>"
	if secret, ok := game.Secret(); ok {
		label = p.vocab().Display(secret)
	}
	fmt.Fprintf(p.out, "Game #%d: %s\n", num, label)

	for round := 1; ; round++ {
		if p.hints {
			p.printHint(game)
		}

		guess, ok, err := p.nextGuess(game)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(p.out, giveUpStyle.Render("Giving up on this word!"))
			return nil
		}

		gr, err := p.score(game, guess)
		if err != nil {
			return err
		}
		if err := game.Merge(gr); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "#%d: %s\n", round, renderResult(gr, p.vocab().Display(gr.Word)))

		if gr.Solved() {
			return nil
		}
	}
}

func (p *player) printHint(game *solver.Game) {
	h := game.Hint(maxHints)
	words := make([]string, len(h.Words))
	for i, w := range h.Words {
		words[i] = p.vocab().Display(w)
	}
	more := ""
	if h.Truncated {
		more = ", ..."
	}
	fmt.Fprintf(p.out, "Hint: %d possible words: %s%s\n", h.Total, strings.Join(words, ", "), more)
}

func (p *player) nextGuess(game *solver.Game) (string, bool, error) {
	if !p.userGuess {
		guess, ok := game.Propose()
		return guess, ok, nil
	}
	if game.CandidateCount() == 0 {
		return "", false, nil
	}
	for {
		text, err := p.prompt("Next guess: ")
		if err != nil {
			return "", false, err
		}
		if word, ok := p.vocab().Lookup(text); ok {
			return word, true, nil
		}
		fmt.Fprintln(p.errOut, "Invalid word")
	}
}

func (p *player) score(game *solver.Game, guess string) (solver.GuessResult, error) {
	if !p.userCheck {
		return game.Check(guess)
	}
	for {
		text, err := p.prompt(fmt.Sprintf("Result for '%s': ", p.vocab().Display(guess)))
		if err != nil {
			return solver.GuessResult{}, err
		}
		result, err := solver.ParseFeedback(text)
		if err == nil && len(result) == game.WordLength() {
			return solver.GuessResult{Word: guess, Result: result}, nil
		}
		fmt.Fprintln(p.errOut, "Invalid result")
	}
}

// prompt prints msg and reads one line. A final line without a newline is
// still returned; io.EOF is only reported once nothing is left.
func (p *player) prompt(msg string) (string, error) {
	fmt.Fprint(p.out, msg)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
