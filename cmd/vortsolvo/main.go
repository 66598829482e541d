package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vortsolvo/internal/solver"
	"vortsolvo/internal/vocab"
)

var (
	wordsFile  string
	userGuess  bool
	userCheck  bool
	showHints  bool
	games      int
	secretWord string
	wordLength int

	rootCmd = &cobra.Command{
		Use:   "vortsolvo",
		Short: "Plays or assists with word-guessing games",
		Long: `vortsolvo picks guesses that narrow down a secret word.

By default it plays against itself using random secrets from the word list.
With --guess you type the guesses; with --check you type the feedback for
each guess as one digit per letter: 0 absent, 1 misplaced, 2 correct.`,
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&wordsFile, "words", "w", "", "file containing the vocabulary of known words")
	rootCmd.Flags().BoolVar(&userGuess, "guess", false, "guesses are typed by the user")
	rootCmd.Flags().BoolVar(&userCheck, "check", false, "feedback is typed by the user")
	rootCmd.Flags().BoolVar(&showHints, "hints", false, "show possible words before every guess")
	rootCmd.Flags().IntVar(&games, "games", 1, "number of games to play, 0 for no limit")
	rootCmd.Flags().StringVar(&secretWord, "secret", "", "secret word to use instead of a random one")
	rootCmd.Flags().IntVar(&wordLength, "length", 0, "only keep words of this length (default: length of the first word)")
	_ = rootCmd.MarkFlagRequired("words")
}

func run(cmd *cobra.Command, _ []string) error {
	v, _, dropped, err := vocab.Build(wordsFile, wordLength)
	if err != nil {
		return err
	}
	if dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %d words that are not %d letters long\n", dropped, v.WordLength())
	}

	p := &player{
		solver:    solver.NewSolver(v),
		in:        bufio.NewReader(cmd.InOrStdin()),
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
		userGuess: userGuess,
		userCheck: userCheck,
		hints:     showHints,
		secret:    secretWord,
	}
	return p.run(games)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
