package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vortsolvo/internal/solver"
)

var (
	correctStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	presentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	absentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	giveUpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func statusStyle(s solver.MatchStatus) lipgloss.Style {
	switch s {
	case solver.CorrectPosition:
		return correctStyle
	case solver.WrongPosition:
		return presentStyle
	default:
		return absentStyle
	}
}

// renderResult colors each letter of display by its feedback. display falls
// back to the normalized word when the two differ in length.
func renderResult(gr solver.GuessResult, display string) string {
	letters := []rune(display)
	if len(letters) != len(gr.Result) {
		letters = []rune(gr.Word)
	}
	var b strings.Builder
	for i, r := range letters {
		b.WriteString(statusStyle(gr.Result[i]).Render(string(r)))
	}
	return b.String()
}
