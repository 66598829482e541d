package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"vortsolvo/internal/solver"
	"vortsolvo/internal/types"
)

type contextKey string

type (
	WordEntry     = types.WordEntry
	GuessRecord   = types.GuessRecord
	SessionRecord = types.SessionRecord
	GameView      = types.GameView
)

// Session is one player's solving session.
type Session struct {
	Mode           string
	Game           *solver.Game
	LastAccessTime time.Time
	mu             sync.Mutex // Serializes work on Game
}

// App holds the loaded vocabulary, the solver and all live sessions.
type App struct {
	Config

	Vocab   *solver.Vocabulary
	Solver  *solver.Solver
	HintMap map[string]string

	GameSessions map[string]*Session
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	Store     *SessionStore
	Metrics   *Metrics
	StartTime time.Time
}
