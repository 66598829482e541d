package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vortsolvo/internal/solver"
	"vortsolvo/internal/types"
)

var errGameOver = errors.New(ErrorGameOver)

type newGameRequest struct {
	Mode   string `form:"mode" json:"mode"`
	Secret string `form:"secret" json:"secret"`
}

type guessRequest struct {
	Guess string `form:"guess" json:"guess"`
}

type feedbackRequest struct {
	Guess  string `form:"guess" json:"guess"`
	Result string `form:"result" json:"result"`
}

// errorStatus maps an error to the HTTP status returned for it.
func errorStatus(err error) int {
	var me *modeError
	switch {
	case errors.Is(err, solver.ErrLengthMismatch),
		errors.Is(err, solver.ErrUnknownWord),
		errors.Is(err, solver.ErrInvalidFeedback):
		return http.StatusUnprocessableEntity
	case errors.Is(err, solver.ErrNoSecret),
		errors.Is(err, errGameOver),
		errors.As(err, &me):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// rejectReason labels a rejected input for metrics.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, solver.ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, solver.ErrUnknownWord):
		return "unknown_word"
	case errors.Is(err, solver.ErrInvalidFeedback):
		return "invalid_feedback"
	default:
		return "other"
	}
}

// respondError writes err as a JSON body with its mapped status.
func (app *App) respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusUnprocessableEntity {
		app.Metrics.rejectedInputs.WithLabelValues(rejectReason(err)).Inc()
	}
	if status == http.StatusInternalServerError {
		logWarn(withRequestID(c.Request.Context(), "Request failed: %v"), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// homeHandler describes the service.
func (app *App) homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":       "vortsolvo",
		"wordLength": app.Vocab.WordLength(),
		"words":      app.Vocab.Len(),
		"modes":      []string{ModeSimulation, ModeInteractive},
		"routes": []string{
			RouteNewGame, RouteGuess, RouteFeedback, RouteSuggestion,
			RouteHint, RouteGameState, RouteRetryWord, RouteHealthz, RouteMetrics,
		},
	})
}

// newGameHandler starts a new game session, optionally resetting the session ID.
func (app *App) newGameHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)

	var req newGameRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = ModeSimulation
	}
	if mode != ModeSimulation && mode != ModeInteractive {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrorUnknownMode})
		return
	}

	sess, err := app.newGameSession(ctx, mode, strings.TrimSpace(req.Secret))
	if err != nil {
		app.respondError(c, err)
		return
	}

	app.dropSession(sessionID)
	if c.Query("reset") == "1" {
		sessionID = app.setSessionCookie(c)
		logInfo(withRequestID(ctx, "Created new session ID: %s"), sessionID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	app.replaceSession(sessionID, sess)
	app.saveSession(sessionID, sess)
	app.Metrics.sessionsCreated.WithLabelValues(mode).Inc()
	logInfo(withRequestID(ctx, "New %s game for session %s (%d candidates)"), mode, sessionID, sess.Game.CandidateCount())

	c.JSON(http.StatusOK, app.buildGameView(sess))
}

// guessHandler scores a guess against the session's secret and merges the
// result. An empty guess plays the solver's proposal.
func (app *App) guessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	sess := app.getSession(ctx, sessionID)

	var req guessRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Mode != ModeSimulation {
		app.respondError(c, &modeError{mode: sess.Mode})
		return
	}
	if sess.Game.Status() != solver.Playing {
		app.respondError(c, errGameOver)
		return
	}

	guess := strings.TrimSpace(req.Guess)
	if guess == "" {
		proposal, ok := app.propose(sess.Game)
		if !ok {
			app.respondError(c, errGameOver)
			return
		}
		guess = proposal
		logInfo(withRequestID(ctx, "Session %s plays suggested guess %s"), sessionID, guess)
	}

	gr, err := sess.Game.Play(guess)
	if err != nil {
		logWarn(withRequestID(ctx, "Session %s guess %q rejected: %v"), sessionID, guess, err)
		app.respondError(c, err)
		return
	}
	app.afterMerge(sessionID, sess)
	logInfo(withRequestID(ctx, "Session %s guessed %s, %d candidates left"), sessionID, gr, sess.Game.CandidateCount())

	c.JSON(http.StatusOK, app.buildGameView(sess))
}

// feedbackHandler merges a guess and the feedback the caller observed for it.
func (app *App) feedbackHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	sess := app.getSession(ctx, sessionID)

	var req feedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Guess) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrorMissingGuess})
		return
	}
	if strings.TrimSpace(req.Result) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrorMissingFeedback})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Mode != ModeInteractive {
		app.respondError(c, &modeError{mode: sess.Mode})
		return
	}
	if sess.Game.Status() != solver.Playing {
		app.respondError(c, errGameOver)
		return
	}

	result, err := solver.ParseFeedback(req.Result)
	if err != nil {
		app.respondError(c, err)
		return
	}
	if err := sess.Game.Merge(solver.GuessResult{Word: req.Guess, Result: result}); err != nil {
		logWarn(withRequestID(ctx, "Session %s feedback %s/%s rejected: %v"), sessionID, req.Guess, req.Result, err)
		app.respondError(c, err)
		return
	}
	app.afterMerge(sessionID, sess)
	logInfo(withRequestID(ctx, "Session %s reported %s=%s, %d candidates left"), sessionID, req.Guess, req.Result, sess.Game.CandidateCount())

	c.JSON(http.StatusOK, app.buildGameView(sess))
}

// afterMerge records metrics and persists the session. The caller holds sess.mu.
func (app *App) afterMerge(sessionID string, sess *Session) {
	app.Metrics.guessesMerged.WithLabelValues(sess.Mode).Inc()
	app.Metrics.candidatesLeft.Observe(float64(sess.Game.CandidateCount()))
	if status := sess.Game.Status(); status != solver.Playing {
		app.Metrics.gamesFinished.WithLabelValues(status.String()).Inc()
	}
	app.saveSession(sessionID, sess)
}

// propose asks the solver for the next guess and times it.
func (app *App) propose(g *solver.Game) (string, bool) {
	start := time.Now()
	defer func() { app.Metrics.proposeDuration.Observe(time.Since(start).Seconds()) }()
	return g.Propose()
}

// suggestionHandler returns the solver's next guess.
func (app *App) suggestionHandler(c *gin.Context) {
	sess := app.getSession(c.Request.Context(), app.getOrCreateSession(c))

	sess.mu.Lock()
	defer sess.mu.Unlock()

	view := types.SuggestionView{CandidateCount: sess.Game.CandidateCount()}
	if guess, ok := app.propose(sess.Game); ok {
		view.Guess = guess
		view.Display = app.Vocab.Display(guess)
	} else {
		view.Exhausted = true
	}
	c.JSON(http.StatusOK, view)
}

// hintHandler lists up to limit remaining candidates.
func (app *App) hintHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sess := app.getSession(ctx, app.getOrCreateSession(c))

	limit := app.HintLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			logWarn(withRequestID(ctx, "Invalid hint limit %q, using %d"), raw, limit)
		} else {
			limit = n
		}
	}
	limit = min(limit, MaxHintLimit)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	h := sess.Game.Hint(limit)
	c.JSON(http.StatusOK, types.HintView{Total: h.Total, Words: h.Words, Truncated: h.Truncated})
}

// gameStateHandler returns the current game as JSON.
func (app *App) gameStateHandler(c *gin.Context) {
	sess := app.getSession(c.Request.Context(), app.getOrCreateSession(c))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusOK, app.buildGameView(sess))
}

// retryWordHandler restarts the game for the current session but keeps the same word.
func (app *App) retryWordHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	old := app.getSession(ctx, sessionID)

	old.mu.Lock()
	sess := &Session{Mode: old.Mode, Game: old.Game.Restart()}
	old.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	app.replaceSession(sessionID, sess)
	app.saveSession(sessionID, sess)
	logInfo(withRequestID(ctx, "Session %s restarted its %s game"), sessionID, sess.Mode)

	c.JSON(http.StatusOK, app.buildGameView(sess))
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"env":           app.envName(),
		"words_loaded":  app.Vocab.Len(),
		"word_length":   app.Vocab.WordLength(),
		"live_sessions": app.liveSessions(),
		"uptime":        formatUptime(uptime),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
