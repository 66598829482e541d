package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = app.setSessionCookie(c)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// setSessionCookie issues a fresh session ID cookie and returns the ID.
func (app *App) setSessionCookie(c *gin.Context) string {
	sessionID := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
	return sessionID
}

// getSession returns the session for sessionID, looking in memory first, then
// on disk, and starting a random simulation game when neither has it.
func (app *App) getSession(ctx context.Context, sessionID string) *Session {
	app.SessionMutex.RLock()
	sess, exists := app.GameSessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		app.SessionMutex.Lock()
		sess.LastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		return sess
	}

	if record, err := app.Store.Load(sessionID); err == nil {
		restored, err := app.replaySession(record)
		if err == nil {
			logInfo(withRequestID(ctx, "Restored session %s from disk"), sessionID)
			return app.storeSession(sessionID, restored)
		}
		logWarn(withRequestID(ctx, "Discarding unreplayable session %s: %v"), sessionID, err)
		app.Store.Delete(sessionID)
	} else if !errors.Is(err, os.ErrNotExist) {
		logWarn(withRequestID(ctx, "Failed to load session %s: %v"), sessionID, err)
	}

	logInfo(withRequestID(ctx, "Creating new game for session: %s"), sessionID)
	fresh, err := app.newGameSession(ctx, ModeSimulation, "")
	if err != nil {
		// The random secret always comes from the vocabulary.
		logFatal("Failed to start a game with a random secret: %v", err)
	}
	stored := app.storeSession(sessionID, fresh)
	if stored == fresh {
		app.Metrics.sessionsCreated.WithLabelValues(fresh.Mode).Inc()
		fresh.mu.Lock()
		app.saveSession(sessionID, fresh)
		fresh.mu.Unlock()
	}
	return stored
}

// storeSession puts sess in memory under sessionID unless another request
// stored one first, in which case that one is returned.
func (app *App) storeSession(sessionID string, sess *Session) *Session {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if existing, ok := app.GameSessions[sessionID]; ok {
		existing.LastAccessTime = time.Now()
		return existing
	}
	sess.LastAccessTime = time.Now()
	app.GameSessions[sessionID] = sess
	return sess
}

// replaceSession stores sess, replacing any previous session.
func (app *App) replaceSession(sessionID string, sess *Session) {
	app.SessionMutex.Lock()
	sess.LastAccessTime = time.Now()
	app.GameSessions[sessionID] = sess
	app.SessionMutex.Unlock()
	logInfo("Updated in-memory game state for session: %s", sessionID)
}

// saveSession writes the session to disk. The caller holds sess.mu.
func (app *App) saveSession(sessionID string, sess *Session) {
	if err := app.Store.Save(sessionID, sess.record()); err != nil {
		logWarn("Failed to persist session %s: %v", sessionID, err)
	}
}

// dropSession forgets a session both in memory and on disk.
func (app *App) dropSession(sessionID string) {
	app.SessionMutex.Lock()
	delete(app.GameSessions, sessionID)
	app.SessionMutex.Unlock()
	app.Store.Delete(sessionID)
	logInfo("Cleared old session data for: %s", sessionID)
}

// liveSessions counts sessions held in memory.
func (app *App) liveSessions() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.GameSessions)
}

// expireSessions evicts in-memory sessions idle for longer than the session
// timeout and removes stale session files.
func (app *App) expireSessions() {
	cutoff := time.Now().Add(-app.SessionTimeout)
	expired := 0

	app.SessionMutex.Lock()
	for id, sess := range app.GameSessions {
		if sess.LastAccessTime.Before(cutoff) {
			delete(app.GameSessions, id)
			expired++
		}
	}
	app.SessionMutex.Unlock()

	if expired > 0 {
		logInfo("Expired %d idle session%s", expired, plural(expired))
	}
	if err := app.Store.Cleanup(app.SessionTimeout); err != nil {
		logWarn("Session file cleanup failed: %v", err)
	}
}

// startSessionCleanup runs expireSessions every CleanupInterval until ctx is done.
func (app *App) startSessionCleanup(ctx context.Context) {
	if app.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(app.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.expireSessions()
			}
		}
	}()
}
