package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SessionStore keeps session records as JSON files, one per session.
type SessionStore struct {
	Dir     string
	Timeout time.Duration
}

func validSessionID(sessionID string) bool {
	return len(sessionID) >= 10 && filepath.Base(sessionID) == sessionID
}

// Save persists a session record to disk.
func (s *SessionStore) Save(sessionID string, record *SessionRecord) error {
	if !validSessionID(sessionID) {
		logWarn("Skipping save for invalid session ID: %s", sessionID)
		return nil
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		logWarn("Failed to create sessions directory: %v", err)
		return err
	}

	sessionFile := filepath.Join(s.Dir, sessionID+".json")
	record.LastAccessTime = time.Now()
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		logWarn("Failed to marshal session record %s: %v", sessionID, err)
		return err
	}

	if err := os.WriteFile(sessionFile, data, 0644); err != nil {
		logWarn("Failed to write session file %s: %v", sessionFile, err)
		return err
	}
	logInfo("Saved session file: %s", sessionFile)
	return nil
}

// Load reads a session record from disk. Expired or corrupted files are
// removed and reported as os.ErrNotExist.
func (s *SessionStore) Load(sessionID string) (*SessionRecord, error) {
	if !validSessionID(sessionID) {
		logWarn("Invalid session ID for loading: %s", sessionID)
		return nil, os.ErrNotExist
	}

	sessionFile := filepath.Join(s.Dir, sessionID+".json")
	info, err := os.Stat(sessionFile)
	if err != nil {
		return nil, err
	}

	fileAge := time.Since(info.ModTime())
	if fileAge > s.Timeout {
		logInfo("Session file is too old (%v, max: %v), removing: %s", fileAge, s.Timeout, sessionFile)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(sessionFile)
	if err != nil {
		logWarn("Failed to read session file %s: %v", sessionFile, err)
		return nil, err
	}

	var record SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		logWarn("Failed to unmarshal session file %s (corrupted), removing: %v", sessionFile, err)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	if record.Mode != ModeSimulation && record.Mode != ModeInteractive {
		logWarn("Session file %s has invalid mode %q, removing", sessionFile, record.Mode)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	record.LastAccessTime = time.Now()
	logInfo("Loaded session from file: %s (mode: %s, guesses: %d)", sessionFile, record.Mode, len(record.Guesses))
	return &record, nil
}

// Delete removes a session file if present.
func (s *SessionStore) Delete(sessionID string) {
	if !validSessionID(sessionID) {
		return
	}
	if err := os.Remove(filepath.Join(s.Dir, sessionID+".json")); err != nil && !os.IsNotExist(err) {
		logWarn("Failed to remove session file for %s: %v", sessionID, err)
	}
}

// Cleanup removes session files older than maxAge.
func (s *SessionStore) Cleanup(maxAge time.Duration) error {
	if !dirExists(s.Dir) {
		return nil
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		logWarn("Failed to read sessions directory: %v", err)
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	removedCount := 0
	errorCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logWarn("Failed to get info for session file %s: %v", entry.Name(), err)
			errorCount++
			continue
		}

		if info.ModTime().Before(cutoff) {
			sessionFile := filepath.Join(s.Dir, entry.Name())
			if err := os.Remove(sessionFile); err != nil {
				logWarn("Failed to remove old session file %s: %v", sessionFile, err)
				errorCount++
			} else {
				removedCount++
			}
		}
	}

	logInfo("Session cleanup completed: removed %d files, %d errors", removedCount, errorCount)
	return nil
}
