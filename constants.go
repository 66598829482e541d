package main

// Service defaults
const (
	DefaultWordLength = 5  // Length of words kept from the word list
	DefaultHintLimit  = 10 // Candidates listed by /hint when no limit is given
	MaxHintLimit      = 200
)

// Session modes
const (
	ModeSimulation  = "simulation"  // the service knows the secret and scores guesses
	ModeInteractive = "interactive" // the caller reports feedback for each guess
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome       = "/"
	RouteNewGame    = "/new-game"
	RouteRetryWord  = "/retry-word"
	RouteGuess      = "/guess"
	RouteFeedback   = "/feedback"
	RouteSuggestion = "/suggestion"
	RouteHint       = "/hint"
	RouteGameState  = "/game-state"
	RouteHealthz    = "/healthz"
	RouteMetrics    = "/metrics"
)

// Error message constants
const (
	ErrorGameOver        = "Game is over."
	ErrorWrongMode       = "This action is not available in %s mode."
	ErrorUnknownMode     = "Unknown mode."
	ErrorMissingGuess    = "A guess is required."
	ErrorMissingFeedback = "Feedback is required."
	ErrorRateLimited     = "Too many requests. Please slow down."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
