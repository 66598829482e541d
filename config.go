package main

import (
	"os"
	"runtime"
	"time"
)

// Config is read once from the environment at startup.
type Config struct {
	Port            string
	IsProduction    bool
	WordsFile       string
	WordLength      int
	SessionTimeout  time.Duration
	CookieMaxAge    time.Duration
	CleanupInterval time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	SessionDir      string
	SolverWorkers   int
	HintLimit       int
}

func loadConfig() Config {
	return Config{
		Port:            getEnvString("PORT", "8080"),
		IsProduction:    os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		WordsFile:       getEnvString("WORDS_FILE", "data/words.txt"),
		WordLength:      getEnvInt("WORD_LENGTH", DefaultWordLength),
		SessionTimeout:  getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:    getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", 10*time.Minute),
		RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		SessionDir:      getEnvString("SESSION_DIR", "data/sessions"),
		SolverWorkers:   getEnvInt("SOLVER_WORKERS", runtime.GOMAXPROCS(0)),
		HintLimit:       getEnvInt("HINT_LIMIT", DefaultHintLimit),
	}
}

func (c Config) envName() string {
	return map[bool]string{true: "production", false: "development"}[c.IsProduction]
}
