package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"vortsolvo/internal/solver"
	"vortsolvo/internal/vocab"
)

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	logInfo("Starting vortsolvo in %s mode", cfg.envName())

	v, hints, dropped, err := vocab.Build(cfg.WordsFile, cfg.WordLength)
	if err != nil {
		logFatal("Failed to load words: %v", err)
	}
	if dropped > 0 {
		logWarn("Skipped %d word%s that are not %d letters long", dropped, plural(dropped), v.WordLength())
	}
	logInfo("Loaded %d words from %s (%d with clues)", v.Len(), cfg.WordsFile, len(hints))

	app := newApp(cfg, v, hints)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.startSessionCleanup(ctx)

	app.startServer(app.setupRouter())
}

// newApp wires the solver, session store and metrics around a vocabulary.
func newApp(cfg Config, v *solver.Vocabulary, hints map[string]string) *App {
	app := &App{
		Config:       cfg,
		Vocab:        v,
		Solver:       solver.NewSolver(v, solver.WithWorkers(cfg.SolverWorkers)),
		HintMap:      hints,
		GameSessions: make(map[string]*Session),
		LimiterMap:   make(map[string]*rate.Limiter),
		Store:        &SessionStore{Dir: cfg.SessionDir, Timeout: cfg.SessionTimeout},
		StartTime:    time.Now(),
	}
	if app.HintMap == nil {
		app.HintMap = map[string]string{}
	}
	app.Metrics = newMetrics(func() float64 { return float64(app.liveSessions()) })
	return app
}

func (app *App) setupRouter() *gin.Engine {
	if app.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression, ginGzip.WithExcludedPaths([]string{RouteMetrics})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(requestIDMiddleware(), noStoreMiddleware())

	router.GET(RouteHome, app.homeHandler)
	router.POST(RouteNewGame, app.rateLimitMiddleware(), app.newGameHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.POST(RouteFeedback, app.rateLimitMiddleware(), app.feedbackHandler)
	router.GET(RouteSuggestion, app.rateLimitMiddleware(), app.suggestionHandler)
	router.GET(RouteHint, app.hintHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.POST(RouteRetryWord, app.rateLimitMiddleware(), app.retryWordHandler)
	router.GET(RouteHealthz, app.healthzHandler)
	router.GET(RouteMetrics, gin.WrapH(app.Metrics.handler()))

	return router
}

func (app *App) startServer(router *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + app.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", app.Port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
