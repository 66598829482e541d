package main

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vortsolvo/internal/solver"
	"vortsolvo/internal/types"
)

var testWords = []string{"CRANE", "TRACE", "GRACE", "BRACE", "SLATE"}

func testConfig(dir string) Config {
	return Config{
		Port:            "0",
		WordLength:      5,
		SessionTimeout:  time.Hour,
		CookieMaxAge:    time.Hour,
		CleanupInterval: 0,
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		SessionDir:      dir,
		SolverWorkers:   1,
		HintLimit:       DefaultHintLimit,
	}
}

// newTestApp builds an app over testWords that stores sessions in dir.
func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	v, err := solver.NewVocabulary(testWords)
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	return newApp(testConfig(dir), v, map[string]string{"TRACE": "follow the lines"})
}

func doRequest(router http.Handler, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, _ := http.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.Value != "" {
			found = c
		}
	}
	if found == nil {
		t.Fatalf("response did not set %s cookie", SessionCookieName)
	}
	return found
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) GameView {
	t.Helper()
	var view GameView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode game view: %v (body %s)", err, w.Body.String())
	}
	return view
}

// startGame posts /new-game and returns the session cookie.
func startGame(t *testing.T, router http.Handler, form url.Values) *http.Cookie {
	t.Helper()
	w := doRequest(router, "POST", RouteNewGame, form, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game returned %d: %s", w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

func TestHomeHandler(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	w := doRequest(router, "GET", RouteHome, nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET / returned status %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), RouteSuggestion) {
		t.Errorf("GET / body does not list routes: %s", w.Body.String())
	}
}

func TestNewGameWithSecret(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	w := doRequest(router, "POST", RouteNewGame, url.Values{"secret": {"trace"}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game returned %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.Mode != ModeSimulation || view.Status != "playing" {
		t.Errorf("got mode %q status %q, want simulation/playing", view.Mode, view.Status)
	}
	if view.CandidateCount != len(testWords) {
		t.Errorf("CandidateCount = %d, want %d", view.CandidateCount, len(testWords))
	}
	if view.TargetWord != "" {
		t.Errorf("secret revealed before the game ended: %q", view.TargetWord)
	}
	if view.Clue != "follow the lines" {
		t.Errorf("Clue = %q, want the word list hint", view.Clue)
	}
}

func TestNewGameRejectsUnknownSecretAndMode(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	if w := doRequest(router, "POST", RouteNewGame, url.Values{"secret": {"ZZZZZ"}}, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown secret returned %d, want 422", w.Code)
	}
	if w := doRequest(router, "POST", RouteNewGame, url.Values{"secret": {"TOOLONG"}}, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("long secret returned %d, want 422", w.Code)
	}
	if w := doRequest(router, "POST", RouteNewGame, url.Values{"mode": {"blitz"}}, nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown mode returned %d, want 400", w.Code)
	}
}

func TestNewGameResetRotatesCookie(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})

	w := doRequest(router, "POST", RouteNewGame+"?reset=1", url.Values{"secret": {"GRACE"}}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game?reset=1 returned %d", w.Code)
	}
	if next := sessionCookie(t, w); next.Value == cookie.Value {
		t.Errorf("reset kept session ID %s", cookie.Value)
	}
}

func TestGuessHandlerScoresAndFilters(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})

	w := doRequest(router, "POST", RouteGuess, url.Values{"guess": {"crane"}}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /guess returned %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if len(view.Guesses) != 1 || view.Guesses[0].Code != "12202" {
		t.Fatalf("got guesses %+v, want one with code 12202", view.Guesses)
	}
	if got := view.Guesses[0].Result; got[0] != "present" || got[3] != "absent" {
		t.Errorf("Result = %v, want present first and absent fourth", got)
	}
	if view.CandidateCount != 3 {
		t.Errorf("CandidateCount = %d, want 3 (TRACE, GRACE, BRACE)", view.CandidateCount)
	}

	var nLetter *types.LetterView
	for i := range view.Letters {
		if view.Letters[i].Letter == "N" {
			nLetter = &view.Letters[i]
		}
	}
	if nLetter == nil || nLetter.Status != "absent" || nLetter.MaxCount != 0 {
		t.Errorf("N letter view = %+v, want absent with max 0", nLetter)
	}
}

func TestGuessHandlerRejectsInvalidGuesses(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})

	cases := []struct {
		guess string
		want  int
	}{
		{"ZZZZZ", http.StatusUnprocessableEntity},
		{"CRANES", http.StatusUnprocessableEntity},
		{"CRA", http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		w := doRequest(router, "POST", RouteGuess, url.Values{"guess": {c.guess}}, cookie)
		if w.Code != c.want {
			t.Errorf("guess %q returned %d, want %d", c.guess, w.Code, c.want)
		}
	}

	w := doRequest(router, "GET", RouteGameState, nil, cookie)
	if view := decodeView(t, w); len(view.Guesses) != 0 || view.CandidateCount != len(testWords) {
		t.Errorf("rejected guesses changed the game: %+v", view)
	}
}

func TestGuessHandler_InvalidMethod(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	w := doRequest(router, "GET", RouteGuess, nil, nil)
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("GET /guess returned status %d, want 405 or 404", w.Code)
	}
}

func TestAutomaticGuessesSolveGame(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"BRACE"}})

	var view GameView
	for range len(testWords) {
		w := doRequest(router, "POST", RouteGuess, url.Values{"guess": {""}}, cookie)
		if w.Code != http.StatusOK {
			t.Fatalf("automatic guess returned %d: %s", w.Code, w.Body.String())
		}
		view = decodeView(t, w)
		if view.Status != "playing" {
			break
		}
	}
	if view.Status != "solved" {
		t.Fatalf("game not solved after %d automatic guesses: %+v", len(testWords), view)
	}
	if view.TargetWord != "BRACE" {
		t.Errorf("TargetWord = %q, want BRACE once solved", view.TargetWord)
	}

	if w := doRequest(router, "POST", RouteGuess, url.Values{"guess": {"TRACE"}}, cookie); w.Code != http.StatusConflict {
		t.Errorf("guess after solving returned %d, want 409", w.Code)
	}
}

func TestFeedbackHandlerInteractive(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"mode": {ModeInteractive}})

	if w := doRequest(router, "POST", RouteGuess, url.Values{"guess": {"CRANE"}}, cookie); w.Code != http.StatusConflict {
		t.Errorf("POST /guess in interactive mode returned %d, want 409", w.Code)
	}

	bad := []url.Values{
		{"guess": {"CRANE"}, "result": {"12"}},
		{"guess": {"CRANE"}, "result": {"12203"}},
		{"guess": {"ZZZZZ"}, "result": {"00000"}},
	}
	for _, form := range bad {
		if w := doRequest(router, "POST", RouteFeedback, form, cookie); w.Code != http.StatusUnprocessableEntity {
			t.Errorf("feedback %v returned %d, want 422", form, w.Code)
		}
	}
	if w := doRequest(router, "POST", RouteFeedback, url.Values{"guess": {"CRANE"}}, cookie); w.Code != http.StatusBadRequest {
		t.Errorf("feedback without result returned %d, want 400", w.Code)
	}

	w := doRequest(router, "POST", RouteFeedback, url.Values{"guess": {"CRANE"}, "result": {"12202"}}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /feedback returned %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.CandidateCount != 3 || view.TargetWord != "" {
		t.Errorf("got %+v, want 3 candidates and no secret", view)
	}
}

func TestFeedbackHandlerWrongMode(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})
	w := doRequest(router, "POST", RouteFeedback, url.Values{"guess": {"CRANE"}, "result": {"12202"}}, cookie)
	if w.Code != http.StatusConflict {
		t.Errorf("POST /feedback in simulation mode returned %d, want 409", w.Code)
	}
}

func TestContradictoryFeedbackExhausts(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"mode": {ModeInteractive}})

	w := doRequest(router, "POST", RouteFeedback, url.Values{"guess": {"CRANE"}, "result": {"00000"}}, cookie)
	if view := decodeView(t, w); view.Status != "exhausted" || view.CandidateCount != 0 {
		t.Fatalf("got %+v, want exhausted with no candidates", view)
	}

	w = doRequest(router, "GET", RouteSuggestion, nil, cookie)
	var s types.SuggestionView
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode suggestion: %v", err)
	}
	if !s.Exhausted || s.Guess != "" {
		t.Errorf("suggestion = %+v, want exhausted", s)
	}
}

func TestSuggestionAndHint(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})

	w := doRequest(router, "GET", RouteSuggestion, nil, cookie)
	var s types.SuggestionView
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode suggestion: %v", err)
	}
	if s.Exhausted || s.Guess == "" || s.CandidateCount != len(testWords) {
		t.Errorf("suggestion = %+v", s)
	}

	w = doRequest(router, "GET", RouteHint+"?limit=2", nil, cookie)
	var h types.HintView
	if err := json.Unmarshal(w.Body.Bytes(), &h); err != nil {
		t.Fatalf("decode hint: %v", err)
	}
	if h.Total != len(testWords) || len(h.Words) != 2 || !h.Truncated {
		t.Errorf("hint = %+v, want 2 of %d words, truncated", h, len(testWords))
	}
	if h.Words[0] != "BRACE" || h.Words[1] != "CRANE" {
		t.Errorf("hint words = %v, want sorted [BRACE CRANE]", h.Words)
	}

	w = doRequest(router, "GET", RouteHint+"?limit=bogus", nil, cookie)
	if err := json.Unmarshal(w.Body.Bytes(), &h); err != nil {
		t.Fatalf("decode hint: %v", err)
	}
	if len(h.Words) != len(testWords) || h.Truncated {
		t.Errorf("hint with bad limit = %+v, want the default limit", h)
	}
}

func TestRetryWordHandler(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})
	doRequest(router, "POST", RouteGuess, url.Values{"guess": {"TRACE"}}, cookie)

	w := doRequest(router, "POST", RouteRetryWord, nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /retry-word returned %d", w.Code)
	}
	view := decodeView(t, w)
	if view.Status != "playing" || len(view.Guesses) != 0 || view.CandidateCount != len(testWords) {
		t.Errorf("retry did not reset the game: %+v", view)
	}

	w = doRequest(router, "POST", RouteGuess, url.Values{"guess": {"TRACE"}}, cookie)
	if view := decodeView(t, w); view.Status != "solved" {
		t.Errorf("retry changed the secret: %+v", view)
	}
}

func TestGameStateCreatesSession(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	w := doRequest(router, "GET", RouteGameState, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /game-state returned status %d", w.Code)
	}
	sessionCookie(t, w)
	if view := decodeView(t, w); view.Mode != ModeSimulation || view.Status != "playing" {
		t.Errorf("got %+v, want a fresh simulation game", view)
	}
}

func TestSessionRestoredFromDisk(t *testing.T) {
	dir := t.TempDir()
	router := newTestApp(t, dir).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})
	doRequest(router, "POST", RouteGuess, url.Values{"guess": {"CRANE"}}, cookie)

	restarted := newTestApp(t, dir).setupRouter()
	w := doRequest(restarted, "GET", RouteGameState, nil, cookie)
	view := decodeView(t, w)
	if len(view.Guesses) != 1 || view.Guesses[0].Word != "CRANE" || view.CandidateCount != 3 {
		t.Errorf("restored game = %+v, want the CRANE guess replayed", view)
	}
}

func TestHealthzHandler(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	w := doRequest(router, "GET", RouteHealthz, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz returned %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if body["status"] != "ok" || body["words_loaded"] != float64(len(testWords)) || body["word_length"] != float64(5) {
		t.Errorf("healthz = %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	cookie := startGame(t, router, url.Values{"secret": {"TRACE"}})
	doRequest(router, "POST", RouteGuess, url.Values{"guess": {"TRACE"}}, cookie)

	w := doRequest(router, "GET", RouteMetrics, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics returned %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`vortsolvo_sessions_created_total{mode="simulation"} 1`,
		`vortsolvo_guesses_merged_total{mode="simulation"} 1`,
		`vortsolvo_games_finished_total{status="solved"} 1`,
		"vortsolvo_live_sessions 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestResponsesAreNotCached(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	w := doRequest(router, "GET", RouteHealthz, nil, nil)
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header not set")
	}
}

func TestGzipCompression(t *testing.T) {
	router := newTestApp(t, t.TempDir()).setupRouter()
	req, _ := http.NewRequest("GET", RouteHealthz, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", w.Header().Get("Content-Encoding"))
	}
	gr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer gr.Close()
	data, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if !strings.Contains(string(data), `"status":"ok"`) {
		t.Errorf("decompressed body = %s", data)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := newTestApp(t, t.TempDir())
	app.RateLimitRPS = 1
	app.RateLimitBurst = 2

	router := gin.New()
	router.Use(app.rateLimitMiddleware())
	router.GET("/limited", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	var limited bool
	for range 5 {
		w := doRequest(router, "GET", "/limited", nil, nil)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			if !strings.Contains(w.Body.String(), ErrorRateLimited) {
				t.Errorf("429 body = %s", w.Body.String())
			}
		}
	}
	if !limited {
		t.Error("rate limiter never returned 429")
	}
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{solver.ErrLengthMismatch, http.StatusUnprocessableEntity},
		{solver.ErrUnknownWord, http.StatusUnprocessableEntity},
		{solver.ErrInvalidFeedback, http.StatusUnprocessableEntity},
		{solver.ErrNoSecret, http.StatusConflict},
		{errGameOver, http.StatusConflict},
		{&modeError{mode: ModeInteractive}, http.StatusConflict},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := errorStatus(c.err); got != c.want {
			t.Errorf("errorStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
