package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/foodfest/session"
)

// fixedRand makes every draw predictable: 49 puts the hidden number at 50
// on the default range and fills the matrix with 5s.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func newTestMux(t *testing.T, cfg *Config, sounds *soundLibrary, gate session.Gate) http.Handler {
	t.Helper()

	arcade := session.NewRouter(session.Options{
		Gate:           gate,
		NumberMin:      cfg.numberMin,
		NumberMax:      cfg.numberMax,
		NumberAttempts: cfg.numberAttempts,
		MatrixSize:     cfg.matrixSize,
		MatrixAttempts: cfg.matrixAttempts,
		MatrixMemorize: cfg.matrixMemorize,
		QuizOptions:    cfg.quizOptions,
		Rand:           fixedRand(49),
	})

	mux, hubs := newMux(cfg, arcade, sounds, make(chan error, 16))
	t.Cleanup(hubs.Close)

	return mux
}

func get(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHomePageIssuesSessionCookie(t *testing.T) {
	cfg := testConfig()
	cfg.prefix = "/fest"
	mux := newTestMux(t, cfg, nil, nil)

	rec := get(t, mux, "/fest/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `src="/fest/assets/app.js"`)
	assert.Contains(t, body, `/fest/favicons/favicon.svg`)
	assert.NotContains(t, body, "{{")
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)

	again := get(t, mux, "/fest/", http.Header{"Cookie": {sessionCookieName + "=" + cookies[0].Value}})
	assert.Empty(t, again.Result().Cookies(), "known session keeps its cookie")
}

func TestStaticRoutes(t *testing.T) {
	cfg := testConfig()
	mux := newTestMux(t, cfg, nil, nil)

	tests := []struct {
		path        string
		code        int
		contentType string
		contains    string
	}{
		{"/healthz", http.StatusOK, "text/plain; charset=utf-8", "Ok"},
		{"/version", http.StatusOK, "text/plain; charset=utf-8", "foodfest v" + releaseVersion},
		{"/robots.txt", http.StatusOK, "text/plain; charset=utf-8", "GPTBot"},
		{"/assets/app.js", http.StatusOK, "text/javascript; charset=utf-8", "WebSocket"},
		{"/assets/app.css", http.StatusOK, "text/css; charset=utf-8", ":root"},
		{"/assets/missing.js", http.StatusNotFound, "", ""},
		{"/favicons/favicon.svg", http.StatusOK, "image/svg+xml", "<svg"},
		{"/favicons/site.webmanifest", http.StatusOK, "application/manifest+json", "Food Fest"},
		{"/favicons/nope.png", http.StatusNotFound, "", ""},
		{"/sounds/win.mp3", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, mux, tt.path, nil)

			assert.Equal(t, tt.code, rec.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestAssetsAreGzipped(t *testing.T) {
	mux := newTestMux(t, testConfig(), nil, nil)

	rec := get(t, mux, "/assets/app.js", http.Header{"Accept-Encoding": {"gzip"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestQRCode(t *testing.T) {
	mux := newTestMux(t, testConfig(), nil, nil)

	rec := get(t, mux, "/qr", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	png, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestAppURL(t *testing.T) {
	cfg := testConfig()
	cfg.prefix = "/fest"

	req := httptest.NewRequest(http.MethodGet, "http://party.example/fest/qr", nil)
	assert.Equal(t, "http://party.example/fest/", appURL(cfg, req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://party.example/fest/", appURL(cfg, req))
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", realIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.7")
	assert.Equal(t, "192.0.2.7:1234", realIP(req))

	req.Header.Set("CF-Connecting-IP", "2001:db8::1")
	assert.Equal(t, "[2001:db8::1]:1234", realIP(req))
}

func TestNewPageEscapes(t *testing.T) {
	page := newPage(testConfig(), "<Oops>", "a & b")

	assert.Contains(t, page, "&lt;Oops&gt;")
	assert.Contains(t, page, "a &amp; b")
	assert.False(t, strings.Contains(page, "<style>"))
}

func TestNewArcade(t *testing.T) {
	cfg := testConfig()
	cfg.password = "fest2025"

	arcade, err := newArcade(cfg)
	require.NoError(t, err)

	s := session.New("test")
	_, err = arcade.Dispatch(t.Context(), s, session.Action{Type: session.ActionLogin, Password: "nope"})
	assert.ErrorIs(t, err, session.ErrWrongPassword)

	_, err = arcade.Dispatch(t.Context(), s, session.Action{Type: session.ActionLogin, Password: "fest2025"})
	require.NoError(t, err)
	assert.False(t, arcade.Render(s).QuizAvailable)

	cfg.password = ""
	cfg.passwordHash = "not-a-hash"
	_, err = newArcade(cfg)
	assert.Error(t, err)
}
