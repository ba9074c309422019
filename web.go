package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/Seednode/foodfest/games/quiz"
	"github.com/Seednode/foodfest/session"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("foodfest v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Version page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// newArcade builds the session router shared by every hub.
func newArcade(cfg *Config) (*session.Router, error) {
	var (
		gate *session.PasswordGate
		err  error
	)

	if cfg.passwordHash != "" {
		gate, err = session.NewPasswordGateFromHash(cfg.passwordHash)
	} else {
		gate, err = session.NewPasswordGate(cfg.password)
	}
	if err != nil {
		return nil, err
	}

	if gate.Open() {
		log.Warn().Msg("no password configured, anyone can play")
	}

	opts := session.Options{
		Gate:            gate,
		GenerateTimeout: cfg.llmTimeout,
		NumberMin:       cfg.numberMin,
		NumberMax:       cfg.numberMax,
		NumberAttempts:  cfg.numberAttempts,
		MatrixSize:      cfg.matrixSize,
		MatrixAttempts:  cfg.matrixAttempts,
		MatrixMemorize:  cfg.matrixMemorize,
		QuizOptions:     cfg.quizOptions,
	}

	if cfg.quizEnabled() {
		provider, err := quiz.NewOpenAIProvider(quiz.OpenAIConfig{
			Endpoint:  cfg.llmEndpoint,
			APIKey:    cfg.llmAPIKey,
			Model:     cfg.llmModel,
			Questions: cfg.quizQuestions,
			Options:   cfg.quizOptions,
		})
		if err != nil {
			return nil, err
		}

		opts.Provider = provider

		logf(cfg, "QUIZ: Generating questions with %s", cfg.llmModel)
	} else {
		logf(cfg, "QUIZ: No --llm-api-key set, quiz generation disabled")
	}

	return session.NewRouter(opts), nil
}

// newMux registers every route under cfg.prefix. The returned HubManager
// must be closed by the caller.
func newMux(cfg *Config, arcade *session.Router, sounds *soundLibrary, errs chan<- error) (*httprouter.Router, *HubManager) {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		errorf("SERVE: Recovered from panic serving %s: %v", r.URL.Path, i)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		_, _ = io.WriteString(w, newPage(cfg, "Server Error", "An error has occurred. Please try again."))
	}

	hubs := newHubManager(cfg, arcade, sounds)

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, errs))

	mux.GET(cfg.prefix+"/assets/*asset", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+"/favicons/*favicon", serveFavicons(cfg, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/qr", qrHandler(cfg))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/sounds/:file", serveSound(cfg, sounds, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, hubs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	return mux, hubs
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: foodfest v%s", releaseVersion)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	arcade, err := newArcade(cfg)
	if err != nil {
		return err
	}

	sounds := newSoundLibrary(afero.NewBasePathFs(afero.NewOsFs(), cfg.soundsDir), cfg.prefix)

	errs := make(chan error, 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errs:
				errorf("SERVE: %v", err)
			}
		}
	}()

	mux, hubs := newMux(cfg, arcade, sounds, errs)
	defer hubs.Close()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	failed := make(chan error, 1)

	go func() {
		var err error

		logf(cfg, "SERVE: Listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)

		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-failed:
		return err
	}

	logf(cfg, "STOP: Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
