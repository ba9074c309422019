package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/foodfest/games"
	"github.com/Seednode/foodfest/games/matrix"
	"github.com/Seednode/foodfest/games/number"
	"github.com/Seednode/foodfest/games/quiz"
)

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrGameNotActive   = errors.New("that game is not open")
	ErrUnknownAction   = errors.New("unknown action")
)

type ActionType string

const (
	ActionLogin        ActionType = "login"
	ActionLogout       ActionType = "logout"
	ActionSelect       ActionType = "select"
	ActionNumberGuess  ActionType = "number_guess"
	ActionNumberReset  ActionType = "number_reset"
	ActionQuizGenerate ActionType = "quiz_generate"
	ActionQuizAnswer   ActionType = "quiz_answer"
	ActionQuizRestart  ActionType = "quiz_restart"
	ActionQuizDiscard  ActionType = "quiz_discard"
	ActionMatrixReveal ActionType = "matrix_reveal"
	ActionMatrixGuess  ActionType = "matrix_guess"
	ActionMatrixReset  ActionType = "matrix_reset"
)

// Action is one user interaction, as sent by the client.
type Action struct {
	Type     ActionType `json:"type"`
	Password string     `json:"password,omitempty"`
	Game     games.ID   `json:"game,omitempty"`
	Number   *int       `json:"number,omitempty"`
	Topic    string     `json:"topic,omitempty"`
	Option   string     `json:"option,omitempty"`
}

type Options struct {
	Gate            Gate
	Provider        quiz.Provider
	GenerateTimeout time.Duration

	NumberMin      int
	NumberMax      int
	NumberAttempts int

	MatrixSize     int
	MatrixAttempts int
	MatrixMemorize time.Duration

	QuizOptions int

	Rand games.Rand
}

// Result describes a successfully applied action.
type Result struct {
	Cue     number.Cue
	Message string
}

// Router applies actions to a session. It holds no per-session state and
// may be shared between sessions.
type Router struct {
	opts Options
}

func NewRouter(opts Options) *Router {
	if opts.Rand == nil {
		opts.Rand = games.DefaultRand
	}

	return &Router{opts: opts}
}

// Dispatch applies a to s and records the outcome as the session notice.
// A rejected action leaves game state unchanged.
func (r *Router) Dispatch(ctx context.Context, s *Session, a Action) (Result, error) {
	s.LastActive = time.Now()

	res, err := r.dispatch(ctx, s, a)
	switch {
	case err != nil:
		s.Notice = &Notice{Kind: NoticeError, Text: noticeText(err)}
	case res.Message != "":
		s.Notice = &Notice{Kind: NoticeInfo, Text: res.Message}
	default:
		s.Notice = nil
	}

	return res, err
}

func (r *Router) dispatch(ctx context.Context, s *Session, a Action) (Result, error) {
	if a.Type == ActionLogin {
		return r.login(s, a.Password)
	}

	if !s.Authenticated {
		return Result{}, ErrUnauthenticated
	}

	switch a.Type {
	case ActionLogout:
		s.Lock()
		return Result{}, nil

	case ActionSelect:
		return r.selectGame(s, a.Game)

	case ActionNumberGuess, ActionNumberReset:
		if s.Active != games.Number || s.Number == nil {
			return Result{}, ErrGameNotActive
		}
		return r.number(s.Number, a)

	case ActionQuizGenerate, ActionQuizAnswer, ActionQuizRestart, ActionQuizDiscard:
		if s.Active != games.Quiz {
			return Result{}, ErrGameNotActive
		}
		return r.quiz(ctx, s, a)

	case ActionMatrixReveal, ActionMatrixGuess, ActionMatrixReset:
		if s.Active != games.Matrix || s.Matrix == nil {
			return Result{}, ErrGameNotActive
		}
		return r.matrix(s.Matrix, a)
	}

	return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
}

func (r *Router) login(s *Session, password string) (Result, error) {
	if s.Authenticated {
		return Result{}, nil
	}

	if r.opts.Gate != nil && !r.opts.Gate.Check(password) {
		return Result{}, ErrWrongPassword
	}

	s.Authenticated = true

	return Result{Message: "Access granted!"}, nil
}

func (r *Router) selectGame(s *Session, id games.ID) (Result, error) {
	if !id.Valid() {
		return Result{}, fmt.Errorf("%w: unknown game %q", games.ErrInvalidInput, id)
	}

	s.SwitchTo(id)

	var err error
	switch id {
	case games.Number:
		s.Number, err = number.New(r.opts.NumberMin, r.opts.NumberMax, r.opts.NumberAttempts, r.opts.Rand)
	case games.Matrix:
		s.Matrix, err = matrix.New(r.opts.MatrixSize, r.opts.MatrixAttempts, r.opts.Rand)
	}
	if err != nil {
		s.SwitchTo(games.None)
		return Result{}, err
	}

	return Result{}, nil
}

func (r *Router) number(g *number.Game, a Action) (Result, error) {
	if a.Type == ActionNumberReset {
		g.Reset()
		return Result{}, nil
	}

	if a.Number == nil {
		return Result{}, fmt.Errorf("%w: missing guess", games.ErrInvalidInput)
	}

	cue, err := g.Guess(*a.Number)
	if err != nil {
		return Result{}, err
	}

	return Result{Cue: cue}, nil
}

func (r *Router) quiz(ctx context.Context, s *Session, a Action) (Result, error) {
	switch a.Type {
	case ActionQuizGenerate:
		return r.generate(ctx, s, a.Topic)

	case ActionQuizDiscard:
		s.Quiz = nil
		return Result{}, nil
	}

	if s.Quiz == nil {
		return Result{}, fmt.Errorf("%w: no quiz in progress", games.ErrInvalidInput)
	}

	if a.Type == ActionQuizRestart {
		s.Quiz.Restart()
		return Result{}, nil
	}

	if _, err := s.Quiz.Submit(a.Option); err != nil {
		return Result{}, err
	}

	return Result{}, nil
}

// generate blocks until the provider answers or the timeout expires.
func (r *Router) generate(ctx context.Context, s *Session, topic string) (Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Result{}, fmt.Errorf("%w: please enter a topic", games.ErrInvalidInput)
	}
	s.Topic = topic

	if r.opts.Provider == nil {
		return Result{}, fmt.Errorf("%w: quiz generation is not configured", games.ErrGenerationFailed)
	}

	if r.opts.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.GenerateTimeout)
		defer cancel()
	}

	questions, err := r.opts.Provider.Generate(ctx, topic)
	if err != nil {
		if !errors.Is(err, games.ErrGenerationFailed) && !errors.Is(err, games.ErrInvalidFormat) && !errors.Is(err, games.ErrNoQuestions) {
			err = fmt.Errorf("%w: %v", games.ErrGenerationFailed, err)
		}
		return Result{}, err
	}

	q, err := quiz.Start(topic, questions, r.opts.QuizOptions)
	if err != nil {
		return Result{}, err
	}
	s.Quiz = q

	return Result{Message: "Quiz ready!"}, nil
}

func (r *Router) matrix(g *matrix.Game, a Action) (Result, error) {
	switch a.Type {
	case ActionMatrixReset:
		g.Reset()
		return Result{}, nil

	case ActionMatrixReveal:
		return Result{}, g.Reveal()
	}

	if a.Number == nil {
		return Result{}, fmt.Errorf("%w: missing guess", games.ErrInvalidInput)
	}

	correct, err := g.Guess(*a.Number)
	if err != nil {
		return Result{}, err
	}

	switch {
	case g.Status() == matrix.Lost:
		return Result{Message: "You lose! Take a look at the matrix."}, nil
	case correct:
		return Result{Message: "Correct!"}, nil
	default:
		return Result{Message: "Wrong! Try again."}, nil
	}
}

func noticeText(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Please log in first."
	case errors.Is(err, ErrWrongPassword):
		return "Incorrect password."
	case errors.Is(err, ErrGameNotActive):
		return "Please select that game from the menu first."
	case errors.Is(err, games.ErrActionAfterTerminal):
		return "This round is over. Start a new one to keep playing."
	case errors.Is(err, games.ErrGenerationFailed),
		errors.Is(err, games.ErrInvalidFormat),
		errors.Is(err, games.ErrNoQuestions):
		return "Failed to generate quiz (" + err.Error() + "). Try again."
	}

	return capitalize(err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
