package session

import (
	"github.com/Seednode/foodfest/games"
	"github.com/Seednode/foodfest/games/matrix"
	"github.com/Seednode/foodfest/games/number"
	"github.com/Seednode/foodfest/games/quiz"
)

type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is a message shown to the user until their next action.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

type GameLink struct {
	ID    games.ID `json:"id"`
	Title string   `json:"title"`
}

var menu = []GameLink{
	{ID: games.Quiz, Title: games.Quiz.Title()},
	{ID: games.Number, Title: games.Number.Title()},
	{ID: games.Matrix, Title: games.Matrix.Title()},
}

// View is the complete state a client needs to redraw the page.
type View struct {
	Authenticated bool       `json:"authenticated"`
	Menu          []GameLink `json:"menu,omitempty"`
	Active        games.ID   `json:"active,omitempty"`
	Title         string     `json:"title,omitempty"`
	Notice        *Notice    `json:"notice,omitempty"`
	Sound         string     `json:"sound,omitempty"`

	QuizAvailable bool   `json:"quiz_available"`
	Topic         string `json:"topic,omitempty"`

	Number *number.View `json:"number,omitempty"`
	Quiz   *quiz.View   `json:"quiz,omitempty"`
	Matrix *matrix.View `json:"matrix,omitempty"`
}

// Render snapshots s. It never mutates the session.
func (r *Router) Render(s *Session) View {
	v := View{
		Authenticated: s.Authenticated,
		Notice:        s.Notice,
	}

	if !s.Authenticated {
		return v
	}

	v.Menu = menu
	v.Active = s.Active
	v.Title = s.Active.Title()
	v.QuizAvailable = r.opts.Provider != nil
	v.Topic = s.Topic

	if s.Number != nil {
		nv := s.Number.View()
		v.Number = &nv
	}
	if s.Quiz != nil {
		qv := s.Quiz.View()
		v.Quiz = &qv
	}
	if s.Matrix != nil {
		mv := s.Matrix.View(r.opts.MatrixMemorize)
		v.Matrix = &mv
	}

	return v
}
