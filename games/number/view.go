package number

// View is what a client renders for the number game.
type View struct {
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	MaxAttempts  int     `json:"max_attempts"`
	AttemptsUsed int     `json:"attempts_used"`
	AttemptsLeft int     `json:"attempts_left"`
	Progress     float64 `json:"progress"`
	Status       Status  `json:"status"`
	LastGuess    *int    `json:"last_guess,omitempty"`
	Feedback     string  `json:"feedback,omitempty"`
	History      []Entry `json:"history"`
	Secret       *int    `json:"secret,omitempty"`
}

func (g *Game) View() View {
	v := View{
		Min:          g.Min,
		Max:          g.Max,
		MaxAttempts:  g.MaxAttempts,
		AttemptsUsed: g.AttemptsUsed,
		AttemptsLeft: g.AttemptsLeft(),
		Progress:     g.Progress(),
		Status:       g.Status(),
		Feedback:     g.Feedback,
	}

	if g.LastGuess != nil {
		last := *g.LastGuess
		v.LastGuess = &last
	}

	history := g.History
	if len(history) > MaxHistoryDisplay {
		history = history[len(history)-MaxHistoryDisplay:]
	}
	v.History = append([]Entry{}, history...)

	if v.Status != Active {
		secret := g.secret
		v.Secret = &secret
	}

	return v
}
