package matrix

import "time"

type View struct {
	Size            int     `json:"size"`
	Status          Status  `json:"status"`
	Attempts        int     `json:"attempts"`
	MaxAttempts     int     `json:"max_attempts"`
	MemorizeSeconds int     `json:"memorize_seconds"`
	LastCorrect     *bool   `json:"last_correct,omitempty"`
	Grid            [][]int `json:"grid,omitempty"`
}

// View only exposes the grid while it is being memorised and after the
// round is lost.
func (g *Game) View(memorize time.Duration) View {
	v := View{
		Size:            g.Size,
		Status:          g.Status(),
		Attempts:        g.attempts,
		MaxAttempts:     g.MaxAttempts,
		MemorizeSeconds: int(memorize / time.Second),
	}

	if g.last != nil {
		last := *g.last
		v.LastCorrect = &last
	}

	if v.Status != Guessing {
		v.Grid = g.Grid()
	}

	return v
}
