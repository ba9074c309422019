/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package number implements "Guess the Hidden Number".
//
// A secret is drawn from [Min, Max]. Each guess is answered with a
// direction (too low / too high) and a temperature tier derived from the
// distance to the secret. The game is won on an exact match and lost when
// MaxAttempts guesses have been used without one.
package number

import (
	"fmt"

	"github.com/Seednode/foodfest/games"
)

// MaxHistoryDisplay caps how many past guesses a view carries.
const MaxHistoryDisplay = 10

type Direction string

const (
	Low   Direction = "LOW"
	High  Direction = "HIGH"
	Exact Direction = "EXACT"
)

// Tier buckets the absolute distance between a guess and the secret.
type Tier string

const (
	Fire Tier = "FIRE"
	Hot  Tier = "HOT"
	Warm Tier = "WARM"
	Cold Tier = "COLD"
)

// Cue is an advisory sound hint for the caller; it has no effect on play.
type Cue string

const (
	CueNone Cue = ""
	CueWin  Cue = "WIN"
	CueFire Cue = "FIRE"
	CueHot  Cue = "HOT"
	CueWarm Cue = "WARM"
	CueCold Cue = "COLD"
	CueLose Cue = "LOSE"
)

type Status string

const (
	Active Status = "ACTIVE"
	Won    Status = "WON"
	Lost   Status = "LOST"
)

// Entry is one row of guess history.
type Entry struct {
	Attempt   int       `json:"attempt"`
	Guess     int       `json:"guess"`
	Direction Direction `json:"direction"`
	Tier      Tier      `json:"tier,omitempty"`
	Result    string    `json:"result"`
}

type Game struct {
	Min         int
	Max         int
	MaxAttempts int

	AttemptsUsed int
	Won          bool
	LastGuess    *int
	Feedback     string
	History      []Entry

	secret int
	rng    games.Rand
}

// New validates the bounds and starts a fresh round.
func New(min, max, maxAttempts int, rng games.Rand) (*Game, error) {
	if min > max {
		return nil, fmt.Errorf("%w: range %d-%d is empty", games.ErrInvalidInput, min, max)
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be positive, got %d", games.ErrInvalidInput, maxAttempts)
	}
	if rng == nil {
		rng = games.DefaultRand
	}

	g := &Game{
		Min:         min,
		Max:         max,
		MaxAttempts: maxAttempts,
		rng:         rng,
	}
	g.Reset()

	return g, nil
}

// Reset draws a new secret and clears all progress.
func (g *Game) Reset() {
	g.secret = games.Between(g.rng, g.Min, g.Max)
	g.AttemptsUsed = 0
	g.Won = false
	g.LastGuess = nil
	g.Feedback = ""
	g.History = nil
}

// Classify maps an absolute distance to its tier. Each threshold is
// inclusive on the closer bucket.
func Classify(diff int) Tier {
	switch {
	case diff <= 5:
		return Fire
	case diff <= 10:
		return Hot
	case diff <= 20:
		return Warm
	default:
		return Cold
	}
}

func (g *Game) Status() Status {
	switch {
	case g.Won:
		return Won
	case g.AttemptsUsed >= g.MaxAttempts:
		return Lost
	default:
		return Active
	}
}

func (g *Game) AttemptsLeft() int {
	return max(0, g.MaxAttempts-g.AttemptsUsed)
}

// Progress is the share of attempts used, between 0 and 1.
func (g *Game) Progress() float64 {
	return min(float64(g.AttemptsUsed)/float64(g.MaxAttempts), 1.0)
}

// Guess applies one guess. Rejected guesses leave the game untouched.
func (g *Game) Guess(n int) (Cue, error) {
	if g.Status() != Active {
		return CueNone, games.ErrActionAfterTerminal
	}
	if n < g.Min || n > g.Max {
		return CueNone, fmt.Errorf("%w: guess %d is outside %d-%d", games.ErrInvalidInput, n, g.Min, g.Max)
	}

	g.AttemptsUsed++
	attempt := g.AttemptsUsed
	g.LastGuess = &n

	if n == g.secret {
		g.Won = true
		g.Feedback = fmt.Sprintf("Perfect! You nailed the number %d in just %d %s!", g.secret, attempt, plural(attempt, "try", "tries"))
		g.History = append(g.History, Entry{
			Attempt:   attempt,
			Guess:     n,
			Direction: Exact,
			Result:    "WIN",
		})
		return CueWin, nil
	}

	diff := n - g.secret
	direction, result := High, "Too high"
	if diff < 0 {
		diff = -diff
		direction, result = Low, "Too low"
	}
	tier := Classify(diff)

	g.Feedback = fmt.Sprintf("Your last guess (%d): %s. %s", n, result, describe(tier))
	g.History = append(g.History, Entry{
		Attempt:   attempt,
		Guess:     n,
		Direction: direction,
		Tier:      tier,
		Result:    result,
	})

	if attempt >= g.MaxAttempts {
		g.Feedback = fmt.Sprintf("Tough luck! You ran out of attempts. The secret number was %d.", g.secret)
		g.History[len(g.History)-1].Result = fmt.Sprintf("LOSE (actual: %d)", g.secret)
		return CueLose, nil
	}

	return Cue(tier), nil
}

func describe(t Tier) string {
	switch t {
	case Fire:
		return "On fire! Within 5 of the secret number."
	case Hot:
		return "Getting hot! Within 10 of the secret number."
	case Warm:
		return "Lukewarm. Within 20 of the secret number."
	default:
		return "Freezing! Far away, try a big change."
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
