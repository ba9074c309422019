/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package matrix implements the Memory Matrix game.
//
// The player memorises a square grid of digits, hides it, then names
// digits they remember seeing. Every guess uses up an attempt, and the
// round ends once the attempts run out; there is no winning state.
package matrix

import (
	"errors"
	"fmt"

	"github.com/Seednode/foodfest/games"
)

var ErrAlreadyRevealed = fmt.Errorf("%w: matrix already revealed", games.ErrActionAfterTerminal)

var errNotRevealed = errors.New("matrix has not been revealed yet")

type Status string

const (
	Memorizing Status = "MEMORIZING"
	Guessing   Status = "GUESSING"
	Lost       Status = "LOST"
)

type Game struct {
	Size        int
	MaxAttempts int

	grid     [][]int
	revealed bool
	attempts int
	last     *bool
	rng      games.Rand
}

func New(size, maxAttempts int, rng games.Rand) (*Game, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: matrix size must be positive, got %d", games.ErrInvalidInput, size)
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be positive, got %d", games.ErrInvalidInput, maxAttempts)
	}
	if rng == nil {
		rng = games.DefaultRand
	}

	g := &Game{
		Size:        size,
		MaxAttempts: maxAttempts,
		rng:         rng,
	}
	g.Reset()

	return g, nil
}

// Reset draws a new grid and returns the game to the memorising phase.
func (g *Game) Reset() {
	g.grid = make([][]int, g.Size)
	for i := range g.grid {
		row := make([]int, g.Size)
		for j := range row {
			row[j] = games.Between(g.rng, 1, 9)
		}
		g.grid[i] = row
	}
	g.revealed = false
	g.attempts = 0
	g.last = nil
}

func (g *Game) Status() Status {
	switch {
	case g.attempts >= g.MaxAttempts:
		return Lost
	case g.revealed:
		return Guessing
	default:
		return Memorizing
	}
}

func (g *Game) Attempts() int { return g.attempts }

// Reveal ends the memorising phase. It can only happen once per round.
func (g *Game) Reveal() error {
	if g.revealed {
		return ErrAlreadyRevealed
	}
	g.revealed = true
	return nil
}

// Guess reports whether n appears anywhere in the grid. Every accepted
// guess consumes an attempt, correct or not.
func (g *Game) Guess(n int) (bool, error) {
	if !g.revealed {
		return false, fmt.Errorf("%w: %v", games.ErrInvalidInput, errNotRevealed)
	}
	if g.Status() == Lost {
		return false, games.ErrActionAfterTerminal
	}
	if n < 1 || n > 9 {
		return false, fmt.Errorf("%w: guess %d is outside 1-9", games.ErrInvalidInput, n)
	}

	correct := g.Contains(n)
	g.attempts++
	g.last = &correct

	return correct, nil
}

func (g *Game) Contains(n int) bool {
	for _, row := range g.grid {
		for _, v := range row {
			if v == n {
				return true
			}
		}
	}
	return false
}

// Grid returns a copy of the digits.
func (g *Game) Grid() [][]int {
	out := make([][]int, len(g.grid))
	for i, row := range g.grid {
		out[i] = append([]int(nil), row...)
	}
	return out
}
