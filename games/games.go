/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package games holds the vocabulary shared by the individual mini-games.
package games

import (
	"errors"
	"math/rand/v2"
)

// ID identifies one of the mini-games.
type ID string

const (
	None   ID = ""
	Number ID = "number"
	Quiz   ID = "quiz"
	Matrix ID = "matrix"
)

// Valid reports whether id names a selectable game.
func (id ID) Valid() bool {
	switch id {
	case Number, Quiz, Matrix:
		return true
	}
	return false
}

func (id ID) Title() string {
	switch id {
	case Number:
		return "Guess the Hidden Number"
	case Quiz:
		return "Interactive Quiz"
	case Matrix:
		return "Memory Matrix"
	}
	return ""
}

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrActionAfterTerminal = errors.New("game is over")
	ErrNoQuestions         = errors.New("no usable questions")
	ErrGenerationFailed    = errors.New("question generation failed")
	ErrInvalidFormat       = errors.New("questions are not in the expected format")
)

// Rand is the subset of *rand.Rand the games draw from.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the math/rand/v2 global source.
var DefaultRand Rand = globalRand{}

// Between returns a uniform integer in [lo, hi].
func Between(r Rand, lo, hi int) int {
	if r == nil {
		r = DefaultRand
	}
	return lo + r.IntN(hi-lo+1)
}
