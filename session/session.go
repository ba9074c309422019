/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package session holds the state of one interactive visitor and routes
// their actions to the game they currently have open.
package session

import (
	"time"

	"github.com/Seednode/foodfest/games"
	"github.com/Seednode/foodfest/games/matrix"
	"github.com/Seednode/foodfest/games/number"
	"github.com/Seednode/foodfest/games/quiz"
)

// Session is the state of a single visitor. It is owned by one goroutine
// at a time and is not safe for concurrent use.
type Session struct {
	ID            string
	Authenticated bool
	Active        games.ID

	Number *number.Game
	Quiz   *quiz.Quiz
	Matrix *matrix.Game

	// Topic is the last requested quiz topic, kept so a failed
	// generation can be retried.
	Topic  string
	Notice *Notice

	CreatedAt  time.Time
	LastActive time.Time
}

func New(id string) *Session {
	now := time.Now()

	return &Session{
		ID:         id,
		CreatedAt:  now,
		LastActive: now,
	}
}

// SwitchTo makes id the active game and discards the state of every game,
// so the newly selected game always starts fresh.
func (s *Session) SwitchTo(id games.ID) {
	s.Active = id
	s.Number = nil
	s.Quiz = nil
	s.Matrix = nil
	s.Topic = ""
}

// Lock drops authentication along with any game state.
func (s *Session) Lock() {
	s.SwitchTo(games.None)
	s.Authenticated = false
}
