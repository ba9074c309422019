/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package quiz implements a multiple-choice quiz over generated questions.
package quiz

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Seednode/foodfest/games"
)

var ErrNotFinished = errors.New("quiz is not finished")

// Question is one multiple-choice record. The JSON names match what the
// question provider is asked to produce.
type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Validate checks that q is answerable. optionCount of zero or less
// accepts any number of options from two upwards.
func (q Question) Validate(optionCount int) error {
	switch {
	case strings.TrimSpace(q.Prompt) == "":
		return errors.New("missing question")
	case len(q.Options) < 2:
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	case optionCount > 0 && len(q.Options) != optionCount:
		return fmt.Errorf("need exactly %d options, got %d", optionCount, len(q.Options))
	case strings.TrimSpace(q.Answer) == "":
		return errors.New("missing answer")
	case !slices.Contains(q.Options, q.Answer):
		return fmt.Errorf("answer %q is not one of the options", q.Answer)
	}

	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return errors.New("empty option")
		}
		if seen[o] {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = true
	}

	return nil
}

type FeedbackKind string

const (
	Correct FeedbackKind = "CORRECT"
	Wrong   FeedbackKind = "WRONG"
)

type Feedback struct {
	Kind FeedbackKind `json:"kind"`
	Text string       `json:"text"`
}

// Answer records the option chosen for the question at Index.
type Answer struct {
	Index    int    `json:"index"`
	Selected string `json:"selected"`
}

type ReviewItem struct {
	Question string `json:"question"`
	Selected string `json:"selected"`
	Answer   string `json:"answer"`
	Correct  bool   `json:"correct"`
}

type Quiz struct {
	Topic string

	questions []Question
	current   int
	score     int
	answers   []Answer
	feedback  *Feedback
}

// Start begins a quiz. Every question must pass Validate.
func Start(topic string, questions []Question, optionCount int) (*Quiz, error) {
	if len(questions) == 0 {
		return nil, games.ErrNoQuestions
	}
	for i, q := range questions {
		if err := q.Validate(optionCount); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", games.ErrNoQuestions, i+1, err)
		}
	}

	return &Quiz{
		Topic:     topic,
		questions: slices.Clone(questions),
	}, nil
}

func (q *Quiz) Len() int { return len(q.questions) }
func (q *Quiz) Index() int { return q.current }
func (q *Quiz) Score() int { return q.score }
func (q *Quiz) Finished() bool { return q.current >= len(q.questions) }

func (q *Quiz) Answers() []Answer { return slices.Clone(q.answers) }

func (q *Quiz) Feedback() *Feedback { return q.feedback }

// Questions returns a copy of the question set.
func (q *Quiz) Questions() []Question { return slices.Clone(q.questions) }

// Submit answers the current question and moves on to the next one.
func (q *Quiz) Submit(selected string) (Feedback, error) {
	if q.Finished() {
		return Feedback{}, games.ErrActionAfterTerminal
	}

	question := q.questions[q.current]
	if !slices.Contains(question.Options, selected) {
		return Feedback{}, fmt.Errorf("%w: %q is not an option", games.ErrInvalidInput, selected)
	}

	q.answers = append(q.answers, Answer{Index: q.current, Selected: selected})

	fb := Feedback{Kind: Wrong, Text: "Wrong! Correct answer: " + question.Answer}
	if selected == question.Answer {
		fb = Feedback{Kind: Correct, Text: "Correct!"}
		q.score++
	}
	q.feedback = &fb
	q.current++

	return fb, nil
}

// Review pairs every question with the recorded answer.
func (q *Quiz) Review() ([]ReviewItem, error) {
	if !q.Finished() {
		return nil, ErrNotFinished
	}

	items := make([]ReviewItem, 0, len(q.questions))
	for _, a := range q.answers {
		question := q.questions[a.Index]
		items = append(items, ReviewItem{
			Question: question.Prompt,
			Selected: a.Selected,
			Answer:   question.Answer,
			Correct:  a.Selected == question.Answer,
		})
	}

	return items, nil
}

// Restart replays the same questions from the beginning.
func (q *Quiz) Restart() {
	q.current = 0
	q.score = 0
	q.answers = nil
	q.feedback = nil
}
