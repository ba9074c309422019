package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/foodfest/games"
)

func sample() []Question {
	return []Question{
		{Prompt: "Q1", Options: []string{"A", "B", "C"}, Answer: "B"},
		{Prompt: "Q2", Options: []string{"X", "Y", "Z"}, Answer: "X"},
	}
}

func TestStart_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
	}{
		{"empty", nil},
		{"missing prompt", []Question{{Options: []string{"A", "B"}, Answer: "A"}}},
		{"missing options", []Question{{Prompt: "Q", Answer: "A"}}},
		{"one option", []Question{{Prompt: "Q", Options: []string{"A"}, Answer: "A"}}},
		{"missing answer", []Question{{Prompt: "Q", Options: []string{"A", "B"}}}},
		{"answer not an option", []Question{{Prompt: "Q", Options: []string{"A", "B"}, Answer: "C"}}},
		{"duplicate options", []Question{{Prompt: "Q", Options: []string{"A", "A"}, Answer: "A"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Start("topic", tt.questions, 0)
			assert.ErrorIs(t, err, games.ErrNoQuestions)
		})
	}
}

func TestStart_OptionCount(t *testing.T) {
	_, err := Start("topic", sample(), 4)
	assert.ErrorIs(t, err, games.ErrNoQuestions)

	q, err := Start("topic", sample(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Len())
}

func TestSubmit_Scenario(t *testing.T) {
	q, err := Start("letters", sample(), 3)
	require.NoError(t, err)

	fb, err := q.Submit("B")
	require.NoError(t, err)
	assert.Equal(t, Correct, fb.Kind)
	assert.False(t, q.Finished())

	fb, err = q.Submit("Y")
	require.NoError(t, err)
	assert.Equal(t, Wrong, fb.Kind)
	assert.Equal(t, "Wrong! Correct answer: X", fb.Text)

	assert.True(t, q.Finished())
	assert.Equal(t, 1, q.Score())
	assert.Equal(t, []Answer{{0, "B"}, {1, "Y"}}, q.Answers())

	_, err = q.Submit("X")
	assert.ErrorIs(t, err, games.ErrActionAfterTerminal)
	assert.Len(t, q.Answers(), 2)
}

func TestSubmit_KAnswersToFinish(t *testing.T) {
	questions := []Question{
		{Prompt: "1", Options: []string{"a", "b"}, Answer: "a"},
		{Prompt: "2", Options: []string{"a", "b"}, Answer: "b"},
		{Prompt: "3", Options: []string{"a", "b"}, Answer: "a"},
		{Prompt: "4", Options: []string{"a", "b"}, Answer: "a"},
	}
	picks := []string{"a", "a", "b", "a"}

	q, err := Start("t", questions, 0)
	require.NoError(t, err)

	for i, pick := range picks {
		require.False(t, q.Finished(), "finished early at %d", i)
		_, err := q.Submit(pick)
		require.NoError(t, err)
		assert.Equal(t, i+1, q.Index())
		assert.LessOrEqual(t, q.Score(), q.Index())
	}

	assert.True(t, q.Finished())
	assert.Equal(t, 2, q.Score())
}

func TestSubmit_UnknownOption(t *testing.T) {
	q, err := Start("t", sample(), 0)
	require.NoError(t, err)

	_, err = q.Submit("Q")
	assert.ErrorIs(t, err, games.ErrInvalidInput)
	assert.Zero(t, q.Index())
	assert.Empty(t, q.Answers())
	assert.Nil(t, q.Feedback())
}

func TestReview(t *testing.T) {
	q, err := Start("t", sample(), 0)
	require.NoError(t, err)

	_, err = q.Review()
	assert.ErrorIs(t, err, ErrNotFinished)

	_, _ = q.Submit("A")
	_, _ = q.Submit("X")

	items, err := q.Review()
	require.NoError(t, err)
	assert.Equal(t, []ReviewItem{
		{Question: "Q1", Selected: "A", Answer: "B", Correct: false},
		{Question: "Q2", Selected: "X", Answer: "X", Correct: true},
	}, items)
}

func TestRestart_Idempotent(t *testing.T) {
	q, err := Start("t", sample(), 0)
	require.NoError(t, err)
	_, _ = q.Submit("B")
	_, _ = q.Submit("Z")

	q.Restart()
	once := q.Questions()
	q.Restart()

	assert.Equal(t, once, q.Questions())
	assert.Equal(t, sample(), q.Questions())
	assert.Zero(t, q.Index())
	assert.Zero(t, q.Score())
	assert.Empty(t, q.Answers())
	assert.Nil(t, q.Feedback())
	assert.False(t, q.Finished())
}

func TestView(t *testing.T) {
	q, err := Start("letters", sample(), 0)
	require.NoError(t, err)

	v := q.View()
	require.NotNil(t, v.Question)
	assert.Equal(t, 1, v.Question.Number)
	assert.Equal(t, 2, v.Question.Total)
	assert.Equal(t, "Q1", v.Question.Prompt)
	assert.Nil(t, v.Feedback)

	_, _ = q.Submit("B")
	v = q.View()
	require.NotNil(t, v.Feedback)
	assert.Equal(t, Correct, v.Feedback.Kind)
	assert.Equal(t, "Q2", v.Question.Prompt)

	_, _ = q.Submit("X")
	v = q.View()
	assert.True(t, v.Finished)
	assert.Nil(t, v.Question)
	assert.Equal(t, 2, v.Score)
	assert.Len(t, v.Review, 2)
}
