package matrix

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/foodfest/games"
)

// constant fills every cell with the same digit.
type constant int

func (c constant) IntN(n int) int { return int(c) - 1 }

func TestNew_FillsGrid(t *testing.T) {
	g, err := New(4, 3, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	grid := g.Grid()
	require.Len(t, grid, 4)
	for _, row := range grid {
		require.Len(t, row, 4)
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, 9)
		}
	}
	assert.Equal(t, Memorizing, g.Status())
	assert.Zero(t, g.Attempts())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(0, 3, nil)
	assert.ErrorIs(t, err, games.ErrInvalidInput)

	_, err = New(3, 0, nil)
	assert.ErrorIs(t, err, games.ErrInvalidInput)
}

func TestReveal_Twice(t *testing.T) {
	g, err := New(3, 3, nil)
	require.NoError(t, err)

	require.NoError(t, g.Reveal())
	err = g.Reveal()
	assert.ErrorIs(t, err, ErrAlreadyRevealed)
	assert.ErrorIs(t, err, games.ErrActionAfterTerminal)
	assert.Equal(t, Guessing, g.Status())
}

func TestGuess_BeforeReveal(t *testing.T) {
	g, err := New(3, 3, nil)
	require.NoError(t, err)

	_, err = g.Guess(5)
	assert.ErrorIs(t, err, games.ErrInvalidInput)
	assert.Zero(t, g.Attempts())
}

func TestGuess_OutOfRange(t *testing.T) {
	g, err := New(3, 3, nil)
	require.NoError(t, err)
	require.NoError(t, g.Reveal())

	_, err = g.Guess(0)
	assert.ErrorIs(t, err, games.ErrInvalidInput)
	_, err = g.Guess(10)
	assert.ErrorIs(t, err, games.ErrInvalidInput)
	assert.Zero(t, g.Attempts())
}

func TestGuess_ThreeMissesLose(t *testing.T) {
	g, err := New(3, 3, constant(7))
	require.NoError(t, err)
	require.NoError(t, g.Reveal())

	for i := 0; i < 3; i++ {
		correct, err := g.Guess(2)
		require.NoError(t, err)
		assert.False(t, correct)
	}

	assert.Equal(t, Lost, g.Status())
	assert.Equal(t, 3, g.Attempts())

	_, err = g.Guess(7)
	assert.ErrorIs(t, err, games.ErrActionAfterTerminal)
	assert.Equal(t, 3, g.Attempts())
}

func TestGuess_CorrectStillCountsTowardsLoss(t *testing.T) {
	g, err := New(2, 2, constant(4))
	require.NoError(t, err)
	require.NoError(t, g.Reveal())

	correct, err := g.Guess(4)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, Guessing, g.Status())

	correct, err = g.Guess(4)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, Lost, g.Status())
}

func TestView_HidesGridWhileGuessing(t *testing.T) {
	g, err := New(3, 2, constant(1))
	require.NoError(t, err)

	v := g.View(5 * time.Second)
	assert.Equal(t, 5, v.MemorizeSeconds)
	assert.Len(t, v.Grid, 3)

	require.NoError(t, g.Reveal())
	v = g.View(5 * time.Second)
	assert.Nil(t, v.Grid)
	assert.Nil(t, v.LastCorrect)

	_, _ = g.Guess(1)
	v = g.View(0)
	require.NotNil(t, v.LastCorrect)
	assert.True(t, *v.LastCorrect)

	_, _ = g.Guess(2)
	v = g.View(0)
	assert.Equal(t, Lost, v.Status)
	assert.Equal(t, [][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}, v.Grid)
}

func TestReset(t *testing.T) {
	g, err := New(3, 1, nil)
	require.NoError(t, err)
	require.NoError(t, g.Reveal())
	_, _ = g.Guess(5)
	require.Equal(t, Lost, g.Status())

	g.Reset()
	assert.Equal(t, Memorizing, g.Status())
	assert.Zero(t, g.Attempts())
}
