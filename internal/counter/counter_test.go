package counter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"songframe/internal/frame"
)

func TestReduceCountsEveryAction(t *testing.T) {
	s := Initial()
	presses := []frame.ButtonIndex{1, 3, frame.ButtonNone, 2, 4, 3}
	for _, b := range presses {
		s = Reduce(s, frame.Action{Button: b})
	}
	assert.Equal(t, len(presses), s.TotalButtonPresses)
	assert.Equal(t, "3", s.Active)
}

func TestReduceFromArbitraryStart(t *testing.T) {
	s := State{Active: "2", TotalButtonPresses: 41}
	s = Reduce(s, frame.Action{Button: 2})
	assert.Equal(t, State{Active: "2", TotalButtonPresses: 42}, s)
}

func TestReduceDefaultsActiveToFirstButton(t *testing.T) {
	s := Reduce(State{Active: "3", TotalButtonPresses: 1}, frame.Action{})
	assert.Equal(t, "1", s.Active)
	assert.Equal(t, 2, s.TotalButtonPresses)

	s = Reduce(s, frame.Action{Button: frame.ParseButtonIndex(12)})
	assert.Equal(t, "1", s.Active)
}

func TestReduceAddsOneToAnyStart(t *testing.T) {
	s := Reduce(State{TotalButtonPresses: -5}, frame.Action{Button: 1})
	assert.Equal(t, -4, s.TotalButtonPresses)
}

func TestReduceSaturatesAtMaxInt(t *testing.T) {
	s := State{Active: "1", TotalButtonPresses: math.MaxInt - 1}
	for i := 0; i < 3; i++ {
		next := Reduce(s, frame.Action{Button: 1})
		assert.GreaterOrEqual(t, next.TotalButtonPresses, s.TotalButtonPresses)
		s = next
	}
	assert.Equal(t, math.MaxInt, s.TotalButtonPresses)
}

func TestStateValid(t *testing.T) {
	assert.True(t, Initial().Valid())
	assert.True(t, State{TotalButtonPresses: math.MaxInt}.Valid())
	assert.False(t, State{TotalButtonPresses: -1}.Valid())
}
