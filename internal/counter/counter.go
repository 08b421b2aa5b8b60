// Package counter implements the click-counter page: every action bumps a
// press counter and marks the pressed button as active.
package counter

import (
	"math"

	"songframe/internal/frame"
)

// State is the per-frame state of the counter page.
type State struct {
	Active             string `json:"active"`
	TotalButtonPresses int    `json:"total_button_presses"`
}

// Initial is the state rendered before any button was pressed.
func Initial() State {
	return State{Active: "1", TotalButtonPresses: 0}
}

// Valid reports whether s could have been produced by Reduce from Initial.
func (s State) Valid() bool {
	return s.TotalButtonPresses >= 0
}

// Reduce counts the action and records which button was pressed. Actions
// without a valid index mark button 1. The counter saturates at math.MaxInt.
func Reduce(state State, action frame.Action) State {
	active := "1"
	if action.Button.Valid() {
		active = action.Button.String()
	}
	total := state.TotalButtonPresses
	if total < math.MaxInt {
		total++
	}
	return State{
		Active:             active,
		TotalButtonPresses: total,
	}
}
