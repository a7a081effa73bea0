package app

import "math"

const (
	basePoints   = 100
	maxTimeBonus = 50
)

// Score maps an answer outcome to points. Wrong answers are worth nothing;
// correct answers earn the base award plus a speed bonus proportional to the
// time remaining. timeLeft must already be clamped to [0, timeLimit].
func Score(correct bool, timeLeft, timeLimit float64) int {
	if !correct {
		return 0
	}
	bonus := int(math.Floor(timeLeft / timeLimit * maxTimeBonus))
	return basePoints + bonus
}
