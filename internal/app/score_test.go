package app_test

import (
	"testing"

	"swagster-quiz-service/internal/app"
)

func TestScoreBounds(t *testing.T) {
	if got := app.Score(true, 30, 30); got != 150 {
		t.Fatalf("instant correct answer should score 150, got %d", got)
	}
	if got := app.Score(true, 0, 30); got != 100 {
		t.Fatalf("last-moment correct answer should score 100, got %d", got)
	}
	if got := app.Score(false, 30, 30); got != 0 {
		t.Fatalf("wrong answer should score 0, got %d", got)
	}
}

func TestScoreSpeedBonusFloors(t *testing.T) {
	if got := app.Score(true, 15, 30); got != 125 {
		t.Fatalf("half-time answer should score 125, got %d", got)
	}
	// 10/30 * 50 = 16.67, floored.
	if got := app.Score(true, 10, 30); got != 116 {
		t.Fatalf("expected floored bonus 116, got %d", got)
	}
}
