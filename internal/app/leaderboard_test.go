package app_test

import (
	"testing"

	"swagster-quiz-service/internal/app"
	"swagster-quiz-service/internal/domain"
)

func TestRankOrdering(t *testing.T) {
	players := []domain.PlayerScore{
		{Username: "C", Score: 90, CorrectAnswers: 5, TotalAnswers: 5},
		{Username: "B", Score: 100, CorrectAnswers: 2, TotalAnswers: 3},
		{Username: "A", Score: 100, CorrectAnswers: 3, TotalAnswers: 5},
	}

	ranked := app.Rank(players)
	want := []string{"A", "B", "C"}
	for i, name := range want {
		if ranked[i].Username != name {
			t.Fatalf("rank %d: expected %s, got %s", i, name, ranked[i].Username)
		}
	}
}

func TestRankTotalAnswersBreaksFinalTie(t *testing.T) {
	players := []domain.PlayerScore{
		{Username: "many", Score: 100, CorrectAnswers: 2, TotalAnswers: 6},
		{Username: "few", Score: 100, CorrectAnswers: 2, TotalAnswers: 2},
	}

	ranked := app.Rank(players)
	if ranked[0].Username != "few" {
		t.Fatalf("fewer attempts should rank higher, got %+v", ranked)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	players := []domain.PlayerScore{
		{Username: "low", Score: 1},
		{Username: "high", Score: 2},
	}

	_ = app.Rank(players)
	if players[0].Username != "low" || players[1].Username != "high" {
		t.Fatalf("input order changed: %+v", players)
	}
}
