package app

import (
	"sort"

	"swagster-quiz-service/internal/domain"
)

// Rank orders player scores for display: score descending, ties broken by
// correct answers descending, remaining ties by total answers ascending
// (fewer attempts ranks higher). Returns a fresh slice of copies; the
// stored scores are never reordered or mutated.
func Rank(players []domain.PlayerScore) []domain.PlayerScore {
	entries := make([]domain.PlayerScore, len(players))
	copy(entries, players)

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].CorrectAnswers != entries[j].CorrectAnswers {
			return entries[i].CorrectAnswers > entries[j].CorrectAnswers
		}
		return entries[i].TotalAnswers < entries[j].TotalAnswers
	})
	return entries
}
