package memory

import (
	"context"
	"testing"
	"time"

	"swagster-quiz-service/internal/domain"
)

func TestQuestionSetRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionSetLoader: NewStaticLoader(map[string]domain.QuestionSet{
			"general": sampleSet(),
		}),
	}
	repo := NewQuestionSetRepository(loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "general"); err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuestionSet(context.Background(), "general"); err != nil {
		t.Fatalf("get set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionSetRepositoryMiss(t *testing.T) {
	repo := NewQuestionSetRepository(NewStaticLoader(nil), time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "nope"); err != domain.ErrQuestionSetNotFound {
		t.Fatalf("expected ErrQuestionSetNotFound, got %v", err)
	}
}

func TestStaticLoaderRejectsUnplayableSet(t *testing.T) {
	// A zero time limit would make every answer arrive past the deadline.
	broken := sampleSet()
	broken.Questions[0].TimeLimitSec = 0
	loader := NewStaticLoader(map[string]domain.QuestionSet{"general": broken})

	if _, err := loader.LoadQuestionSet(context.Background(), "general"); err == nil {
		t.Fatalf("expected validation error for zero time limit")
	}

	broken = sampleSet()
	broken.Questions[0].CorrectOption = 7
	loader = NewStaticLoader(map[string]domain.QuestionSet{"general": broken})
	if _, err := loader.LoadQuestionSet(context.Background(), "general"); err == nil {
		t.Fatalf("expected validation error for out-of-range correct option")
	}
}

type countingLoader struct {
	QuestionSetLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionSetLoader.LoadQuestionSet(ctx, setID)
}

func sampleSet() domain.QuestionSet {
	return domain.QuestionSet{
		ID: "general",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Prompt:        "What is the capital of France?",
				Options:       []string{"Paris", "London", "Berlin", "Madrid"},
				CorrectOption: 0,
				TimeLimitSec:  30,
			},
		},
	}
}
