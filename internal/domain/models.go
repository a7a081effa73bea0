package domain

import (
	"fmt"
	"time"
)

// Question is a single multiple-choice question. Immutable once a room
// has been created with it.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctAnswer"` // zero-based index into Options
	TimeLimitSec  int      `json:"timeLimit"`     // whole seconds, > 0
}

// QuestionSet is an ordered bank of questions assigned to rooms at creation.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Validate checks that every question in the set is playable: at least two
// options, the correct index inside the option range, and a positive time
// limit. Loaders reject unplayable sets before a room is ever built on them.
func (s QuestionSet) Validate() error {
	for i, q := range s.Questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d (%s): need at least two options", i, q.ID)
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return fmt.Errorf("question %d (%s): correct option %d out of range", i, q.ID, q.CorrectOption)
		}
		if q.TimeLimitSec <= 0 {
			return fmt.Errorf("question %d (%s): time limit must be positive", i, q.ID)
		}
	}
	return nil
}

// PlayerScore accumulates one participant's results for the running quiz.
type PlayerScore struct {
	Username         string    `json:"username"`
	Score            int       `json:"score"`
	CorrectAnswers   int       `json:"correctAnswers"`
	IncorrectAnswers int       `json:"incorrectAnswers"`
	TotalAnswers     int       `json:"totalAnswers"`
	LastAnswerTime   time.Time `json:"lastAnswerTime,omitempty"`
}

// Answer records one participant's submission for the current question.
// At most one per participant per question; cleared when the question advances.
type Answer struct {
	Option    int       `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomInfo is a read-only snapshot of a room's roster and activity.
type RoomInfo struct {
	RoomID           string   `json:"roomId"`
	Admin            string   `json:"admin"`
	Participants     []string `json:"participants"`
	ParticipantCount int      `json:"participantCount"`
	IsActive         bool     `json:"isActive"`
}
