package app

import "swagster-quiz-service/internal/domain"

// Event names broadcast to room members. The gateway delivers them verbatim
// as the outbound envelope type.
const (
	EventParticipantJoined   = "participantJoined"
	EventParticipantLeft     = "participantLeft"
	EventRoomDeleted         = "roomDeleted"
	EventQuizStarted         = "quizStarted"
	EventQuizQuestion        = "quizQuestion"
	EventParticipantAnswered = "participantAnswered"
	EventQuestionResults     = "questionResults"
	EventQuestionTimeUp      = "questionTimeUp"
	EventQuizCompleted       = "quizCompleted"
	EventQuizStopped         = "quizStopped"
	EventLeaderboardUpdate   = "leaderboardUpdate"
)

// Broadcaster is the outbound half of the event gateway as seen by the core.
// Implementations must not call back into the service.
type Broadcaster interface {
	// ToRoom delivers an event to every member of a room.
	ToRoom(roomID, event string, payload any)
	// CloseRoom drops the gateway's membership bookkeeping for a deleted
	// room so recreated rooms with the same id start empty.
	CloseRoom(roomID string)
}

type RosterPayload struct {
	Username     string   `json:"username"`
	Participants []string `json:"participants"`
	Admin        string   `json:"admin,omitempty"`
}

type RoomDeletedPayload struct {
	Message string `json:"message"`
}

type QuizStartedPayload struct {
	Message        string `json:"message"`
	TotalQuestions int    `json:"totalQuestions"`
}

// QuestionPayload is the per-question broadcast. The correct option index is
// deliberately absent; it is revealed only in the results event.
type QuestionPayload struct {
	QuestionID     string   `json:"questionId"`
	Prompt         string   `json:"question"`
	Options        []string `json:"options"`
	TimeLimitSec   int      `json:"timeLimit"`
	QuestionNumber int      `json:"questionNumber"`
	TotalQuestions int      `json:"totalQuestions"`
}

type AnswerCountPayload struct {
	AnsweredCount     int `json:"answeredCount"`
	TotalParticipants int `json:"totalParticipants"`
}

type QuestionResultsPayload struct {
	QuestionNumber int                      `json:"questionNumber"`
	CorrectOption  int                      `json:"correctAnswer"`
	Answers        map[string]domain.Answer `json:"answers"`
	Leaderboard    []domain.PlayerScore     `json:"leaderboard"`
}

type TimeUpPayload struct {
	QuestionNumber int `json:"questionNumber"`
}

type QuizEndPayload struct {
	Message          string               `json:"message"`
	FinalLeaderboard []domain.PlayerScore `json:"finalLeaderboard"`
}
