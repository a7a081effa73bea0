package app

import (
	"fmt"
	"log"
	"time"

	"swagster-quiz-service/internal/domain"
)

// The quiz engine drives each room through start -> per-question timer loop
// -> completion. Timers fire outside any lock and carry (room pointer,
// generation, question index); a callback whose capture no longer matches
// the room state returns silently. Stopping a quiz bumps the generation,
// which is the entire cancellation mechanism.

// StartQuiz begins a quiz. Only the admin may start, only while no quiz is
// running, and only with at least one participant and one question. All
// scores reset to zero; the first question follows after the start delay.
func (s *Service) StartQuiz(roomID, username string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}

	room.mu.Lock()
	if room.admin != username {
		room.mu.Unlock()
		return domain.ErrNotAdmin
	}
	if room.active {
		room.mu.Unlock()
		return domain.ErrQuizActive
	}
	if len(room.participants) == 0 {
		room.mu.Unlock()
		return domain.ErrNoParticipants
	}
	if len(room.questions) == 0 {
		room.mu.Unlock()
		return domain.ErrNoQuestions
	}

	room.resetScoresLocked()
	room.answers = make(map[string]domain.Answer)
	room.active = true
	room.current = -1
	room.generation++
	gen := room.generation
	total := len(room.questions)
	room.mu.Unlock()

	s.gateway.ToRoom(room.id, EventQuizStarted, QuizStartedPayload{
		Message:        fmt.Sprintf("Quiz started by %s! Get ready...", username),
		TotalQuestions: total,
	})
	log.Printf("quiz started in room %s by %s, %d questions", room.id, username, total)

	s.schedule(s.timings.StartDelay, func() {
		s.advanceQuestion(room, gen, -1)
	})
	return nil
}

// advanceQuestion moves the room from fromIndex to the next question, or to
// completion when questions are exhausted. Stale timers (stopped, deleted,
// restarted, or already-advanced rooms) fall through the guard and do nothing.
func (s *Service) advanceQuestion(room *Room, gen uint64, fromIndex int) {
	room.mu.Lock()
	if room.closed || !room.active || room.generation != gen || room.current != fromIndex {
		room.mu.Unlock()
		return
	}

	if fromIndex >= len(room.questions)-1 {
		room.active = false
		room.current = len(room.questions)
		leaderboard := room.leaderboardLocked()
		room.mu.Unlock()

		s.gateway.ToRoom(room.id, EventLeaderboardUpdate, leaderboard)
		s.gateway.ToRoom(room.id, EventQuizCompleted, QuizEndPayload{
			Message:          "Quiz completed! Check out the final results.",
			FinalLeaderboard: leaderboard,
		})
		log.Printf("quiz completed in room %s", room.id)
		return
	}

	room.current++
	index := room.current
	room.answers = make(map[string]domain.Answer)
	room.questionStart = s.now()
	question := room.questions[index]
	total := len(room.questions)
	room.mu.Unlock()

	s.gateway.ToRoom(room.id, EventQuizQuestion, QuestionPayload{
		QuestionID:     question.ID,
		Prompt:         question.Prompt,
		Options:        question.Options,
		TimeLimitSec:   question.TimeLimitSec,
		QuestionNumber: index + 1,
		TotalQuestions: total,
	})

	s.schedule(time.Duration(question.TimeLimitSec)*time.Second, func() {
		s.questionTimeout(room, gen, index)
	})
}

// questionTimeout closes the answer window for question index. Participants
// who stayed silent get a total-answer increment with no points, then the
// results are revealed and the next question is scheduled.
func (s *Service) questionTimeout(room *Room, gen uint64, index int) {
	room.mu.Lock()
	if room.closed || !room.active || room.generation != gen || room.current != index {
		room.mu.Unlock()
		return
	}

	for _, p := range room.participants {
		if _, answered := room.answers[p]; !answered {
			room.scores[p].TotalAnswers++
		}
	}

	question := room.questions[index]
	answers := make(map[string]domain.Answer, len(room.answers))
	for user, a := range room.answers {
		answers[user] = a
	}
	leaderboard := room.leaderboardLocked()
	room.mu.Unlock()

	s.gateway.ToRoom(room.id, EventQuestionResults, QuestionResultsPayload{
		QuestionNumber: index + 1,
		CorrectOption:  question.CorrectOption,
		Answers:        answers,
		Leaderboard:    leaderboard,
	})
	s.gateway.ToRoom(room.id, EventQuestionTimeUp, TimeUpPayload{QuestionNumber: index + 1})
	s.gateway.ToRoom(room.id, EventLeaderboardUpdate, leaderboard)

	s.schedule(s.timings.RevealDelay, func() {
		s.advanceQuestion(room, gen, index)
	})
}

// SubmitResult is the acknowledgement for a recorded answer. Correctness is
// not revealed until the question closes.
type SubmitResult struct {
	AnsweredCount     int
	TotalParticipants int
}

// SubmitAnswer validates and records a participant's answer for the current
// question. The deadline is authoritative on the server: questionStart plus
// the question's time limit, compared against the clock at submission.
func (s *Service) SubmitAnswer(roomID, username string, option int) (SubmitResult, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return SubmitResult{}, domain.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if username == room.admin || !room.hasParticipantLocked(username) {
		return SubmitResult{}, domain.ErrNotParticipant
	}
	if !room.active || room.current < 0 || room.current >= len(room.questions) {
		return SubmitResult{}, domain.ErrNoActiveQuestion
	}
	if _, dup := room.answers[username]; dup {
		return SubmitResult{}, domain.ErrAlreadyAnswered
	}

	question := room.questions[room.current]
	if option < 0 || option >= len(question.Options) {
		return SubmitResult{}, domain.ErrInvalidOption
	}

	now := s.now()
	limit := time.Duration(question.TimeLimitSec) * time.Second
	elapsed := now.Sub(room.questionStart)
	if elapsed >= limit {
		return SubmitResult{}, domain.ErrTimeExpired
	}

	room.answers[username] = domain.Answer{Option: option, Timestamp: now}

	player := room.scores[username]
	player.TotalAnswers++
	if option == question.CorrectOption {
		player.CorrectAnswers++
		timeLeft := (limit - elapsed).Seconds()
		if timeLeft < 0 {
			timeLeft = 0
		}
		player.Score += Score(true, timeLeft, limit.Seconds())
	} else {
		player.IncorrectAnswers++
	}
	player.LastAnswerTime = now

	result := SubmitResult{
		AnsweredCount:     len(room.answers),
		TotalParticipants: len(room.participants),
	}
	s.gateway.ToRoom(room.id, EventParticipantAnswered, AnswerCountPayload{
		AnsweredCount:     result.AnsweredCount,
		TotalParticipants: result.TotalParticipants,
	})
	return result, nil
}

// StopQuiz halts a running quiz on admin request and publishes the final
// leaderboard immediately, with no reveal delay. Pending timers die on the
// generation bump.
func (s *Service) StopQuiz(roomID, username string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}

	room.mu.Lock()
	if room.admin != username {
		room.mu.Unlock()
		return domain.ErrNotAdmin
	}
	if !room.active {
		room.mu.Unlock()
		return domain.ErrQuizNotActive
	}

	room.active = false
	room.current = -1
	room.answers = make(map[string]domain.Answer)
	room.generation++
	leaderboard := room.leaderboardLocked()
	room.mu.Unlock()

	s.gateway.ToRoom(room.id, EventQuizStopped, QuizEndPayload{
		Message:          fmt.Sprintf("Quiz stopped by %s", username),
		FinalLeaderboard: leaderboard,
	})
	s.gateway.ToRoom(room.id, EventLeaderboardUpdate, leaderboard)
	log.Printf("quiz stopped in room %s by %s", room.id, username)
	return nil
}
