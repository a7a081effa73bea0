package domain

import "errors"

var (
	// ErrRoomNotFound is returned when the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned when creating a room whose id is taken.
	ErrRoomExists = errors.New("room already exists")
	// ErrNameTaken is returned when a display name is already in use in a room.
	ErrNameTaken = errors.New("username already taken in this room")
	// ErrQuizInProgress rejects participant joins while a quiz is running.
	ErrQuizInProgress = errors.New("quiz is already active in this room")
	// ErrQuizActive rejects starting a quiz that is already running.
	ErrQuizActive = errors.New("quiz is already active")
	// ErrQuizNotActive rejects stopping a quiz that is not running.
	ErrQuizNotActive = errors.New("no active quiz in this room")
	// ErrNotAdmin is returned when a non-admin attempts an admin-only action.
	ErrNotAdmin = errors.New("only the room admin may perform this action")
	// ErrNoParticipants rejects starting a quiz with an empty roster.
	ErrNoParticipants = errors.New("need at least one participant to start the quiz")
	// ErrNoQuestions rejects starting a quiz without questions.
	ErrNoQuestions = errors.New("no questions available for this quiz")
	// ErrNotParticipant is returned when the submitter is the admin or unknown.
	ErrNotParticipant = errors.New("not a participant of this room")
	// ErrNoActiveQuestion is returned when answering outside a question window.
	ErrNoActiveQuestion = errors.New("no question is currently active")
	// ErrAlreadyAnswered enforces at most one answer per participant per question.
	ErrAlreadyAnswered = errors.New("already answered this question")
	// ErrInvalidOption is returned for an option index outside the question's range.
	ErrInvalidOption = errors.New("invalid option index")
	// ErrTimeExpired is returned when an answer arrives at or past the deadline.
	ErrTimeExpired = errors.New("time is up for this question")
	// ErrQuestionSetNotFound indicates the question content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
)
