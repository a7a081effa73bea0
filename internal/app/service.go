package app

import (
	"context"
	"log"
	"time"

	"swagster-quiz-service/internal/domain"
)

// QuestionSetRepository loads question content (from cache/backing store).
type QuestionSetRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// ScheduleFunc runs fn after d. The default wraps time.AfterFunc; tests
// substitute a manual trigger for deterministic timer control.
type ScheduleFunc func(d time.Duration, fn func())

// Timings are the fixed delays driving quiz progression.
type Timings struct {
	// StartDelay is the grace period between the start notice and the
	// first question.
	StartDelay time.Duration
	// RevealDelay is how long question results stay on screen before the
	// next question.
	RevealDelay time.Duration
	// DefaultSet names the question set assigned to new rooms.
	DefaultSet string
}

func (t Timings) withDefaults() Timings {
	if t.StartDelay <= 0 {
		t.StartDelay = 3 * time.Second
	}
	if t.RevealDelay <= 0 {
		t.RevealDelay = 5 * time.Second
	}
	if t.DefaultSet == "" {
		t.DefaultSet = "general"
	}
	return t
}

// Service contains the room lifecycle and quiz engine use cases. All room
// mutations are serialized per room by the Room mutex; no operation blocks
// on another room.
type Service struct {
	rooms    *Registry
	sets     QuestionSetRepository
	gateway  Broadcaster
	timings  Timings
	now      func() time.Time
	schedule ScheduleFunc
}

func NewService(rooms *Registry, sets QuestionSetRepository, gateway Broadcaster, timings Timings) *Service {
	return NewServiceWithClock(rooms, sets, gateway, timings, time.Now, func(d time.Duration, fn func()) {
		time.AfterFunc(d, fn)
	})
}

// NewServiceWithClock is for tests that need deterministic time and timers.
func NewServiceWithClock(rooms *Registry, sets QuestionSetRepository, gateway Broadcaster, timings Timings, now func() time.Time, schedule ScheduleFunc) *Service {
	return &Service{
		rooms:    rooms,
		sets:     sets,
		gateway:  gateway,
		timings:  timings.withDefaults(),
		now:      now,
		schedule: schedule,
	}
}

// JoinResult tells the joining connection where it landed.
type JoinResult struct {
	RoomID       string   `json:"roomId"`
	Username     string   `json:"username"`
	Admin        string   `json:"admin"`
	IsAdmin      bool     `json:"isAdmin"`
	Participants []string `json:"participants"`
}

// Join admits an identity into a room. A missing room is created on the fly
// when asAdmin is set, with the caller as admin. Joining as the existing
// admin is a reconnect. Participant joins are rejected while a quiz runs.
func (s *Service) Join(ctx context.Context, roomID, username string, asAdmin bool) (JoinResult, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		if !asAdmin {
			return JoinResult{}, domain.ErrRoomNotFound
		}
		return s.createRoom(ctx, roomID, username)
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if username == room.admin {
		// Admin reconnect: no state is duplicated, the roster is re-broadcast
		// so late observers converge.
		result := JoinResult{
			RoomID:       room.id,
			Username:     username,
			Admin:        room.admin,
			IsAdmin:      true,
			Participants: room.participantsLocked(),
		}
		s.gateway.ToRoom(room.id, EventParticipantJoined, RosterPayload{
			Username:     username,
			Participants: result.Participants,
			Admin:        room.admin,
		})
		return result, nil
	}

	if room.active {
		return JoinResult{}, domain.ErrQuizInProgress
	}
	if room.hasParticipantLocked(username) {
		return JoinResult{}, domain.ErrNameTaken
	}

	room.addParticipantLocked(username)
	participants := room.participantsLocked()
	s.gateway.ToRoom(room.id, EventParticipantJoined, RosterPayload{
		Username:     username,
		Participants: participants,
		Admin:        room.admin,
	})
	log.Printf("%s joined room %s", username, room.id)

	return JoinResult{
		RoomID:       room.id,
		Username:     username,
		Admin:        room.admin,
		IsAdmin:      false,
		Participants: participants,
	}, nil
}

func (s *Service) createRoom(ctx context.Context, roomID, admin string) (JoinResult, error) {
	set, err := s.sets.GetQuestionSet(ctx, s.timings.DefaultSet)
	if err != nil {
		return JoinResult{}, err
	}

	room := newRoom(roomID, admin, set.Questions)
	if err := s.rooms.Add(room); err != nil {
		// Lost a race with a concurrent creator; retry as a plain join.
		return s.Join(ctx, roomID, admin, false)
	}
	log.Printf("room %s created by admin %s", roomID, admin)

	return JoinResult{
		RoomID:       roomID,
		Username:     admin,
		Admin:        admin,
		IsAdmin:      true,
		Participants: nil,
	}, nil
}

// Leave removes an identity from a room. The admin leaving dissolves the
// whole room; everyone remaining is notified and all state is destroyed.
// Unknown rooms and identities are a no-op. Disconnects funnel here too.
func (s *Service) Leave(roomID, username string) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	if username == room.admin {
		room.closed = true
		room.generation++
		room.mu.Unlock()

		s.rooms.Delete(roomID)
		s.gateway.ToRoom(room.id, EventRoomDeleted, RoomDeletedPayload{
			Message: "Room has been deleted because admin left",
		})
		s.gateway.CloseRoom(room.id)
		log.Printf("room %s deleted, admin %s left", room.id, username)
		return
	}

	if !room.hasParticipantLocked(username) {
		room.mu.Unlock()
		return
	}
	room.removeParticipantLocked(username)
	participants := room.participantsLocked()
	leaderboard := room.leaderboardLocked()
	room.mu.Unlock()

	s.gateway.ToRoom(room.id, EventParticipantLeft, RosterPayload{
		Username:     username,
		Participants: participants,
	})
	s.gateway.ToRoom(room.id, EventLeaderboardUpdate, leaderboard)
	log.Printf("%s left room %s", username, room.id)
}

// IsAdmin reports whether username is the admin of roomID.
func (s *Service) IsAdmin(roomID, username string) bool {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.admin == username
}

// RoomInfo returns a roster snapshot for display.
func (s *Service) RoomInfo(roomID string) (domain.RoomInfo, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomInfo{}, domain.ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.infoLocked(), nil
}

// Leaderboard returns the ranked scores for a room.
func (s *Service) Leaderboard(roomID string) ([]domain.PlayerScore, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return room.leaderboardLocked(), nil
}
