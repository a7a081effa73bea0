package app

import (
	"log"
	"sync"
	"time"

	"swagster-quiz-service/internal/domain"
)

// Room holds all state for one quiz room. Every mutation happens under mu;
// the registry hands out shared pointers, never copies. The admin is not a
// participant and never appears on the leaderboard.
type Room struct {
	mu sync.Mutex

	id    string
	admin string

	participants []string // insertion order, admin excluded
	scores       map[string]*domain.PlayerScore

	questions []domain.Question

	// current is -1 while idle, 0..N-1 during a question, N after completion.
	current       int
	active        bool
	questionStart time.Time
	answers       map[string]domain.Answer

	// generation increments on every quiz start and stop. Deferred timers
	// capture it and bail out when it no longer matches.
	generation uint64

	// closed is set when the room is deleted so in-flight timers holding the
	// pointer become no-ops.
	closed bool
}

func newRoom(id, admin string, questions []domain.Question) *Room {
	return &Room{
		id:        id,
		admin:     admin,
		scores:    make(map[string]*domain.PlayerScore),
		questions: questions,
		current:   -1,
		answers:   make(map[string]domain.Answer),
	}
}

// ID returns the room identifier as supplied at creation.
func (r *Room) ID() string { return r.id }

func (r *Room) addParticipantLocked(username string) {
	r.participants = append(r.participants, username)
	r.scores[username] = &domain.PlayerScore{Username: username}
	r.checkRosterLocked()
}

func (r *Room) removeParticipantLocked(username string) {
	for i, p := range r.participants {
		if p == username {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			break
		}
	}
	delete(r.scores, username)
	delete(r.answers, username)
	r.checkRosterLocked()
}

func (r *Room) hasParticipantLocked(username string) bool {
	_, ok := r.scores[username]
	return ok
}

func (r *Room) participantsLocked() []string {
	out := make([]string, len(r.participants))
	copy(out, r.participants)
	return out
}

// leaderboardLocked returns the ranked scores in participant order.
func (r *Room) leaderboardLocked() []domain.PlayerScore {
	players := make([]domain.PlayerScore, 0, len(r.participants))
	for _, p := range r.participants {
		if score, ok := r.scores[p]; ok {
			players = append(players, *score)
		}
	}
	return Rank(players)
}

func (r *Room) resetScoresLocked() {
	for _, p := range r.participants {
		r.scores[p] = &domain.PlayerScore{Username: p}
	}
}

// checkRosterLocked surfaces a desynchronized roster/leaderboard pair. This
// is a programming defect, not a user error, so it is logged loudly and the
// process keeps running.
func (r *Room) checkRosterLocked() {
	if len(r.participants) == len(r.scores) {
		return
	}
	log.Printf("INVARIANT VIOLATION: room %s has %d participants but %d score entries",
		r.id, len(r.participants), len(r.scores))
}

func (r *Room) infoLocked() domain.RoomInfo {
	participants := r.participantsLocked()
	return domain.RoomInfo{
		RoomID:           r.id,
		Admin:            r.admin,
		Participants:     participants,
		ParticipantCount: len(participants),
		IsActive:         r.active,
	}
}
