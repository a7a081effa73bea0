package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"swagster-quiz-service/internal/app"
)

// Handler upgrades HTTP requests to websockets and dispatches inbound client
// events to the room and quiz use cases. Rejected actions produce exactly one
// error event on the originating connection; room state is never touched.
type Handler struct {
	service  *app.Service
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(service *app.Service, hub *Hub) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type answerPayload struct {
	RoomID string `json:"roomId"`
	Answer int    `json:"answer"`
}

type answerAck struct {
	Message           string `json:"message"`
	AnsweredCount     int    `json:"answeredCount"`
	TotalParticipants int    `json:"totalParticipants"`
}

type connectedPayload struct {
	Message      string `json:"message"`
	ConnectionID string `json:"connectionId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS runs one connection: register with the hub, greet, then loop over
// inbound envelopes until the peer goes away. Disconnection is treated as an
// explicit leave with the identity bound at join time.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := h.hub.register(conn)
	defer func() {
		if c.roomID != "" {
			h.service.Leave(c.roomID, c.username)
		}
		h.hub.unregister(c)
	}()

	c.enqueue("connected", connectedPayload{
		Message:      "Connected to Swagster Quiz Platform!",
		ConnectionID: c.id,
	})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		h.dispatch(r, c, inbound)
	}
}

func (h *Handler) dispatch(r *http.Request, c *client, inbound inboundMessage) {
	switch inbound.Type {
	case "joinRoom":
		h.handleJoin(r, c, inbound.Payload)
	case "leaveRoom":
		h.handleLeave(c)
	case "startQuiz":
		h.handleStart(c, inbound.Payload)
	case "stopQuiz":
		h.handleStop(c, inbound.Payload)
	case "submitAnswer":
		h.handleAnswer(c, inbound.Payload)
	case "getRoomInfo":
		h.handleRoomInfo(c, inbound.Payload)
	case "getLeaderboard":
		h.handleLeaderboard(c, inbound.Payload)
	default:
		c.enqueue("quizError", errorPayload{Message: "unsupported message type"})
	}
}

func (h *Handler) handleJoin(r *http.Request, c *client, raw json.RawMessage) {
	var payload joinPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == "" || payload.Username == "" {
		c.enqueue("joinError", errorPayload{Message: "roomId and username are required"})
		return
	}

	// A connection already bound to a room switches rooms: the old binding
	// is released first. This also clears bindings left behind when the old
	// room was dissolved by its admin.
	if c.roomID != "" {
		h.service.Leave(c.roomID, c.username)
		h.hub.leaveRoom(c)
		c.username, c.roomID, c.isAdmin = "", "", false
	}

	res, err := h.service.Join(r.Context(), payload.RoomID, payload.Username, payload.IsAdmin)
	if err != nil {
		c.enqueue("joinError", errorPayload{Message: err.Error()})
		return
	}

	c.username = res.Username
	c.roomID = res.RoomID
	c.isAdmin = res.IsAdmin
	h.hub.joinRoom(c, res.RoomID)
	c.enqueue("joinedRoom", res)
}

func (h *Handler) handleLeave(c *client) {
	if c.roomID == "" {
		return
	}
	h.service.Leave(c.roomID, c.username)
	h.hub.leaveRoom(c)
	c.username, c.roomID, c.isAdmin = "", "", false
}

func (h *Handler) handleStart(c *client, raw json.RawMessage) {
	roomID, ok := h.boundRoom(c, raw)
	if !ok {
		return
	}
	if err := h.service.StartQuiz(roomID, c.username); err != nil {
		c.enqueue("quizError", errorPayload{Message: err.Error()})
	}
}

func (h *Handler) handleStop(c *client, raw json.RawMessage) {
	roomID, ok := h.boundRoom(c, raw)
	if !ok {
		return
	}
	if err := h.service.StopQuiz(roomID, c.username); err != nil {
		c.enqueue("quizError", errorPayload{Message: err.Error()})
	}
}

func (h *Handler) handleAnswer(c *client, raw json.RawMessage) {
	var payload answerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.enqueue("quizError", errorPayload{Message: "invalid answer payload"})
		return
	}
	if c.roomID == "" || !sameRoom(c.roomID, payload.RoomID) {
		c.enqueue("quizError", errorPayload{Message: "join a room first"})
		return
	}

	res, err := h.service.SubmitAnswer(c.roomID, c.username, payload.Answer)
	if err != nil {
		c.enqueue("quizError", errorPayload{Message: err.Error()})
		return
	}
	c.enqueue("answerSubmitted", answerAck{
		Message:           "Answer submitted successfully",
		AnsweredCount:     res.AnsweredCount,
		TotalParticipants: res.TotalParticipants,
	})
}

func (h *Handler) handleRoomInfo(c *client, raw json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == "" {
		c.enqueue("quizError", errorPayload{Message: "roomId is required"})
		return
	}
	info, err := h.service.RoomInfo(payload.RoomID)
	if err != nil {
		c.enqueue("quizError", errorPayload{Message: err.Error()})
		return
	}
	c.enqueue("roomInfo", info)
}

func (h *Handler) handleLeaderboard(c *client, raw json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == "" {
		c.enqueue("quizError", errorPayload{Message: "roomId is required"})
		return
	}
	leaderboard, err := h.service.Leaderboard(payload.RoomID)
	if err != nil {
		c.enqueue("quizError", errorPayload{Message: err.Error()})
		return
	}
	c.enqueue("leaderboardUpdate", leaderboard)
}

// boundRoom resolves the target room for quiz control events, requiring the
// connection to be joined to the room it names.
func (h *Handler) boundRoom(c *client, raw json.RawMessage) (string, bool) {
	var payload roomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == "" {
		c.enqueue("quizError", errorPayload{Message: "roomId is required"})
		return "", false
	}
	if c.roomID == "" || !sameRoom(c.roomID, payload.RoomID) {
		c.enqueue("quizError", errorPayload{Message: "join a room first"})
		return "", false
	}
	return c.roomID, true
}

func sameRoom(a, b string) bool {
	return roomKey(a) == roomKey(b)
}
