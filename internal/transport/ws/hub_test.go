package ws

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastDuringDisconnectIsDropped(t *testing.T) {
	f := newHubFixture(t, "room-1")
	defer f.server.Close()

	peer, c := f.connect(t)
	defer peer.Close()

	f.hub.unregister(c)

	// A broadcast still holding a pre-disconnect snapshot of the client
	// must drop the message instead of sending on the closed channel.
	c.enqueue("leaderboardUpdate", nil)
	f.hub.ToRoom("room-1", "leaderboardUpdate", nil)
}

func TestConcurrentBroadcastAndDisconnect(t *testing.T) {
	f := newHubFixture(t, "room-1")
	defer f.server.Close()

	for i := 0; i < 20; i++ {
		peer, c := f.connect(t)

		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					f.hub.ToRoom("room-1", "quizQuestion", nil)
				}
			}
		}()

		f.hub.unregister(c)
		close(done)
		wg.Wait()
		peer.Close()
	}
}

func TestToRoomExceptSkipsNamedConnection(t *testing.T) {
	f := newHubFixture(t, "room-1")
	defer f.server.Close()

	sender, senderClient := f.connect(t)
	defer sender.Close()
	other, _ := f.connect(t)
	defer other.Close()

	f.hub.ToRoomExcept("room-1", senderClient.id, "participantAnswered", nil)

	readUntil(t, other, "participantAnswered")

	_ = sender.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var msg outbound
	if err := sender.ReadJSON(&msg); err == nil {
		t.Fatalf("excluded connection received %+v", msg)
	}
}

// hubFixture registers every inbound connection with a bare hub and joins it
// to one room, bypassing the handler so tests can hold the client structs.
type hubFixture struct {
	hub    *Hub
	server *httptest.Server

	mu      sync.Mutex
	clients []*client
}

func newHubFixture(t *testing.T, roomID string) *hubFixture {
	t.Helper()
	f := &hubFixture{hub: NewHub()}
	upgrader := websocket.Upgrader{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := f.hub.register(conn)
		f.hub.joinRoom(c, roomID)
		f.mu.Lock()
		f.clients = append(f.clients, c)
		f.mu.Unlock()
	}))
	return f
}

// connect dials the fixture and returns the peer side plus the registered
// client struct for the new connection.
func (f *hubFixture) connect(t *testing.T) (*websocket.Conn, *client) {
	t.Helper()
	before := f.clientCount()
	peer := dial(t, f.server)

	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		if len(f.clients) > before {
			c := f.clients[before]
			f.mu.Unlock()
			return peer, c
		}
		f.mu.Unlock()
		if time.Now().After(deadline) {
			t.Fatalf("connection never registered with hub")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (f *hubFixture) clientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
