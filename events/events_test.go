package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/openmingle/mingle-go/socket"
	"github.com/openmingle/mingle-go/store"
)

// harness is a bound client talking to an in-process websocket server.
type harness struct {
	client  *socket.Client
	stores  *store.Stores
	applied chan string

	mu   sync.Mutex
	conn *websocket.Conn
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		stores:  store.New(),
		applied: make(chan string, 32),
	}

	var upgrader websocket.Upgrader
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.mu.Lock()
		h.conn = conn
		h.mu.Unlock()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))

	h.client = socket.New("ws"+strings.TrimPrefix(srv.URL, "http"), zaptest.NewLogger(t))
	unbind := Bind(h.client, h.stores, zaptest.NewLogger(t), func(event string) {
		h.applied <- event
	})

	require.NoError(t, h.client.Connect(socket.Options{}))

	t.Cleanup(func() {
		unbind()
		h.client.Disconnect()
		h.mu.Lock()
		if h.conn != nil {
			h.conn.Close()
		}
		h.mu.Unlock()
		srv.Close()
	})
	return h
}

func (h *harness) send(t *testing.T, frame string) {
	t.Helper()
	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	require.NotNil(t, conn)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func (h *harness) waitApplied(t *testing.T, event string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-h.applied:
			if got == event {
				return
			}
		case <-deadline:
			t.Fatalf("event %q never applied", event)
		}
	}
}

func TestBindMessageUpdatesLedgerAndFlag(t *testing.T) {
	h := newHarness(t)

	h.send(t, `{"name":"message","data":{"roomId":42,"id":1,"body":"hi","type":"text","author":{"id":7,"username":"ana"},"createdAt":"2024-01-01T00:00:00Z"}}`)
	h.waitApplied(t, EventMessage)

	msgs := h.stores.Messages.Messages(42)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Body)
	assert.Equal(t, "ana", msgs[0].Author.Username)
	assert.True(t, h.stores.Rooms.RoomNewMessageState(42))
}

func TestBindMessageUpdateReplacesOptimisticEcho(t *testing.T) {
	h := newHarness(t)

	h.send(t, `{"name":"message","data":{"roomId":42,"id":-1,"body":"hi","type":"text","createdAt":"2024-01-01T00:00:10Z"}}`)
	h.waitApplied(t, EventMessage)

	// Server confirmation: real id, corrected timestamp.
	h.send(t, `{"name":"message_update","data":{"roomId":42,"messageId":-1,"id":500,"body":"hi","type":"text","createdAt":"2024-01-01T00:00:12Z"}}`)
	h.waitApplied(t, EventMessageUpdate)

	msgs := h.stores.Messages.Messages(42)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(500), msgs[0].ID)
}

func TestBindRoomLifecycle(t *testing.T) {
	h := newHarness(t)

	h.send(t, `{"name":"room","data":{"id":3,"name":"weekend plans","type":"group","participantInfos":[{"id":1,"username":"ana"}]}}`)
	h.waitApplied(t, EventRoom)

	info, ok := h.stores.Rooms.RoomInfo(3)
	require.True(t, ok)
	assert.Equal(t, "weekend plans", info.Name)

	h.send(t, `{"name":"room_remove","data":{"roomId":3}}`)
	h.waitApplied(t, EventRoomRemove)

	_, ok = h.stores.Rooms.RoomInfo(3)
	assert.False(t, ok)
}

func TestBindFriendRequestLifecycle(t *testing.T) {
	h := newHarness(t)

	h.send(t, `{"name":"friend_request","data":{"id":9,"from":{"id":1,"username":"ana"}}}`)
	h.waitApplied(t, EventFriendRequest)
	require.Len(t, h.stores.Inbox.FriendRequests(), 1)

	h.send(t, `{"name":"friend_request_removed","data":{"id":9}}`)
	h.waitApplied(t, EventFriendRequestRemoved)
	assert.Empty(t, h.stores.Inbox.FriendRequests())
}

func TestBindNotification(t *testing.T) {
	h := newHarness(t)

	h.send(t, `{"name":"notification","data":{"id":4,"kind":"reaction","body":"ana reacted to your post"}}`)
	h.waitApplied(t, EventNotification)

	ns := h.stores.Inbox.Notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, "reaction", ns[0].Kind)
}

func TestBindIgnoresUnknownAndUndecodable(t *testing.T) {
	h := newHarness(t)

	h.send(t, `{"name":"presence_blip","data":{"whatever":true}}`)
	h.send(t, `{"name":"message","data":"not an object"}`)
	h.send(t, `{"name":"message","data":{"roomId":1,"id":1,"body":"ok","type":"text","createdAt":"2024-01-01T00:00:00Z"}}`)
	h.waitApplied(t, EventMessage)

	// Only the valid message landed.
	assert.Len(t, h.stores.Messages.Messages(1), 1)
	assert.Empty(t, h.stores.Messages.Messages(0))
}

func TestUnbindStopsApplying(t *testing.T) {
	h := newHarness(t)

	// Rebind with our own unbind so we can flip it mid-test.
	extra := store.New()
	unbind := Bind(h.client, extra, nil, nil)
	unbind()
	unbind() // safe to call twice

	h.send(t, `{"name":"message","data":{"roomId":1,"id":1,"body":"ok","type":"text","createdAt":"2024-01-01T00:00:00Z"}}`)
	h.waitApplied(t, EventMessage) // the harness binder still sees it

	assert.Empty(t, extra.Messages.Messages(1))
	assert.Len(t, h.stores.Messages.Messages(1), 1)
}
