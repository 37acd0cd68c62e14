package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	upgrader := Upgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn, r.URL.Query().Get("user_id"))
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubDeliversOnlyToAddressedUser(t *testing.T) {
	hub, srv := startHub(t)
	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")
	require.Eventually(t, func() bool { return hub.Connected("alice") == 1 && hub.Connected("bob") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), Event{Kind: KindNotification, UserID: "alice", Data: json.RawMessage(`{"title":"New assignment"}`)}))

	_ = alice.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := alice.ReadMessage()
	require.NoError(t, err)
	var got Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, KindNotification, got.Kind)
	assert.JSONEq(t, `{"title":"New assignment"}`, string(got.Data))

	_ = bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err)
}

func TestHubStatsCountsUsersAndSockets(t *testing.T) {
	hub, srv := startHub(t)
	dial(t, srv, "alice")
	dial(t, srv, "alice")
	dial(t, srv, "bob")

	require.Eventually(t, func() bool {
		users, sockets := hub.Stats()
		return users == 2 && sockets == 3
	}, time.Second, 5*time.Millisecond)
}

type memoryBus struct {
	subs []func([]byte)
}

func (b *memoryBus) Publish(_ context.Context, payload []byte) error {
	for _, fn := range b.subs {
		fn(payload)
	}
	return nil
}

func (b *memoryBus) Subscribe(_ context.Context, fn func([]byte)) error {
	b.subs = append(b.subs, fn)
	return nil
}

func TestRelayForwardsBusEventsToHub(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "carol")
	require.Eventually(t, func() bool { return hub.Connected("carol") == 1 }, time.Second, 5*time.Millisecond)

	bus := &memoryBus{}
	require.NoError(t, Relay(context.Background(), bus, hub))
	require.NoError(t, NewBusPublisher(bus).Publish(context.Background(), Event{Kind: KindMessage, UserID: "carol", Data: json.RawMessage(`{"content":"hi"}`)}))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"message"`)
}
