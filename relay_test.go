package guardango

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/n0h4rt/guardango/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

// newBridge starts a websocket server calling handle for every frame it receives.
// greeting frames are sent as soon as a client connects.
func newBridge(t *testing.T, handle func(ws *websocket.Conn, frame string), greeting ...string) string {
	t.Helper()

	server := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		for _, frame := range greeting {
			if websocket.Message.Send(ws, frame) != nil {
				return
			}
		}

		var frame string
		for {
			if websocket.Message.Receive(ws, &frame) != nil {
				return
			}
			handle(ws, frame)
		}
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// ackingBridge acknowledges every action, failing restrictions.
func ackingBridge(ws *websocket.Conn, frame string) {
	head, data, _ := strings.Cut(frame, ":")
	if head != "action" {
		return
	}

	var action Action
	if json.Unmarshal([]byte(data), &action) != nil {
		return
	}

	ack := ackFrame{ID: action.ID}
	if action.Type == ActionRestrictMessaging {
		ack.Error = "not enough rights"
	}
	payload, _ := json.Marshal(ack)
	websocket.Message.Send(ws, "ack:"+string(payload))
}

func TestRelay_Execute(t *testing.T) {
	relay := NewRelay(newBridge(t, ackingBridge))
	require.NoError(t, relay.Connect(context.Background()))
	defer relay.Disconnect()

	assert.True(t, relay.Connected())
	assert.ErrorIs(t, relay.Connect(context.Background()), ErrAlreadyConnected)

	assert.NoError(t, relay.Execute(context.Background(), Notify(-100, "hello")))

	err := relay.Execute(context.Background(), RestrictMessaging(-100, 7, false))
	require.Error(t, err)
	assert.Equal(t, "not enough rights", err.Error())
}

func TestRelay_ExecuteTimeout(t *testing.T) {
	relay := NewRelay(newBridge(t, func(*websocket.Conn, string) {}))
	relay.Timeout = 50 * time.Millisecond
	require.NoError(t, relay.Connect(context.Background()))
	defer relay.Disconnect()

	assert.ErrorIs(t, relay.Execute(context.Background(), Notify(-100, "hello")), ErrTimeout)
	assert.Equal(t, 0, relay.waiters.Size())
}

func TestRelay_ExecuteNotConnected(t *testing.T) {
	relay := NewRelay("ws://127.0.0.1:1/")

	assert.ErrorIs(t, relay.Execute(context.Background(), Notify(-100, "hello")), ErrNotConnected)
	assert.Error(t, relay.Connect(context.Background()))
	assert.False(t, relay.Connected())
}

func TestRelay_Events(t *testing.T) {
	event := Event{
		Kind:   EventMessage,
		ChatID: -100,
		User:   &models.User{ID: 7, Name: "alice"},
		Text:   "hello",
		Time:   testEpoch,
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	url := newBridge(t, ackingBridge, "pong:", "bogus:frame", "event:{broken", "event:"+string(payload))

	received := make(chan *Event, 1)
	relay := NewRelay(url)
	relay.OnEvent = func(event *Event) {
		received <- event
	}
	require.NoError(t, relay.Connect(context.Background()))
	defer relay.Disconnect()

	select {
	case got := <-received:
		assert.Equal(t, EventMessage, got.Kind)
		assert.Equal(t, int64(7), got.User.ID)
		assert.Equal(t, "hello", got.Text)
		assert.True(t, testEpoch.Equal(got.Time))
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

func TestRelay_Disconnect(t *testing.T) {
	relay := NewRelay(newBridge(t, ackingBridge))
	require.NoError(t, relay.Connect(context.Background()))

	relay.Disconnect()
	relay.Disconnect()

	assert.False(t, relay.Connected())
	assert.ErrorIs(t, relay.Execute(context.Background(), Notify(-100, "hello")), ErrNotConnected)
}

// newFlakyBridge starts an acking bridge that refuses the first failures handshakes,
// or every handshake when failures is negative. attempts counts the handshakes.
func newFlakyBridge(t *testing.T, failures int32, attempts *atomic.Int32) string {
	t.Helper()

	server := httptest.NewServer(websocket.Server{
		Handshake: func(*websocket.Config, *http.Request) error {
			n := attempts.Add(1)
			if failures < 0 || n <= failures {
				return websocket.ErrBadRequestMethod
			}
			return nil
		},
		Handler: func(ws *websocket.Conn) {
			var frame string
			for websocket.Message.Receive(ws, &frame) == nil {
				ackingBridge(ws, frame)
			}
		},
	})
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestRelay_EventsInOrder(t *testing.T) {
	var greeting []string
	for i := 0; i < 30; i++ {
		for _, user := range []int64{7, 8} {
			payload, err := json.Marshal(Event{
				Kind:   EventMessage,
				ChatID: -100,
				User:   &models.User{ID: user},
				Text:   strconv.Itoa(i),
				Time:   testEpoch,
			})
			require.NoError(t, err)
			greeting = append(greeting, "event:"+string(payload))
		}
	}

	var (
		mu       sync.Mutex
		received = map[int64][]string{}
	)
	relay := NewRelay(newBridge(t, ackingBridge, greeting...))
	relay.OnEvent = func(event *Event) {
		if event.Text == "0" {
			// A slow first event must not let later events of the same user overtake it.
			time.Sleep(20 * time.Millisecond)
		}
		mu.Lock()
		received[event.User.ID] = append(received[event.User.ID], event.Text)
		mu.Unlock()
	}
	require.NoError(t, relay.Connect(context.Background()))
	defer relay.Disconnect()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received[7]) == 30 && len(received[8]) == 30
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, user := range []int64{7, 8} {
		for i, text := range received[user] {
			assert.Equal(t, strconv.Itoa(i), text)
		}
	}
}

func TestRelay_ConnectWithRetry(t *testing.T) {
	var attempts atomic.Int32
	relay := NewRelay(newFlakyBridge(t, 1, &attempts))

	require.NoError(t, relay.ConnectWithRetry(context.Background()))
	defer relay.Disconnect()

	assert.Equal(t, int32(2), attempts.Load())
	assert.True(t, relay.Connected())
	assert.NoError(t, relay.Execute(context.Background(), Notify(-100, "hello")))
}

func TestRelay_DisconnectStopsRetry(t *testing.T) {
	var attempts atomic.Int32
	relay := NewRelay(newFlakyBridge(t, -1, &attempts))

	result := make(chan error, 1)
	go func() {
		result <- relay.ConnectWithRetry(context.Background())
	}()

	// Wait until the first attempt failed and the relay is backing off.
	require.Eventually(t, func() bool {
		relay.mu.RLock()
		defer relay.mu.RUnlock()
		return relay.backoff != nil
	}, time.Second, 5*time.Millisecond)

	// Execute must not wait on a dial in progress.
	assert.ErrorIs(t, relay.Execute(context.Background(), Notify(-100, "hello")), ErrNotConnected)

	relay.Disconnect()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrRetryEnds)
	case <-time.After(time.Second):
		t.Fatal("retry not stopped")
	}
	assert.False(t, relay.Connected())
}
