package guardango

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"
)

// ackFrame is the payload of an "ack:" frame.
type ackFrame struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error,omitempty"`
}

// Relay connects the engine to a platform bridge over a websocket.
//
// Frames are "head:payload" strings. The bridge sends "event:{...}" with a JSON [Event] and
// "ack:{...}" with the outcome of an Action; the relay sends "action:{...}" with a JSON [Action].
// Relay implements [Executor]: Execute returns once the bridge acknowledges the Action.
type Relay struct {
	URL     string        // The websocket URL of the bridge.
	Timeout time.Duration // How long Execute waits for an acknowledgement.
	OnEvent func(*Event)  // Called for every inbound event. Events of one user are passed in arrival order, one at a time.

	mu        sync.RWMutex
	ws        *WebSocket
	connected bool
	waiters   *xsync.MapOf[uuid.UUID, chan error]
	inbox     *xsync.MapOf[int64, *eventQueue]
	backoff   *Backoff
	context   context.Context
	cancelCtx context.CancelFunc
}

// NewRelay returns a Relay for the bridge at url.
func NewRelay(url string) *Relay {
	return &Relay{
		URL:     url,
		Timeout: SYNC_SEND_TIMEOUT,
		waiters: xsync.NewMapOf[uuid.UUID, chan error](),
		inbox:   xsync.NewMapOf[int64, *eventQueue](),
	}
}

// Connect establishes the connection to the bridge.
//
// The dial happens outside the relay's lock; a Disconnect during the dial wins
// and Connect returns ErrConnectionClosed.
func (r *Relay) Connect(ctx context.Context) error {
	r.mu.Lock()
	if r.connected {
		r.mu.Unlock()
		return ErrAlreadyConnected
	}
	r.connected = true
	r.context, r.cancelCtx = context.WithCancel(ctx)
	runCtx, cancel := r.context, r.cancelCtx
	r.mu.Unlock()

	log.Debug().Str("URL", r.URL).Msg("Connecting")

	err := r.connect(runCtx)
	if err != nil {
		r.mu.Lock()
		closed := runCtx.Err() != nil
		if !closed {
			r.connected = false
		}
		r.mu.Unlock()
		cancel()

		if closed || errors.Is(err, ErrConnectionClosed) {
			return ErrConnectionClosed
		}

		log.Debug().Str("URL", r.URL).Err(err).Msg("Connect failed")
		return err
	}

	log.Debug().Str("URL", r.URL).Msg("Connected")

	return nil
}

// ConnectWithRetry connects to the bridge, retrying through [Relay.Reconnect] when the first attempt fails.
// A Disconnect stops the retries.
func (r *Relay) ConnectWithRetry(ctx context.Context) error {
	err := r.Connect(ctx)
	if err == nil || errors.Is(err, ErrAlreadyConnected) || errors.Is(err, ErrConnectionClosed) {
		return err
	}

	r.mu.Lock()
	if r.connected {
		r.mu.Unlock()
		return ErrAlreadyConnected
	}
	r.connected = true
	r.context, r.cancelCtx = context.WithCancel(ctx)
	r.mu.Unlock()

	if err = r.Reconnect(); err != nil {
		r.Disconnect()
		return err
	}

	log.Debug().Str("URL", r.URL).Msg("Connected")

	return nil
}

// connect dials the bridge without holding r.mu and installs the connection
// if the relay is still meant to be connected.
func (r *Relay) connect(ctx context.Context) error {
	ws := &WebSocket{OnError: r.wsOnError}
	if err := ws.Connect(r.URL); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.connected || ctx.Err() != nil {
		ws.Close()
		return ErrConnectionClosed
	}

	r.ws = ws
	ws.Sustain(ctx)
	go r.listen(ctx, ws)

	return nil
}

// listen dispatches the frames of one connection until it closes.
func (r *Relay) listen(ctx context.Context, ws *WebSocket) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-ws.Events:
			if !ok {
				return
			}
			r.wsOnFrame(frame)
		}
	}
}

// Connected reports whether the relay is connected or reconnecting.
func (r *Relay) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.connected
}

// Disconnect gracefully closes the connection to the bridge.
func (r *Relay) Disconnect() {
	r.mu.Lock()
	backoff := r.backoff
	connected := r.connected
	r.connected = false
	ws := r.ws
	r.ws = nil
	cancel := r.cancelCtx
	r.mu.Unlock()

	if backoff != nil {
		backoff.Cancel()
	}

	if !connected {
		return
	}

	cancel()
	if ws != nil {
		ws.Close()
	}
}

// Reconnect reconnects to the bridge with a jittered exponential backoff.
func (r *Relay) Reconnect() error {
	backoff := NewBackoff()

	r.mu.Lock()
	r.backoff = backoff
	ctx := r.context
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.backoff = nil
		r.mu.Unlock()
	}()

	for retries := 0; retries < MAX_RETRIES && !backoff.Sleep(ctx); retries++ {
		err := r.connect(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrConnectionClosed) {
			break
		}
		log.Debug().Str("URL", r.URL).Int("Retry", retries+1).Err(err).Msg("Reconnect failed")
	}

	// Either canceled or reached the maximum retries.
	return ErrRetryEnds
}

// Execute sends the Action to the bridge and waits for its acknowledgement.
// It returns the error reported by the bridge, or ErrTimeout.
func (r *Relay) Execute(ctx context.Context, action Action) error {
	r.mu.RLock()
	ws, connected := r.ws, r.connected
	r.mu.RUnlock()

	if !connected || ws == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal action: %w", err)
	}

	done := make(chan error, 1)
	r.waiters.Store(action.ID, done)
	defer r.waiters.Delete(action.ID)

	if err = ws.Send("action:" + string(data)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		return ErrTimeout
	case err = <-done:
		return err
	}
}

// wsOnError handles the loss of the connection.
//
// It attempts to reconnect if the relay is still meant to be connected,
// and disconnects if the reconnection fails.
func (r *Relay) wsOnError(err error) {
	log.Debug().Str("URL", r.URL).Err(err).Msg("Connection lost")

	if !r.Connected() {
		return
	}

	if r.Reconnect() == nil {
		log.Debug().Str("URL", r.URL).Msg("Reconnected")
		return
	}

	r.Disconnect()
	log.Error().Str("URL", r.URL).Msg("Disconnected")
}

// wsOnFrame handles one incoming frame.
func (r *Relay) wsOnFrame(frame string) {
	defer func() {
		if err := recover(); err != nil {
			log.Error().Str("URL", r.URL).Str("Frame", frame).Msgf("Error: %s", err)
		}
	}()

	head, data, _ := strings.Cut(frame, ":")
	switch head {
	case "event":
		r.eventEvent(data)
	case "ack":
		r.eventAck(data)
	case "ping", "pong":
	default:
		log.Debug().Str("URL", r.URL).Str("Frame", frame).Msg("Unknown")
	}
}

// eventEvent decodes an inbound event and hands it to OnEvent.
func (r *Relay) eventEvent(data string) {
	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		log.Debug().Str("URL", r.URL).Err(err).Msg("Malformed event")
		return
	}

	if r.OnEvent != nil {
		r.dispatch(&event)
	}
}

// eventQueue holds the events of one user waiting for OnEvent.
type eventQueue struct {
	mu      sync.Mutex
	events  []*Event
	running bool
}

// dispatch queues the event behind the earlier events of its user.
// It never blocks, so acks keep flowing while OnEvent waits.
func (r *Relay) dispatch(event *Event) {
	var user int64
	if event.User != nil {
		user = event.User.ID
	}

	queue, _ := r.inbox.LoadOrCompute(user, func() *eventQueue {
		return &eventQueue{}
	})

	queue.mu.Lock()
	queue.events = append(queue.events, event)
	if queue.running {
		queue.mu.Unlock()
		return
	}
	queue.running = true
	queue.mu.Unlock()

	go r.drain(queue)
}

// drain passes the queued events to OnEvent until the queue is empty.
func (r *Relay) drain(queue *eventQueue) {
	for {
		queue.mu.Lock()
		if len(queue.events) == 0 {
			queue.running = false
			queue.mu.Unlock()
			return
		}
		event := queue.events[0]
		queue.events[0] = nil
		queue.events = queue.events[1:]
		queue.mu.Unlock()

		r.handleEvent(event)
	}
}

// handleEvent calls OnEvent, recovering from its panics.
func (r *Relay) handleEvent(event *Event) {
	defer func() {
		if err := recover(); err != nil {
			log.Error().Str("URL", r.URL).Str("Kind", event.Kind.String()).Msgf("Error: %s", err)
		}
	}()

	r.OnEvent(event)
}

// eventAck completes the Execute call waiting for the acknowledged Action.
func (r *Relay) eventAck(data string) {
	var ack ackFrame
	if err := json.Unmarshal([]byte(data), &ack); err != nil {
		log.Debug().Str("URL", r.URL).Err(err).Msg("Malformed ack")
		return
	}

	done, ok := r.waiters.LoadAndDelete(ack.ID)
	if !ok {
		log.Debug().Str("Action", ack.ID.String()).Msg("Late ack")
		return
	}

	var err error
	if ack.Error != "" {
		err = errors.New(ack.Error)
	}
	done <- err
}
