package guardango

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/net/websocket"
)

// WebSocket represents a WebSocket connection.
// It implements `golang.org/x/net/websocket` under the hood and wraps it into a channel,
// allowing it to be select-able along with other channels.
type WebSocket struct {
	Events  chan string // Incoming frames. Closed when the connection ends.
	OnError func(error) // Called once when receiving fails.

	url        string
	connected  atomic.Bool
	client     *websocket.Conn
	runCtx     context.Context
	cancelFunc context.CancelFunc
}

// Connect establishes a WebSocket connection to the specified URL.
func (w *WebSocket) Connect(url string) (err error) {
	if w.connected.Load() {
		return ErrAlreadyConnected
	}

	w.url = url
	w.client, err = websocket.Dial(url, "", WEBSOCKET_ORIGIN)
	if err != nil {
		return err
	}

	w.Events = make(chan string, EVENT_BUFFER_SIZE)
	w.connected.Store(true)

	return
}

// Connected reports whether the connection is open.
func (w *WebSocket) Connected() bool {
	return w.connected.Load()
}

// Close closes the WebSocket connection. It is safe to call more than once.
func (w *WebSocket) Close() {
	if !w.connected.CompareAndSwap(true, false) {
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.client.Close()
}

// Sustain starts pumping events and keeps the WebSocket connection alive.
func (w *WebSocket) Sustain(ctx context.Context) {
	w.runCtx, w.cancelFunc = context.WithCancel(ctx)
	go w.pumpEvent()
	go w.keepAlive()
}

// pumpEvent pumps incoming frames to the Events channel.
func (w *WebSocket) pumpEvent() {
	defer close(w.Events)

	var msg string
	var err error
	for {
		if msg, err = w.Recv(); err != nil {
			// A local Close is not an error worth reporting.
			if w.connected.Load() && w.OnError != nil {
				w.Close()
				w.OnError(err)
			}
			return
		}

		select {
		case w.Events <- msg:
		case <-w.runCtx.Done():
			return
		}
	}
}

// keepAlive sends periodic ping frames to keep the WebSocket connection alive.
func (w *WebSocket) keepAlive() {
	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if w.Send("ping:") != nil {
				return
			}
		case <-w.runCtx.Done():
			return
		}
	}
}

// Send sends a frame over the WebSocket connection.
func (w *WebSocket) Send(msg string) error {
	if !w.connected.Load() {
		return ErrNotConnected
	}
	return websocket.Message.Send(w.client, msg)
}

// Recv receives a frame from the WebSocket connection.
func (w *WebSocket) Recv() (msg string, err error) {
	if !w.connected.Load() {
		return "", ErrNotConnected
	}
	err = websocket.Message.Receive(w.client, &msg)
	return
}
