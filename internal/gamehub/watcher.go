package gamehub

import (
	"time"

	"github.com/gorilla/websocket"
)

// Watcher is one websocket client following a match.
type Watcher struct {
	hub     *Hub
	Conn    *websocket.Conn
	Receive chan []byte
	initial []byte
}

func newWatcher(conn *websocket.Conn, initial []byte) *Watcher {
	return &Watcher{
		Conn:    conn,
		Receive: make(chan []byte, watcherBuffer),
		initial: initial,
	}
}

func (w *Watcher) leave() {
	select {
	case w.hub.LeaveWatcher <- w:
	case <-w.hub.done:
	}
}

// ReadEvents discards client messages and keeps the connection alive through
// pongs. It returns once the client goes away.
func (w *Watcher) ReadEvents() {
	defer func() {
		w.leave()
		_ = w.Conn.Close()
	}()

	w.Conn.SetReadLimit(maxMessageSize)
	_ = w.Conn.SetReadDeadline(time.Now().Add(pongWait))
	w.Conn.SetPongHandler(func(string) error {
		return w.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := w.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (w *Watcher) WriteEvents() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.leave()
		_ = w.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-w.Receive:
			_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = w.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}

			writer, err := w.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = writer.Write(message)

			if err := writer.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
