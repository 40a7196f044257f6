package gamehub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"BowlingLeagueApi/internal/bowling"

	"github.com/gorilla/websocket"
)

// PlayerLookup resolves player ids to names for the published scoreboard.
type PlayerLookup func(ctx context.Context, ids []int64) (map[int64]bowling.Player, error)

type snapshot struct {
	Type       string             `json:"type"`
	Scoreboard bowling.Scoreboard `json:"scoreboard"`
}

// Registry runs one hub per watched match, keyed by match pin. It implements
// scoring.Publisher.
type Registry struct {
	mu       sync.Mutex
	hubs     map[string]*Hub
	closed   bool
	upgrader websocket.Upgrader
	players  PlayerLookup
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger, players PlayerLookup, trustedOrigins []string) *Registry {
	r := &Registry{
		hubs:    make(map[string]*Hub),
		players: players,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if len(trustedOrigins) > 0 {
		r.upgrader.CheckOrigin = func(req *http.Request) bool {
			origin := req.Header.Get("Origin")
			return origin == "" || slices.Contains(trustedOrigins, origin)
		}
	}
	return r
}

// Snapshot renders the scoreboard message for m.
func (r *Registry) Snapshot(ctx context.Context, m *bowling.Match) ([]byte, error) {
	var names map[int64]bowling.Player
	if r.players != nil {
		var err error
		names, err = r.players(ctx, m.Players())
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(snapshot{Type: "scoreboard", Scoreboard: bowling.NewScoreboard(m, names)})
}

// Publish pushes the current state of m to its watchers, if there are any.
func (r *Registry) Publish(m *bowling.Match) {
	h := r.lookup(m.Pin)
	if h == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	msg, err := r.Snapshot(ctx, m)
	if err != nil {
		r.logger.Error("render live scoreboard", slog.String("pin", m.Pin), slog.String("error", err.Error()))
		return
	}

	select {
	case h.Broadcast <- msg:
	case <-h.done:
	}
}

// Watch upgrades the request to a websocket that follows m. Only an
// ErrSnapshot failure leaves the response unanswered; on upgrade failure the
// upgrader has already replied.
func (r *Registry) Watch(w http.ResponseWriter, req *http.Request, m *bowling.Match) error {
	initial, err := r.Snapshot(req.Context(), m)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshot, err)
	}

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return err
	}

	watcher := newWatcher(conn, initial)
	if err := r.join(m.Pin, watcher); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		_ = conn.Close()
		return err
	}

	go watcher.WriteEvents()
	go watcher.ReadEvents()
	return nil
}

func (r *Registry) join(pin string, watcher *Watcher) error {
	for {
		h, err := r.hub(pin)
		if err != nil {
			return err
		}
		watcher.hub = h

		select {
		case h.JoinWatcher <- watcher:
			return nil
		case <-h.done:
			// The hub went idle between lookup and join.
		}
	}
}

func (r *Registry) hub(pin string) (*Hub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if h, ok := r.hubs[pin]; ok {
		return h, nil
	}

	h := newHub(pin, r.logger, r.release)
	r.hubs[pin] = h
	go h.Run()
	return h, nil
}

func (r *Registry) lookup(pin string) *Hub {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hubs[pin]
}

func (r *Registry) release(h *Hub) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hubs[h.Pin] == h {
		delete(r.hubs, h.Pin)
	}
}

// Active reports how many matches are being watched.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hubs)
}

// Close stops every hub and disconnects its watchers. Later joins fail with
// ErrRegistryClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for pin, h := range r.hubs {
		close(h.stop)
		delete(r.hubs, pin)
	}
}
