package gamehub

import "log/slog"

// Hub fans scoreboard snapshots of one match out to its watchers. Watchers and
// the latest snapshot are owned by the Run goroutine.
type Hub struct {
	Pin          string
	Watchers     map[*Watcher]bool
	JoinWatcher  chan *Watcher
	LeaveWatcher chan *Watcher
	Broadcast    chan []byte
	last         []byte
	stop         chan struct{}
	done         chan struct{}
	onEmpty      func(*Hub)
	logger       *slog.Logger
}

func newHub(pin string, logger *slog.Logger, onEmpty func(*Hub)) *Hub {
	return &Hub{
		Pin:          pin,
		Watchers:     make(map[*Watcher]bool),
		JoinWatcher:  make(chan *Watcher),
		LeaveWatcher: make(chan *Watcher),
		Broadcast:    make(chan []byte),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		onEmpty:      onEmpty,
		logger:       logger,
	}
}

// Run serves the hub until its last watcher leaves or the hub is stopped.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case watcher := <-h.JoinWatcher:
			h.Watchers[watcher] = true
			if h.last == nil {
				h.last = watcher.initial
			}
			h.send(watcher, h.last)
		case watcher := <-h.LeaveWatcher:
			if _, ok := h.Watchers[watcher]; ok {
				delete(h.Watchers, watcher)
				close(watcher.Receive)
			}
		case msg := <-h.Broadcast:
			h.last = msg
			h.ToAllWatchers(msg)
		case <-h.stop:
			for watcher := range h.Watchers {
				delete(h.Watchers, watcher)
				close(watcher.Receive)
			}
			return
		}

		if len(h.Watchers) == 0 {
			h.logger.Debug("live hub idle", slog.String("pin", h.Pin))
			h.onEmpty(h)
			return
		}
	}
}

func (h *Hub) ToAllWatchers(msg []byte) {
	for watcher := range h.Watchers {
		h.send(watcher, msg)
	}
}

// send queues msg for the watcher, dropping watchers that fall behind.
func (h *Hub) send(watcher *Watcher, msg []byte) {
	if msg == nil {
		return
	}
	select {
	case watcher.Receive <- msg:
	default:
		h.logger.Warn("dropping slow live watcher", slog.String("pin", h.Pin))
		close(watcher.Receive)
		delete(h.Watchers, watcher)
	}
}
