package authsession

import "sync"

// subscriberBuffer sizes each subscriber channel. Slow consumers miss
// intermediate snapshots rather than blocking the store; every subscriber
// still converges on the latest state because each notification carries the
// full snapshot.
const subscriberBuffer = 8

type watcherHub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan Session
}

func newWatcherHub() *watcherHub {
	return &watcherHub{subs: make(map[uint64]chan Session)}
}

// subscribe registers a new watcher and returns its channel plus an
// idempotent cancel function.
func (h *watcherHub) subscribe() (<-chan Session, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Session, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// notify fans the snapshot out to all watchers, dropping it for any whose
// buffer is full.
func (h *watcherHub) notify(snapshot Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
