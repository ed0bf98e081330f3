package idle

import "sync"

// Kind identifies the user-activity signal that reset the watchdog. Any
// kind counts equally; the set mirrors the interaction events a dashboard
// shell can observe.
type Kind uint8

const (
	// PointerDown is a mouse or pen button press.
	PointerDown Kind = iota
	// KeyDown is a keyboard press.
	KeyDown
	// Scroll is any scroll event.
	Scroll
	// TouchStart is a touch-screen contact.
	TouchStart
	// Click is a completed click.
	Click
	// PointerMove is pointer movement without a press.
	PointerMove
)

// String returns the event name as the reference shell reports it.
func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "mousedown"
	case KeyDown:
		return "keydown"
	case Scroll:
		return "scroll"
	case TouchStart:
		return "touchstart"
	case Click:
		return "click"
	case PointerMove:
		return "mousemove"
	default:
		return "unknown"
	}
}

// Source delivers user-activity signals to subscribers. The watchdog
// subscribes on Start and must be able to detach cleanly on Stop, so
// Subscribe returns a cancel function.
type Source interface {
	Subscribe(fn func(Kind)) (cancel func())
}

// Hub is the standard Source: the embedding UI pushes every qualifying
// interaction into it with Emit, and any number of watchers subscribe.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Kind)
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Kind))}
}

// Emit delivers the signal to every current subscriber synchronously.
func (h *Hub) Emit(k Kind) {
	h.mu.Lock()
	fns := make([]func(Kind), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(k)
	}
}

// Subscribe registers fn and returns its removal function.
func (h *Hub) Subscribe(fn func(Kind)) (cancel func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Subscribers returns the current subscription count. Useful for asserting
// that repeated session cycles do not leak listeners.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// ChanSource is a Source fed from a channel. Embedding UIs that already
// route their events through a channel hand it over instead of calling
// Emit; a pump goroutine fans each value out to subscribers until the
// channel closes or Close is called.
type ChanSource struct {
	hub  *Hub
	done chan struct{}
	once sync.Once
}

// NewChanSource starts pumping ch. The caller keeps ownership of ch and
// closes it (or calls Close) to stop the pump.
func NewChanSource(ch <-chan Kind) *ChanSource {
	s := &ChanSource{hub: NewHub(), done: make(chan struct{})}
	go func() {
		for {
			select {
			case k, ok := <-ch:
				if !ok {
					return
				}
				s.hub.Emit(k)
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Subscribe registers fn for every pumped signal.
func (s *ChanSource) Subscribe(fn func(Kind)) (cancel func()) {
	return s.hub.Subscribe(fn)
}

// Close stops the pump. Idempotent; the channel itself is untouched.
func (s *ChanSource) Close() {
	s.once.Do(func() { close(s.done) })
}
