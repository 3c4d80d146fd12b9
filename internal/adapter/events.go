package adapter

import (
	"sync"

	"github.com/google/uuid"
	"github.com/yolodolo42/testwallet/internal/keypair"
)

// EventKind names a lifecycle event
type EventKind string

const (
	EventConnect    EventKind = "connect"
	EventDisconnect EventKind = "disconnect"
	EventError      EventKind = "error"
)

// Event is delivered to listeners. PublicKey is set for connect, Err for
// error.
type Event struct {
	Kind      EventKind
	PublicKey keypair.PublicKey
	Err       *WalletError
}

// Listener receives events on the goroutine that caused them.
type Listener func(Event)

// ListenerID identifies a registration for Off
type ListenerID string

type registration struct {
	id   ListenerID
	fn   Listener
	once bool
}

type emitter struct {
	mu        sync.Mutex
	listeners map[EventKind][]registration
}

func (e *emitter) on(kind EventKind, fn Listener, once bool) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[EventKind][]registration)
	}
	id := ListenerID(uuid.NewString())
	e.listeners[kind] = append(e.listeners[kind], registration{id: id, fn: fn, once: once})
	return id
}

func (e *emitter) off(kind EventKind, id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.listeners[kind]
	for i, r := range regs {
		if r.id == id {
			e.listeners[kind] = append(regs[:i:i], regs[i+1:]...)
			return true
		}
	}
	return false
}

func (e *emitter) count(kind EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[kind])
}

// emit calls listeners in registration order, outside the lock so they may
// call back into the adapter.
func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	regs := e.listeners[ev.Kind]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)

	kept := regs[:0:0]
	for _, r := range regs {
		if !r.once {
			kept = append(kept, r)
		}
	}
	if len(kept) != len(regs) {
		e.listeners[ev.Kind] = kept
	}
	e.mu.Unlock()

	for _, r := range snapshot {
		r.fn(ev)
	}
}
