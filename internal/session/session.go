package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yolodolo42/testwallet/internal/adapter"
)

// Recorder appends wallet lifecycle events to a JSONL file under
// dataDir/sessions.
type Recorder struct {
	mu   sync.Mutex
	id   string
	path string
	f    *os.File

	target    adapter.WalletAdapter
	listeners map[adapter.EventKind]adapter.ListenerID
}

// Record is one line of the session log
type Record struct {
	TS   string `json:"ts"`
	Type string `json:"type"`

	Wallet    string `json:"wallet,omitempty"`
	PublicKey string `json:"public_key,omitempty"`
	Op        string `json:"op,omitempty"`
	Error     string `json:"error,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Open creates the session file. An empty sessionID gets a random one.
func Open(dataDir, sessionID string) (*Recorder, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data dir not configured")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	dir := filepath.Join(dataDir, "sessions")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &Recorder{id: sessionID, path: path, f: f}, nil
}

func (r *Recorder) ID() string   { return r.id }
func (r *Recorder) Path() string { return r.path }

// Attach subscribes to a's events. A recorder follows one adapter at a time.
func (r *Recorder) Attach(a adapter.WalletAdapter) {
	r.Detach()

	listeners := make(map[adapter.EventKind]adapter.ListenerID, 3)
	for _, kind := range []adapter.EventKind{adapter.EventConnect, adapter.EventDisconnect, adapter.EventError} {
		listeners[kind] = a.On(kind, func(ev adapter.Event) {
			r.write(eventRecord(a.Name(), ev))
		})
	}

	r.mu.Lock()
	r.target = a
	r.listeners = listeners
	r.mu.Unlock()
}

// Detach unsubscribes from the current adapter, if any.
func (r *Recorder) Detach() {
	r.mu.Lock()
	target, listeners := r.target, r.listeners
	r.target, r.listeners = nil, nil
	r.mu.Unlock()

	for kind, id := range listeners {
		target.Off(kind, id)
	}
}

// Note writes a free-form record, e.g. a command result.
func (r *Recorder) Note(typ, content string) {
	r.write(Record{TS: nowTS(), Type: typ, Content: content})
}

func (r *Recorder) Close() {
	r.Detach()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f != nil {
		_ = r.f.Close()
		r.f = nil
	}
}

func (r *Recorder) write(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return
	}

	// One JSON object per line to keep it append-only and streamable.
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	b = append(b, '\n')
	_, _ = r.f.Write(b)
}

func eventRecord(wallet string, ev adapter.Event) Record {
	rec := Record{TS: nowTS(), Type: string(ev.Kind), Wallet: wallet}
	switch ev.Kind {
	case adapter.EventConnect:
		rec.PublicKey = ev.PublicKey.String()
	case adapter.EventError:
		if ev.Err != nil {
			rec.Op = ev.Err.Op
			rec.Error = ev.Err.Error()
		}
	}
	return rec
}

func nowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
